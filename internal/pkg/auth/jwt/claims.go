package jwt

import "github.com/golang-jwt/jwt"

// Role values carried in the token. They mirror the users.role column.
const (
	RoleStudent = "student"
	RoleSchool  = "school"
	RoleAdmin   = "admin"
)

// Payload defines the structure of the JSON Web Token (JWT) claims for the
// marketplace API. It includes standard claims required by the JWT
// specification and custom claims necessary for identifying and authorizing
// account holders.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the account's primary key in the users table.
	UserID int32 `json:"user_id"`

	// Username is carried for logging and display; authorization decisions
	// use UserID and Role only.
	Username string `json:"username"`

	// Role defines what the holder may do: students book lessons, schools
	// manage their listing, admins operate the platform.
	Role string `json:"role"`
}

// IsAdmin reports whether the token holder is a platform operator.
func (p *Payload) IsAdmin() bool {
	return p.Role == RoleAdmin
}
