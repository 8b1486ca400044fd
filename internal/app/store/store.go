/*
Package store provides the PostgreSQL queries for the marketplace entities.

Queries are hand-written over a pgx connection pool. Nullable columns use
pgtype values so they serialize to JSON as the value or null; monetary and
rating columns are selected as text to avoid lossy float conversions.
*/
package store

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store executes queries against the connection pool. It is safe for
// concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// User is an account row. The password hash never serializes.
type User struct {
	ID           int32       `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Email        string      `json:"email"`
	FullName     string      `json:"fullName"`
	PhoneNumber  pgtype.Text `json:"phoneNumber"`
	Address      pgtype.Text `json:"address"`
	Role         string      `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// School is a driving_schools row.
type School struct {
	ID            int32       `json:"id"`
	UserID        int32       `json:"userId"`
	Name          string      `json:"name"`
	Description   pgtype.Text `json:"description"`
	Address       string      `json:"address"`
	City          string      `json:"city"`
	ContactPerson string      `json:"contactPerson"`
	ContactNumber string      `json:"contactNumber"`
	LogoKey       pgtype.Text `json:"logoKey"`
	CoverImageKey pgtype.Text `json:"coverImageKey"`
	Rating        string      `json:"rating"`
	ReviewCount   int32       `json:"reviewCount"`
	PassRate      int32       `json:"passRate"`
	IsVerified    bool        `json:"isVerified"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// Service is a services row. Type is the licence code the package prepares
// for (code8, code10 or code14).
type Service struct {
	ID              int32       `json:"id"`
	SchoolID        int32       `json:"schoolId"`
	Name            string      `json:"name"`
	Description     pgtype.Text `json:"description"`
	Price           string      `json:"price"`
	Type            string      `json:"type"`
	LessonCount     pgtype.Int4 `json:"lessonCount"`
	DurationMinutes pgtype.Int4 `json:"durationMinutes"`
	TestIncluded    bool        `json:"testIncluded"`
	IsActive        bool        `json:"isActive"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// Instructor is an instructors row.
type Instructor struct {
	ID              int32       `json:"id"`
	SchoolID        int32       `json:"schoolId"`
	Name            string      `json:"name"`
	LicenseNumber   string      `json:"licenseNumber"`
	LicenseExpiry   time.Time   `json:"licenseExpiry"`
	IDNumber        string      `json:"idNumber"`
	PhotoKey        pgtype.Text `json:"photoKey"`
	LicensePhotoKey pgtype.Text `json:"licensePhotoKey"`
	IsActive        bool        `json:"isActive"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// Vehicle is a vehicles row.
type Vehicle struct {
	ID           int32       `json:"id"`
	SchoolID     int32       `json:"schoolId"`
	Brand        string      `json:"brand"`
	Model        string      `json:"model"`
	Year         pgtype.Int4 `json:"year"`
	PlateNumber  string      `json:"plateNumber"`
	Transmission string      `json:"transmission"`
	PhotoKey     pgtype.Text `json:"photoKey"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Booking is a bookings row.
type Booking struct {
	ID               int32              `json:"id"`
	UserID           int32              `json:"userId"`
	SchoolID         int32              `json:"schoolId"`
	ServiceID        int32              `json:"serviceId"`
	InstructorID     pgtype.Int4        `json:"instructorId"`
	VehicleID        pgtype.Int4        `json:"vehicleId"`
	StartDate        time.Time          `json:"startDate"`
	Status           string             `json:"status"`
	TotalAmount      string             `json:"totalAmount"`
	Notes            pgtype.Text        `json:"notes"`
	FullName         pgtype.Text        `json:"fullName"`
	Email            pgtype.Text        `json:"email"`
	PhoneNumber      pgtype.Text        `json:"phoneNumber"`
	Address          pgtype.Text        `json:"address"`
	PaymentMethod    pgtype.Text        `json:"paymentMethod"`
	InvoiceNumber    pgtype.Text        `json:"invoiceNumber"`
	InvoiceDate      pgtype.Timestamptz `json:"invoiceDate"`
	NotificationSent bool               `json:"notificationSent"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// BookingDetail is a booking joined with its school and service names for
// list views.
type BookingDetail struct {
	Booking
	SchoolName  string `json:"schoolName"`
	ServiceName string `json:"serviceName"`
}
