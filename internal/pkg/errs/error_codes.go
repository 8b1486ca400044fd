/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Marketplace Business Logic Errors
const (
	// ErrSchoolNotFound indicates that the requested driving school does not exist.
	ErrSchoolNotFound = 2101

	// ErrSchoolAlreadyExists indicates that the account already has a registered school profile.
	ErrSchoolAlreadyExists = 2102

	// ErrServiceNotFound indicates that the requested service does not exist or is inactive.
	ErrServiceNotFound = 2103

	// ErrServiceTypeInvalid indicates an invalid licence-code service type was supplied.
	ErrServiceTypeInvalid = 2104

	// ErrTransmissionInvalid indicates an invalid vehicle transmission value was supplied.
	ErrTransmissionInvalid = 2105

	// ErrBookingNotFound indicates that the requested booking does not exist.
	ErrBookingNotFound = 2201

	// ErrBookingDateInvalid indicates that the requested booking start date is invalid or in the past.
	ErrBookingDateInvalid = 2202
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrAlreadyLoggedIn indicates a register/login attempt while already authenticated.
	ErrAlreadyLoggedIn = 3001

	// ErrInvalidUsername indicates the supplied username fails format validation.
	ErrInvalidUsername = 3002

	// ErrInvalidPassword indicates the supplied password fails length validation.
	ErrInvalidPassword = 3003

	// ErrInvalidEmail indicates the supplied email address fails format validation.
	ErrInvalidEmail = 3004

	// ErrUserAlreadyExists indicates the username or email is already registered.
	ErrUserAlreadyExists = 3005

	// ErrInvalidCredentials indicates a failed username/password verification.
	ErrInvalidCredentials = 3006

	// ErrUserNotFound indicates the requested account does not exist.
	ErrUserNotFound = 3007

	// ErrUnauthorized indicates the request requires authentication.
	ErrUnauthorized = 3008

	// ErrForbidden indicates the authenticated account lacks the required role.
	ErrForbidden = 3009
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates a failure while talking to the object storage backend.
	ErrFileStorageFailed = 5001
)
