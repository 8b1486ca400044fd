/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Marketplace Business Logic Errors
	ErrSchoolNotFound:      {Code: ErrSchoolNotFound, Message: "Driving school not found.", Status: http.StatusNotFound},
	ErrSchoolAlreadyExists: {Code: ErrSchoolAlreadyExists, Message: "A school profile already exists for this account."},
	ErrServiceNotFound:     {Code: ErrServiceNotFound, Message: "Service not found.", Status: http.StatusNotFound},
	ErrServiceTypeInvalid:  {Code: ErrServiceTypeInvalid, Message: "Invalid service type. Expected code8, code10 or code14."},
	ErrTransmissionInvalid: {Code: ErrTransmissionInvalid, Message: "Invalid transmission. Expected automatic or manual."},
	ErrBookingNotFound:     {Code: ErrBookingNotFound, Message: "Booking not found.", Status: http.StatusNotFound},
	ErrBookingDateInvalid:  {Code: ErrBookingDateInvalid, Message: "Booking start date is invalid."},

	// 3xxx: User, Session, and Security Errors
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrInvalidUsername:    {Code: ErrInvalidUsername, Message: "Invalid username."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address."},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "Username or email is already taken."},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect username or password."},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrForbidden:          {Code: ErrForbidden, Message: "Access denied.", Status: http.StatusForbidden},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again."},
}
