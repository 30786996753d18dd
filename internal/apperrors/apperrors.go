// Package apperrors defines the domain error taxonomy and the central HTTP
// error handler that maps it onto response status codes.
package apperrors

import "errors"

var (
	// ErrUnauthenticated is returned when an operation requires an
	// authenticated principal and the caller is anonymous.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when an authenticated principal fails an
	// ownership or role check.
	ErrForbidden = errors.New("access forbidden")
	// ErrInvalidCredentials is returned on login with a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrListingNotFound is returned when a cheese listing does not exist or
	// is not visible to the caller.
	ErrListingNotFound = errors.New("cheese listing not found")
)
