package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")

	// ErrTokenInvalid covers malformed, unsigned, expired and mismatched tokens.
	ErrTokenInvalid = errors.New("invalid token")

	ErrUnauthenticated  = errors.New("authentication required")
	ErrInsufficientRole = errors.New("insufficient role")
)
