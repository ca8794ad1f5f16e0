package auth

import "errors"

var (
	// ErrMissingCredentials reports absent request fields. No side effects
	// have been performed when it is returned.
	ErrMissingCredentials = errors.New("email and password are required")

	// ErrInvalidCredentials covers unknown email, inactive account and
	// wrong password alike, so callers cannot probe account existence.
	ErrInvalidCredentials = errors.New("email or password incorrect")

	// ErrUnauthorized covers every identity-resolution failure: invalid or
	// expired token, deleted user, non-ACTIVE status.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateUser reports a registration conflict on email or username.
	ErrDuplicateUser = errors.New("email or username already in use")
)
