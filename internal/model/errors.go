package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")

	// Password policy errors
	ErrWeakPassword = errors.New("password does not meet minimum strength")

	// Token related errors
	ErrTokenMalformed = errors.New("token is malformed or has an invalid signature")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenWrongKind = errors.New("token kind is not accepted here")

	// Task related errors. A task that exists but belongs to another user
	// is reported as not found; the two cases must stay indistinguishable.
	ErrTaskNotFound = errors.New("task not found")

	// Generic errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidInput    = errors.New("invalid input")
)
