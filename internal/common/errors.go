// Package common defines shared constants and sentinel errors used across
// the layers of the Notedly backend. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("duplicate key")

	// Service-level errors (generic/internal flow control).
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("authentication failed")
	ErrorForbidden       = errors.New("forbidden")
	ErrorValidation      = errors.New("validation error")

	// Sign-up failures collapse into one generic error so responses never
	// reveal whether a username or an email collided.
	ErrorAccountCreation = errors.New("could not create account")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
