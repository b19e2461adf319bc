package service

import (
	"errors"

	"gorm.io/gorm"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found or not owned by the caller
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate email)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when sign-in fails. It does not say
	// whether the email exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrStorageUnavailable is returned when report archiving is enabled but no storage is configured
	ErrStorageUnavailable = errors.New("storage not configured")
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
