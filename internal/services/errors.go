package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP codes by the handlers
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrCheckinLocked    = errors.New("check-in locked")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// NewValidationError wraps field-level detail under ErrValidationFailed
func NewValidationError(detail string) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, detail)
}

// NewNotFoundError wraps entity identity under ErrNotFound
func NewNotFoundError(entity string, key any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, entity, key)
}

// NewPermissionError wraps actor and action detail under ErrForbidden
func NewPermissionError(username, action string) error {
	return fmt.Errorf("%w: %s cannot %s", ErrForbidden, username, action)
}

// NewLockedError wraps the cadence status under ErrCheckinLocked
func NewLockedError(status CadenceStatus) error {
	return fmt.Errorf("%w: %s", ErrCheckinLocked, status)
}
