package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized     = fmt.Errorf("unauthorized")
	ErrForbidden        = fmt.Errorf("forbidden")
	ErrNotFound         = fmt.Errorf("not found")
	ErrCapacityExceeded = fmt.Errorf("room capacity exceeded")
	ErrPersistence      = fmt.Errorf("persistence failure")
	ErrEmptyContent     = fmt.Errorf("empty content")
	ErrInvalidEvent     = fmt.Errorf("invalid event")
	ErrWorkerPanic      = fmt.Errorf("worker panic")

	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("invalid password")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
)

// Stable reason codes sent to clients.
// A code only carries the failure category, never internal detail.
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
	CodePersistence      = "PERSISTENCE_FAILURE"
	CodeInvalidEvent     = "INVALID_EVENT"
	CodeInternal         = "INTERNAL"
)

// ReasonCode maps an error to its caller-visible reason code.
// Unclassified errors collapse into CodeInternal.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrCapacityExceeded):
		return CodeCapacityExceeded
	case errors.Is(err, ErrPersistence):
		return CodePersistence
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrInvalidEvent):
		return CodeInvalidEvent
	default:
		return CodeInternal
	}
}
