package domain

import (
	"errors"
	"strings"
)

// Sentinel errors crossing the service boundary. Repositories and services
// translate every internal failure into one of these before returning.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed to perform this action")
	ErrRenewalFailed      = errors.New("renew token failed")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidGrant       = errors.New("invalid share grant")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrShareNotFound      = errors.New("share not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError carries ordered field-level messages for malformed input.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewValidationError wraps one or more field messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// ConflictError reports a uniqueness violation (username or email already
// taken), field by field.
type ConflictError struct {
	Messages []string
}

func (e *ConflictError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewConflictError wraps one or more conflict messages.
func NewConflictError(messages ...string) *ConflictError {
	return &ConflictError{Messages: messages}
}
