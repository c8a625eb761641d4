package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared across the engine. Callers match with errors.Is
// after unwrapping.
var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrEmptyInput           = errors.New("empty input")
	ErrUnknownTestType      = errors.New("unknown test type")
	ErrNarrativeUnavailable = errors.New("narrative service unavailable")
)

// Error codes returned in API envelopes.
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeDatabaseError  = "DATABASE_ERROR"
	ErrCodeNarrative      = "NARRATIVE_ERROR"
	ErrCodeUnavailable    = "SERVICE_UNAVAILABLE"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// APIError is the structured error envelope returned over HTTP and MCP.
type APIError struct {
	Code          string    `json:"error"`
	Message       string    `json:"message"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAPIError builds an envelope stamped with the current UTC time.
func NewAPIError(code, message, correlationID string) *APIError {
	return &APIError{
		Code:          code,
		Message:       message,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
	}
}

// ValidationError reports a field-level input problem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Unwrap ties every ValidationError to the ErrValidation sentinel.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a field-level validation error.
func NewValidationError(field, message string, value any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
