package errors

import (
	"net/http"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindBadRequest ErrorKind = "bad_request"
	KindTooLarge   ErrorKind = "too_large"
	KindInternal   ErrorKind = "internal"
)

// APIError represents a structured API error response.
// Details is rendered verbatim, so upstream bodies pass through unchanged.
type APIError struct {
	Kind      ErrorKind   `json:"-"`
	Message   string      `json:"error"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest, KindTooLarge:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	apiErr := &APIError{
		Kind:    KindValidation,
		Message: message,
	}
	if len(fields) > 0 {
		apiErr.Details = fields
	}
	return apiErr
}

// NewBadRequestError creates a bad request error with optional details
func NewBadRequestError(message string, details interface{}) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
		Details: details,
	}
}

// NewTooLargeError creates an error for uploads over the size limit
func NewTooLargeError(limit int64) *APIError {
	return &APIError{
		Kind:    KindTooLarge,
		Message: "Upload too large",
		Details: map[string]int64{"max_bytes": limit},
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}
