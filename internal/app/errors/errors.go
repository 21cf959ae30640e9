// Package errors holds the sentinel failures shared by the relay pipeline and
// a small wrapping type that keeps them matchable with errors.Is.
package errors

import "fmt"

// Configuration
var (
	ErrMissingAPIKey = New("API key is required")
	ErrInvalidAPIKey = New("invalid API key format")
	ErrInvalidConfig = New("invalid configuration")
)

// Scratch storage
var (
	ErrScratchUnavailable = New("scratch directory unavailable")
	ErrFileWriteFailed    = New("file write failed")
	ErrFileReadFailed     = New("file read failed")
)

// Conversion
var (
	ErrConverterFailed  = New("converter exited with error")
	ErrConverterTimeout = New("converter timeout")
)

// Upstream recognizer
var (
	ErrRequestFailed   = New("request failed")
	ErrResponseInvalid = New("invalid response")
)

// Error is a message with an optional cause. Two Errors are the same failure
// when their messages match, so sentinels survive being wrapped.
type Error struct {
	message string
	cause   error
}

// New returns a bare Error, typically used as a sentinel
func New(message string) *Error {
	return &Error{message: message}
}

// Newf is New with fmt formatting
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Wrap puts message in front of cause. A nil cause stays nil.
func Wrap(cause error, message string) error {
	if cause == nil {
		return nil
	}
	return &Error{message: message, cause: cause}
}

// Wrapf is Wrap with fmt formatting
func Wrapf(cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return Wrap(cause, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error carrying the same message
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.message == e.message
}

// RequiredField reports an empty setting
func RequiredField(field string) error {
	return Newf("%s is required", field)
}

// InvalidField reports a setting that failed to parse or validate
func InvalidField(field, reason string) error {
	return Newf("%s is invalid: %s", field, reason)
}

// TooShort reports a value under its minimum length
func TooShort(field string, minLength int) error {
	return Newf("%s too short (minimum %d characters)", field, minLength)
}

// OutOfRange reports a value outside [min, max]
func OutOfRange(field string, min, max interface{}) error {
	return Newf("%s out of range (must be between %v and %v)", field, min, max)
}
