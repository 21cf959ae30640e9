package relay

import (
	"encoding/json"
	"errors"
)

// Kind classifies a failed relay request
type Kind string

const (
	KindValidation    Kind = "validation"
	KindMissingFile   Kind = "missing_file"
	KindStorage       Kind = "storage_failed"
	KindConversion    Kind = "conversion_failed"
	KindArtifactRead  Kind = "artifact_read_failed"
	KindUpstreamEmpty Kind = "upstream_empty_result"
	KindUpstreamCall  Kind = "upstream_call_failed"
)

// Error is returned by every failing Service operation.
// Message is the text shown to callers; Details carries the upstream body when there is one.
type Error struct {
	Kind    Kind
	Message string
	Details json.RawMessage
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// AsError extracts a relay Error from err's chain
func AsError(err error) (*Error, bool) {
	var relayErr *Error
	if errors.As(err, &relayErr) {
		return relayErr, true
	}
	return nil, false
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}
