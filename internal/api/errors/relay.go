package errors

import (
	"speech-relay/internal/app/relay"
)

// FromRelayError maps a relay failure onto its HTTP representation
func FromRelayError(err *relay.Error) *APIError {
	switch err.Kind {
	case relay.KindValidation:
		return NewValidationError(err.Message, nil)
	case relay.KindMissingFile:
		return NewBadRequestError(err.Message, nil)
	case relay.KindUpstreamEmpty:
		// a nil RawMessage in the interface would render as "details": null
		if len(err.Details) == 0 {
			return NewBadRequestError(err.Message, nil)
		}
		return NewBadRequestError(err.Message, err.Details)
	default:
		// remaining kinds are server-side failures
		return NewInternalError(err.Message)
	}
}
