package provider

import (
	"encoding/json"
	"errors"
	"strings"
)

// RecognitionConfig describes the audio a recognizer expects
type RecognitionConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	Channels        int    `json:"audioChannelCount,omitempty"`
	LanguageCode    string `json:"languageCode"`
}

// RecognitionRequest carries one base64-encoded audio payload
type RecognitionRequest struct {
	Content string
}

// RecognitionResult is the combined transcript plus the verbatim upstream body
type RecognitionResult struct {
	Transcript string
	Raw        json.RawMessage
}

// ErrorCode classifies recognizer failures
type ErrorCode string

const (
	// CodeEmptyResult means the upstream answered but produced no transcript
	CodeEmptyResult ErrorCode = "empty_result"
	// CodeCallFailed means the upstream could not be reached or answered garbage
	CodeCallFailed ErrorCode = "call_failed"
)

// RecognitionError represents recognizer-specific errors
type RecognitionError struct {
	Code     ErrorCode       `json:"code"`
	Message  string          `json:"message"`
	Provider string          `json:"provider"`
	Details  json.RawMessage `json:"details,omitempty"`
	cause    error
}

func (e *RecognitionError) Error() string {
	return e.Message
}

func (e *RecognitionError) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying failure so callers can match it with errors.Is
func (e *RecognitionError) WithCause(cause error) *RecognitionError {
	e.cause = cause
	return e
}

// NewEmptyResultError reports a well-formed response without transcripts
func NewEmptyResultError(provider string, body []byte) *RecognitionError {
	return &RecognitionError{
		Code:     CodeEmptyResult,
		Message:  "No transcript found",
		Provider: provider,
		Details:  detailsOf(body),
	}
}

// NewCallFailedError reports a transport or decoding failure
func NewCallFailedError(provider, displayName, detail string) *RecognitionError {
	return &RecognitionError{
		Code:     CodeCallFailed,
		Message:  displayName + " API request failed: " + detail,
		Provider: provider,
	}
}

// AsRecognitionError extracts a RecognitionError from err's chain
func AsRecognitionError(err error) (*RecognitionError, bool) {
	var recErr *RecognitionError
	if errors.As(err, &recErr) {
		return recErr, true
	}
	return nil, false
}

// JoinTranscripts joins per-result transcripts with single spaces, preserving
// order. Empty transcripts are kept, so they show up as doubled spaces.
func JoinTranscripts(parts []string) string {
	return strings.Join(parts, " ")
}

// detailsOf keeps the upstream body as JSON when it is JSON, else quotes it as a string
func detailsOf(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
