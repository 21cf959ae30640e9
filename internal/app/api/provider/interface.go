package provider

import (
	"context"
)

// Recognizer sends linear PCM audio to a remote speech-recognition service.
// Implementations must be safe for concurrent use and must not retry.
type Recognizer interface {
	// Recognize transcribes base64 audio content described by the recognizer's configuration
	Recognize(ctx context.Context, request *RecognitionRequest) (*RecognitionResult, error)

	// Name identifies the backend in logs, metrics and error messages
	Name() string
}
