package services

import (
	"context"
	"io"

	"speech-relay/internal/app/api/provider"
)

// TranscriptionService defines the operations behind the upload routes.
// *relay.Service is the production implementation.
type TranscriptionService interface {
	// Upload converts an uploaded file and transcribes it
	Upload(ctx context.Context, filename string, src io.Reader) (*provider.RecognitionResult, error)

	// TranscribeBase64 transcribes caller-encoded linear PCM
	TranscribeBase64(ctx context.Context, content string) (*provider.RecognitionResult, error)
}
