package testutil

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"

	"speech-relay/internal/app/api/provider"
)

// MockRecognizer is a mock implementation of provider.Recognizer
type MockRecognizer struct {
	mock.Mock
	name string
}

// NewMockRecognizer creates a recognizer mock named "mock"
func NewMockRecognizer(t *testing.T) *MockRecognizer {
	m := &MockRecognizer{name: "mock"}
	m.Test(t)
	return m
}

func (m *MockRecognizer) Recognize(ctx context.Context, request *provider.RecognitionRequest) (*provider.RecognitionResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.RecognitionResult), args.Error(1)
}

func (m *MockRecognizer) Name() string {
	return m.name
}

// MockConverter is a mock implementation of audio.Converter.
// When Output is set, a successful Convert writes it to the output path.
type MockConverter struct {
	mock.Mock
	Output []byte
}

// NewMockConverter creates a converter mock
func NewMockConverter(t *testing.T) *MockConverter {
	m := &MockConverter{}
	m.Test(t)
	return m
}

func (m *MockConverter) Convert(ctx context.Context, inputPath, outputPath string) error {
	args := m.Called(ctx, inputPath, outputPath)
	if err := args.Error(0); err != nil {
		return err
	}
	if m.Output != nil {
		return os.WriteFile(outputPath, m.Output, 0o600)
	}
	return nil
}

// MockTranscriptionService is a mock implementation of services.TranscriptionService
type MockTranscriptionService struct {
	mock.Mock
}

// NewMockTranscriptionService creates a service mock
func NewMockTranscriptionService(t *testing.T) *MockTranscriptionService {
	m := &MockTranscriptionService{}
	m.Test(t)
	return m
}

func (m *MockTranscriptionService) Upload(ctx context.Context, filename string, src io.Reader) (*provider.RecognitionResult, error) {
	args := m.Called(ctx, filename, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.RecognitionResult), args.Error(1)
}

func (m *MockTranscriptionService) TranscribeBase64(ctx context.Context, content string) (*provider.RecognitionResult, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.RecognitionResult), args.Error(1)
}
