package whisper

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"speech-relay/internal/app/api/provider"
)

const (
	providerName = "openai"
	displayName  = "OpenAI"
)

// RemoteRecognizer transcribes through the OpenAI audio transcription API.
// It receives the same base64 linear PCM payload as every other backend and
// uploads it as a WAV file.
type RemoteRecognizer struct {
	client   *openai.Client
	model    string
	language string
}

// NewRemoteRecognizer creates a new RemoteRecognizer instance.
// languageCode may be a BCP-47 tag such as en-US; only the primary subtag is sent.
func NewRemoteRecognizer(client *openai.Client, model, languageCode string) *RemoteRecognizer {
	if model == "" {
		model = openai.Whisper1
	}
	return &RemoteRecognizer{
		client:   client,
		model:    model,
		language: primaryLanguage(languageCode),
	}
}

// Name implements provider.Recognizer
func (rr *RemoteRecognizer) Name() string {
	return providerName
}

// Recognize implements provider.Recognizer
func (rr *RemoteRecognizer) Recognize(ctx context.Context, request *provider.RecognitionRequest) (*provider.RecognitionResult, error) {
	audio, err := base64.StdEncoding.DecodeString(request.Content)
	if err != nil {
		return nil, provider.NewCallFailedError(providerName, displayName, fmt.Sprintf("audio content is not base64: %v", err))
	}

	resp, err := rr.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    rr.model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(audio),
		Language: rr.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, provider.NewCallFailedError(providerName, displayName,
				fmt.Sprintf("status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)).WithCause(err)
		}
		return nil, provider.NewCallFailedError(providerName, displayName, err.Error()).WithCause(err)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, provider.NewCallFailedError(providerName, displayName, fmt.Sprintf("failed to encode response: %v", err))
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, provider.NewEmptyResultError(providerName, raw)
	}

	return &provider.RecognitionResult{
		Transcript: text,
		Raw:        raw,
	}, nil
}

func primaryLanguage(code string) string {
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}
