package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"speech-relay/internal/app/api/provider"
)

const (
	providerName = "gemini"
	displayName  = "Gemini"

	wavMIMEType = "audio/wav"
)

// AudioRecognizer transcribes by sending the WAV inline to a Gemini model
// together with a transcription instruction.
type AudioRecognizer struct {
	client   *genai.Client
	model    string
	language string
}

// NewAudioRecognizer creates a recognizer for model. languageCode is passed to
// the model as a hint.
func NewAudioRecognizer(client *genai.Client, model, languageCode string) *AudioRecognizer {
	return &AudioRecognizer{
		client:   client,
		model:    model,
		language: languageCode,
	}
}

// Name implements provider.Recognizer
func (ar *AudioRecognizer) Name() string {
	return providerName
}

// Recognize implements provider.Recognizer
func (ar *AudioRecognizer) Recognize(ctx context.Context, request *provider.RecognitionRequest) (*provider.RecognitionResult, error) {
	audio, err := base64.StdEncoding.DecodeString(request.Content)
	if err != nil {
		return nil, provider.NewCallFailedError(providerName, displayName, fmt.Sprintf("audio content is not base64: %v", err))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(ar.instruction()),
			genai.NewPartFromBytes(audio, wavMIMEType),
		}, genai.RoleUser),
	}

	resp, err := ar.client.Models.GenerateContent(ctx, ar.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, provider.NewCallFailedError(providerName, displayName,
				fmt.Sprintf("status %d: %s", apiErr.Code, apiErr.Message)).WithCause(err)
		}
		return nil, provider.NewCallFailedError(providerName, displayName, err.Error()).WithCause(err)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, provider.NewCallFailedError(providerName, displayName, fmt.Sprintf("failed to encode response: %v", err))
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, provider.NewEmptyResultError(providerName, raw)
	}

	return &provider.RecognitionResult{
		Transcript: text,
		Raw:        raw,
	}, nil
}

func (ar *AudioRecognizer) instruction() string {
	var b strings.Builder
	b.WriteString("Transcribe the speech in this audio verbatim. Reply with the transcript only, without commentary.")
	if ar.language != "" {
		b.WriteString(" The expected language is ")
		b.WriteString(ar.language)
		b.WriteString(".")
	}
	return b.String()
}
