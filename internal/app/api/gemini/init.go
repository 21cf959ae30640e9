package gemini

import (
	"context"
	"net/http"

	"google.golang.org/genai"

	"speech-relay/internal/app/api/provider"
	"speech-relay/internal/config"
)

func init() {
	provider.RegisterRecognizer(config.BackendGemini, createAudioRecognizer)
}

func createAudioRecognizer(settings config.UpstreamSettings, client *http.Client) (provider.Recognizer, error) {
	if err := config.ValidateAPIKey(settings.GeminiKey, "Gemini"); err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     settings.GeminiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: client,
	}
	if settings.GeminiBaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = settings.GeminiBaseURL
	}

	// NewClient only assembles configuration for the Gemini API backend
	genaiClient, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, err
	}

	model := settings.GeminiModel
	if model == "" {
		model = config.DefaultGeminiModel
	}
	return NewAudioRecognizer(genaiClient, model, settings.LanguageCode), nil
}
