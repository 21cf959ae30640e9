package whisper

import (
	"net/http"

	"github.com/sashabaranov/go-openai"

	"speech-relay/internal/app/api/provider"
	"speech-relay/internal/config"
)

func init() {
	provider.RegisterRecognizer(config.BackendOpenAI, createRemoteRecognizer)
}

func createRemoteRecognizer(settings config.UpstreamSettings, client *http.Client) (provider.Recognizer, error) {
	if err := config.ValidateAPIKey(settings.OpenAIKey, "OpenAI"); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(settings.OpenAIKey)
	if settings.OpenAIBaseURL != "" {
		clientConfig.BaseURL = settings.OpenAIBaseURL
	}
	if client != nil {
		clientConfig.HTTPClient = client
	}

	return NewRemoteRecognizer(openai.NewClientWithConfig(clientConfig), settings.OpenAIModel, settings.LanguageCode), nil
}
