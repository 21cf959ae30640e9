package google

import (
	"net/http"

	"speech-relay/internal/app/api/provider"
	"speech-relay/internal/config"
)

func init() {
	provider.RegisterRecognizer(config.BackendGoogle, createSpeechClient)
}

func createSpeechClient(settings config.UpstreamSettings, client *http.Client) (provider.Recognizer, error) {
	if err := config.ValidateAPIKey(settings.APIKey, "Google"); err != nil {
		return nil, err
	}

	cfg := provider.RecognitionConfig{
		Encoding:        settings.Encoding,
		SampleRateHertz: settings.SampleRateHertz,
		LanguageCode:    settings.LanguageCode,
	}
	// mono is the API default and stays implicit
	if settings.Channels > 1 {
		cfg.Channels = settings.Channels
	}

	return NewSpeechClient(settings.Endpoint, settings.APIKey, cfg, client), nil
}
