package config

import (
	"strconv"
	"strings"
	"time"

	apperrors "speech-relay/internal/app/errors"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return apperrors.Newf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return apperrors.Newf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidatePort validates a TCP port string
func ValidatePort(port string) error {
	p, err := strconv.Atoi(port)
	if err != nil {
		return apperrors.InvalidField("port", "not a number")
	}
	if p <= 0 || p > 65535 {
		return apperrors.OutOfRange("port", 1, 65535)
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return apperrors.Wrapf(apperrors.ErrMissingAPIKey, "%s", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return apperrors.Wrap(apperrors.ErrInvalidAPIKey, "OpenAI key must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return apperrors.TooShort("OPENAI_API_KEY", 20)
		}
	case "Google":
		if len(apiKey) < 20 {
			return apperrors.TooShort("GOOGLE_API_KEY", 20)
		}
	case "Gemini":
		if len(apiKey) < 20 {
			return apperrors.TooShort("GEMINI_API_KEY", 20)
		}
	}

	return nil
}

// ValidateBackend validates the recognition backend name
func ValidateBackend(backend string) error {
	switch backend {
	case BackendGoogle, BackendOpenAI, BackendGemini:
		return nil
	default:
		return apperrors.InvalidField("backend", "must be one of google, openai, gemini")
	}
}
