package config

import "time"

// Default configuration constants
const (
	// Network defaults
	DefaultHost = "0.0.0.0"
	DefaultPort = "8000"

	// Scratch storage
	DefaultScratchDir     = "uploads"
	DefaultMaxUploadBytes = 50 << 20

	// Converter defaults
	DefaultFFmpegPath       = "ffmpeg"
	DefaultConverterTimeout = 120 * time.Second

	// Recognition defaults
	DefaultBackend         = BackendGoogle
	DefaultGoogleEndpoint  = "https://speech.googleapis.com/v1/speech:recognize"
	DefaultEncoding        = "LINEAR16"
	DefaultSampleRateHertz = 48000
	DefaultChannels        = 1
	DefaultLanguageCode    = "en-US"
	DefaultUpstreamTimeout = 60 * time.Second
	DefaultOpenAIModel     = "whisper-1"
	DefaultGeminiModel     = "gemini-2.0-flash"

	// Server timeouts
	DefaultReadTimeout  = 5 * time.Minute
	DefaultWriteTimeout = 5 * time.Minute
	DefaultIdleTimeout  = 2 * time.Minute

	DefaultEnvironment = "development"
)

// Recognition backends
const (
	BackendGoogle = "google"
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// MaxChannels is the widest layout the converter and recognizers accept
const MaxChannels = 2
