package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "speech-relay/internal/app/errors"
)

// Settings holds the complete relay configuration
type Settings struct {
	Server    ServerSettings    `yaml:"server"`
	Scratch   ScratchSettings   `yaml:"scratch"`
	Converter ConverterSettings `yaml:"converter"`
	Upstream  UpstreamSettings  `yaml:"upstream"`
	CORS      CORSSettings      `yaml:"cors"`
}

// ServerSettings configures the HTTP listener
type ServerSettings struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	Environment  string        `yaml:"environment"`
	LogLevel     string        `yaml:"log_level"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// ScratchSettings configures request-local file storage
type ScratchSettings struct {
	Dir            string `yaml:"dir"`
	KeepDir        bool   `yaml:"keep_dir"` // keep the directory on shutdown even if the relay created it
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// ConverterSettings configures the external audio converter
type ConverterSettings struct {
	FFmpegPath string        `yaml:"ffmpeg_path"`
	Timeout    time.Duration `yaml:"timeout"`
}

// UpstreamSettings configures the remote recognition service.
// Credentials are only ever read from the environment.
type UpstreamSettings struct {
	Backend         string        `yaml:"backend"`
	Endpoint        string        `yaml:"endpoint"`
	APIKey          string        `yaml:"-"`
	Encoding        string        `yaml:"encoding"`
	SampleRateHertz int           `yaml:"sample_rate_hertz"`
	Channels        int           `yaml:"channels"`
	LanguageCode    string        `yaml:"language_code"`
	Timeout         time.Duration `yaml:"timeout"`
	OpenAIKey       string        `yaml:"-"`
	OpenAIModel     string        `yaml:"openai_model"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"`
	GeminiKey       string        `yaml:"-"`
	GeminiModel     string        `yaml:"gemini_model"`
	GeminiBaseURL   string        `yaml:"gemini_base_url"`
}

// CORSSettings configures cross-origin access
type CORSSettings struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// Default returns settings populated with defaults
func Default() *Settings {
	return &Settings{
		Server: ServerSettings{
			Host:         DefaultHost,
			Port:         DefaultPort,
			Environment:  DefaultEnvironment,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			IdleTimeout:  DefaultIdleTimeout,
		},
		Scratch: ScratchSettings{
			Dir:            DefaultScratchDir,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		Converter: ConverterSettings{
			FFmpegPath: DefaultFFmpegPath,
			Timeout:    DefaultConverterTimeout,
		},
		Upstream: UpstreamSettings{
			Backend:         DefaultBackend,
			Endpoint:        DefaultGoogleEndpoint,
			Encoding:        DefaultEncoding,
			SampleRateHertz: DefaultSampleRateHertz,
			Channels:        DefaultChannels,
			LanguageCode:    DefaultLanguageCode,
			Timeout:         DefaultUpstreamTimeout,
			OpenAIModel:     DefaultOpenAIModel,
			GeminiModel:     DefaultGeminiModel,
		},
		CORS: CORSSettings{
			AllowOrigins: []string{"*"},
		},
	}
}

// Address returns the host:port listen address
func (s ServerSettings) Address() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the relay runs in production mode
func (s ServerSettings) IsProduction() bool {
	return s.Environment == "production"
}

// LoadEnv loads environment variables from the first .env file found.
// It returns the path that was loaded, or "" when none exists.
func LoadEnv() (string, error) {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	// Variables might be set system-wide, so a missing file is fine
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}

	return "", nil
}

// LoadFile overlays a YAML configuration file onto s
func LoadFile(path string, s *Settings) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "failed to read config file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "failed to parse config file %s: %v", path, err)
	}
	return nil
}

// ApplyEnv overrides s with any RELAY_* and API key variables present in the environment
func ApplyEnv(s *Settings) error {
	setString(&s.Server.Host, "RELAY_HOST")
	setString(&s.Server.Port, "RELAY_PORT")
	setString(&s.Server.Environment, "RELAY_ENV")
	setString(&s.Server.LogLevel, "RELAY_LOG_LEVEL")
	setString(&s.Scratch.Dir, "RELAY_SCRATCH_DIR")
	setString(&s.Converter.FFmpegPath, "RELAY_FFMPEG_PATH")
	setString(&s.Upstream.Backend, "RELAY_BACKEND")
	setString(&s.Upstream.Endpoint, "RELAY_GOOGLE_ENDPOINT")
	setString(&s.Upstream.LanguageCode, "RELAY_LANGUAGE")
	setString(&s.Upstream.OpenAIModel, "RELAY_OPENAI_MODEL")
	setString(&s.Upstream.OpenAIBaseURL, "RELAY_OPENAI_BASE_URL")
	setString(&s.Upstream.APIKey, "GOOGLE_API_KEY")
	setString(&s.Upstream.OpenAIKey, "OPENAI_API_KEY")
	setString(&s.Upstream.GeminiModel, "RELAY_GEMINI_MODEL")
	setString(&s.Upstream.GeminiBaseURL, "RELAY_GEMINI_BASE_URL")
	setString(&s.Upstream.GeminiKey, "GEMINI_API_KEY")

	if v := lookup("RELAY_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		s.CORS.AllowOrigins = origins
	}

	if v := lookup("RELAY_KEEP_SCRATCH_DIR"); v != "" {
		keep, err := strconv.ParseBool(v)
		if err != nil {
			return apperrors.InvalidField("RELAY_KEEP_SCRATCH_DIR", err.Error())
		}
		s.Scratch.KeepDir = keep
	}

	if v := lookup("RELAY_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return apperrors.InvalidField("RELAY_MAX_UPLOAD_BYTES", err.Error())
		}
		s.Scratch.MaxUploadBytes = n
	}

	if v := lookup("RELAY_SAMPLE_RATE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.InvalidField("RELAY_SAMPLE_RATE", err.Error())
		}
		s.Upstream.SampleRateHertz = n
	}

	durations := map[string]*time.Duration{
		"RELAY_CONVERTER_TIMEOUT": &s.Converter.Timeout,
		"RELAY_UPSTREAM_TIMEOUT":  &s.Upstream.Timeout,
		"RELAY_READ_TIMEOUT":      &s.Server.ReadTimeout,
		"RELAY_WRITE_TIMEOUT":     &s.Server.WriteTimeout,
	}
	for key, target := range durations {
		if v := lookup(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return apperrors.InvalidField(key, err.Error())
			}
			*target = d
		}
	}

	return nil
}

// Validate fails fast on configuration the relay cannot run with
func (s *Settings) Validate() error {
	if err := ValidatePort(s.Server.Port); err != nil {
		return err
	}
	if s.Scratch.Dir == "" {
		return apperrors.RequiredField("scratch dir")
	}
	if s.Scratch.MaxUploadBytes <= 0 {
		return apperrors.InvalidField("max upload bytes", "must be positive")
	}
	if s.Converter.FFmpegPath == "" {
		return apperrors.RequiredField("ffmpeg path")
	}
	if err := ValidateTimeout(s.Converter.Timeout, "converter"); err != nil {
		return err
	}
	if err := ValidateTimeout(s.Upstream.Timeout, "upstream"); err != nil {
		return err
	}
	if s.Upstream.SampleRateHertz <= 0 {
		return apperrors.InvalidField("sample rate", "must be positive")
	}
	// the converter always writes signed 16-bit little-endian PCM
	if s.Upstream.Encoding != DefaultEncoding {
		return apperrors.InvalidField("encoding", "only "+DefaultEncoding+" is produced by the converter")
	}
	if s.Upstream.Channels < 1 || s.Upstream.Channels > MaxChannels {
		return apperrors.OutOfRange("channels", 1, MaxChannels)
	}
	if s.Upstream.LanguageCode == "" {
		return apperrors.RequiredField("language code")
	}
	if err := ValidateBackend(s.Upstream.Backend); err != nil {
		return err
	}

	switch s.Upstream.Backend {
	case BackendGoogle:
		if s.Upstream.Endpoint == "" {
			return apperrors.RequiredField("google endpoint")
		}
		return ValidateAPIKey(s.Upstream.APIKey, "Google")
	case BackendOpenAI:
		return ValidateAPIKey(s.Upstream.OpenAIKey, "OpenAI")
	case BackendGemini:
		return ValidateAPIKey(s.Upstream.GeminiKey, "Gemini")
	}
	return nil
}

// Load builds settings from defaults, an optional YAML file and the environment.
// An empty configPath falls back to RELAY_CONFIG.
func Load(configPath string) (*Settings, error) {
	s := Default()

	if configPath == "" {
		configPath = lookup("RELAY_CONFIG")
	}
	if configPath != "" {
		if err := LoadFile(configPath, s); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(s); err != nil {
		return nil, apperrors.Wrap(err, "failed to read environment")
	}

	if err := s.Validate(); err != nil {
		return nil, apperrors.Wrap(err, "invalid configuration")
	}

	return s, nil
}

// InitializeConfig loads .env and builds validated settings.
// This is the main entry point for configuration loading.
func InitializeConfig(configPath string) (*Settings, error) {
	if _, err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	return Load(configPath)
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(target *string, key string) {
	if v := lookup(key); v != "" {
		*target = v
	}
}
