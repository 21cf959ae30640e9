package app

import (
	"net/http"

	"go.uber.org/zap"

	"speech-relay/internal/app/api/provider"
	"speech-relay/internal/app/audio"
	"speech-relay/internal/app/logging"
	"speech-relay/internal/app/metrics"
	"speech-relay/internal/app/relay"
	"speech-relay/internal/app/util/files"
	"speech-relay/internal/config"
)

// provideLogger builds a console logger in development and JSON in production
func provideLogger(settings *config.Settings) (*zap.Logger, error) {
	return logging.NewLogger(!settings.Server.IsProduction(), settings.Server.LogLevel)
}

func provideWorkspace(settings *config.Settings) (*files.Workspace, error) {
	return files.NewWorkspace(settings.Scratch.Dir, settings.Scratch.KeepDir)
}

func provideConverter(settings *config.Settings) audio.Converter {
	return audio.NewFFmpegConverter(
		settings.Converter.FFmpegPath,
		settings.Upstream.SampleRateHertz,
		settings.Upstream.Channels,
		settings.Converter.Timeout,
	)
}

// provideHTTPClient returns the client used for upstream calls; its timeout bounds each call
func provideHTTPClient(settings *config.Settings) *http.Client {
	return &http.Client{Timeout: settings.Upstream.Timeout}
}

// provideRecognizer resolves the configured backend through the recognizer registry.
// Backends register themselves from init, so cmd must import them.
func provideRecognizer(settings *config.Settings, client *http.Client) (provider.Recognizer, error) {
	return provider.NewRecognizer(settings.Upstream, client)
}

func provideService(
	settings *config.Settings,
	workspace *files.Workspace,
	converter audio.Converter,
	recognizer provider.Recognizer,
	m *metrics.Metrics,
	logger *zap.Logger,
) *relay.Service {
	return relay.NewService(workspace, converter, recognizer, m, logger, settings.Upstream)
}
