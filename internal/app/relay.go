package app

import (
	"errors"

	"go.uber.org/zap"

	"speech-relay/internal/app/api/provider"
	"speech-relay/internal/app/metrics"
	"speech-relay/internal/app/relay"
	"speech-relay/internal/app/util/files"
	"speech-relay/internal/config"
)

// Relay is the process-wide context: everything a request handler or CLI
// command needs, built once at startup. There is no package-level state.
type Relay struct {
	Settings   *config.Settings
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Workspace  *files.Workspace
	Recognizer provider.Recognizer
	Service    *relay.Service
}

// NewRelay assembles a relay context from its parts
func NewRelay(
	settings *config.Settings,
	logger *zap.Logger,
	m *metrics.Metrics,
	workspace *files.Workspace,
	recognizer provider.Recognizer,
	service *relay.Service,
) *Relay {
	return &Relay{
		Settings:   settings,
		Logger:     logger,
		Metrics:    m,
		Workspace:  workspace,
		Recognizer: recognizer,
		Service:    service,
	}
}

// Close tears down the scratch workspace and flushes the logger
func (r *Relay) Close() error {
	var errs []error

	if inFlight := r.Workspace.InFlight(); inFlight > 0 {
		r.Logger.Warn("Closing with scratch artifacts still held", zap.Int("in_flight", inFlight))
	}
	if err := r.Workspace.Close(); err != nil {
		errs = append(errs, err)
	}

	// Sync returns EINVAL for console writers
	_ = r.Logger.Sync()

	return errors.Join(errs...)
}
