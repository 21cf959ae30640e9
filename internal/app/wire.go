//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"speech-relay/internal/app/metrics"
	"speech-relay/internal/config"
)

// InitializeRelay builds the relay context from validated settings
func InitializeRelay(settings *config.Settings) (*Relay, error) {
	wire.Build(
		provideLogger,
		metrics.NewMetrics,
		provideHTTPClient,
		provideRecognizer,
		provideConverter,
		provideWorkspace,
		provideService,
		NewRelay,
	)
	return &Relay{}, nil
}
