package bootstrap

import (
	"github.com/spf13/cobra"

	"speech-relay/internal/app"
	"speech-relay/internal/config"
)

// InitializeRelay loads configuration honoring the root --config and --verbose
// flags and builds the relay context. Callers must Close the result.
func InitializeRelay(cmd *cobra.Command) (*app.Relay, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	settings, err := config.InitializeConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		settings.Server.LogLevel = "debug"
	}

	return app.InitializeRelay(settings)
}
