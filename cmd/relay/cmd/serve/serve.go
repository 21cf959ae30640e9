package serve

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"speech-relay/cmd/relay/cmd/bootstrap"
	"speech-relay/internal/api/server"
)

var shutdownTimeout time.Duration

func init() {
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second,
		"How long in-flight requests may run after SIGINT/SIGTERM")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the transcription relay HTTP server",
	Long: `Start the transcription relay HTTP server

Routes:
  GET  /                usage message
  POST /upload/         multipart "file", converted with ffmpeg and transcribed
  POST /upload-base64/  {"audio": "<base64 48 kHz mono PCM>"}
  GET  /health          liveness
  GET  /metrics         Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		relay, err := bootstrap.InitializeRelay(cmd)
		if err != nil {
			return err
		}
		defer relay.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.NewServer(relay)
		errCh, err := srv.Start()
		if err != nil {
			relay.Logger.Error("Failed to bind listener", zap.Error(err))
			return err
		}

		select {
		case <-ctx.Done():
			relay.Logger.Info("Shutdown signal received")
		case err := <-errCh:
			if err != nil {
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
