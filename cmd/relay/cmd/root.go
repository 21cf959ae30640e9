package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"speech-relay/cmd/relay/cmd/serve"
	"speech-relay/cmd/relay/cmd/transcribe"
	"speech-relay/cmd/relay/cmd/version"
)

var (
	Verbose    bool
	ConfigPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "HTTP relay that transcribes audio through a remote speech-recognition service",
	Long: `HTTP relay that transcribes audio through a remote speech-recognition service.
- Uploaded files are normalized with ffmpeg to 48 kHz mono linear PCM
- Audio is sent base64-encoded to Google Speech (or OpenAI Whisper)
- The API key is read from GOOGLE_API_KEY in the environment or a .env file`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", "YAML config file (default $RELAY_CONFIG)")
}
