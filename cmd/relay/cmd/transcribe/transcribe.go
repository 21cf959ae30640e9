package transcribe

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"speech-relay/cmd/relay/cmd/bootstrap"
)

var printRaw bool

func init() {
	Cmd.Flags().BoolVarP(&printRaw, "raw", "r", false, "print the full JSON response instead of the transcript")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Convert and transcribe a local audio file once",
	Long: `Convert and transcribe a local audio file once

The file goes through the same pipeline as POST /upload/: it is copied into the
scratch directory, converted with ffmpeg and sent to the configured backend.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		relay, err := bootstrap.InitializeRelay(cmd)
		if err != nil {
			return err
		}
		defer relay.Close()

		result, err := relay.Service.UploadFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if !printRaw {
			fmt.Fprintln(cmd.OutOrStdout(), result.Transcript)
			return nil
		}

		out, err := json.MarshalIndent(map[string]interface{}{
			"transcript":   result.Transcript,
			"raw_response": result.Raw,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
