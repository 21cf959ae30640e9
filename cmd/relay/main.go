package main

import (
	"speech-relay/cmd/relay/cmd"

	// Import recognizer backends to register them
	_ "speech-relay/internal/app/api/gemini"
	_ "speech-relay/internal/app/api/google"
	_ "speech-relay/internal/app/api/openai/whisper"
)

// @title Speech Relay API
// @version 1.0
// @description Converts uploaded audio to linear PCM WAV and relays it to a speech recognizer.
// @BasePath /
func main() {
	cmd.Execute()
}
