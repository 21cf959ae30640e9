package testutil

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"speech-relay/internal/app/api/provider"
)

// PCMWAV builds a 16-bit linear PCM WAV file carrying dataBytes bytes of silence
func PCMWAV(sampleRate uint32, channels uint16, dataBytes int) []byte {
	const bits = 16

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataBytes))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, channels)
	binary.Write(&buf, binary.LittleEndian, sampleRate)
	binary.Write(&buf, binary.LittleEndian, sampleRate*uint32(channels)*bits/8)
	binary.Write(&buf, binary.LittleEndian, channels*bits/8)
	binary.Write(&buf, binary.LittleEndian, uint16(bits))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataBytes))
	buf.Write(make([]byte, dataBytes))

	return buf.Bytes()
}

// GoogleBody renders a speech:recognize response with one result per transcript
func GoogleBody(transcripts ...string) string {
	results := lo.Map(transcripts, func(t string, _ int) string {
		return fmt.Sprintf(`{"alternatives":[{"transcript":%q,"confidence":0.92}]}`, t)
	})
	return `{"results":[` + strings.Join(results, ",") + `]}`
}

// GoogleResult is the RecognitionResult a Google backend produces for transcripts
func GoogleResult(transcripts ...string) *provider.RecognitionResult {
	return &provider.RecognitionResult{
		Transcript: provider.JoinTranscripts(transcripts),
		Raw:        json.RawMessage(GoogleBody(transcripts...)),
	}
}
