package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const formatPCM = 1

// WAVFormat is the subset of a WAV fmt chunk the relay cares about
type WAVFormat struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// IsWAV reports whether data starts with a RIFF/WAVE header
func IsWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

// ParseWAVFormat walks the RIFF chunks and decodes the fmt chunk
func ParseWAVFormat(data []byte) (*WAVFormat, error) {
	if !IsWAV(data) {
		return nil, fmt.Errorf("invalid WAV data: missing RIFF/WAVE header")
	}

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		if id == "fmt " {
			if size < 16 || body+16 > len(data) {
				return nil, fmt.Errorf("invalid WAV data: truncated fmt chunk")
			}
			var f struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(bytes.NewReader(data[body:body+16]), binary.LittleEndian, &f); err != nil {
				return nil, fmt.Errorf("failed to read WAV fmt chunk: %w", err)
			}
			return &WAVFormat{
				AudioFormat:   f.AudioFormat,
				NumChannels:   f.NumChannels,
				SampleRate:    f.SampleRate,
				BitsPerSample: f.BitsPerSample,
			}, nil
		}

		// chunks are word aligned
		offset = body + size + size%2
	}

	return nil, fmt.Errorf("invalid WAV data: missing fmt chunk")
}

// CheckLinearPCM verifies that WAV data is 16-bit PCM with the given layout.
// Data without a RIFF header is treated as raw PCM and accepted as-is.
func CheckLinearPCM(data []byte, sampleRate, channels int) error {
	if !IsWAV(data) {
		return nil
	}

	f, err := ParseWAVFormat(data)
	if err != nil {
		return err
	}
	if f.AudioFormat != formatPCM {
		return fmt.Errorf("unsupported audio format: %d (only PCM is supported)", f.AudioFormat)
	}
	if f.BitsPerSample != 16 {
		return fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", f.BitsPerSample)
	}
	if int(f.NumChannels) != channels {
		return fmt.Errorf("unsupported channel count: %d (expected %d)", f.NumChannels, channels)
	}
	if int(f.SampleRate) != sampleRate {
		return fmt.Errorf("unsupported sample rate: %d Hz (expected %d Hz)", f.SampleRate, sampleRate)
	}
	return nil
}
