package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	apperrors "speech-relay/internal/app/errors"
)

const (
	// maxStderr bounds how much converter output ends up in an error message
	maxStderr = 2048

	// pipeGrace is how long Wait keeps draining stderr after ffmpeg is
	// killed or exits. Wrapper scripts can leave children holding the pipe.
	pipeGrace = time.Second
)

// Converter normalizes an arbitrary audio/video container into mono linear PCM WAV
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string) error
}

// FFmpegConverter shells out to ffmpeg
type FFmpegConverter struct {
	BinaryPath string
	SampleRate int
	Channels   int
	Timeout    time.Duration
}

// NewFFmpegConverter creates a converter producing sampleRate Hz, channels-channel PCM
func NewFFmpegConverter(binaryPath string, sampleRate, channels int, timeout time.Duration) *FFmpegConverter {
	if channels <= 0 {
		channels = 1
	}
	return &FFmpegConverter{
		BinaryPath: binaryPath,
		SampleRate: sampleRate,
		Channels:   channels,
		Timeout:    timeout,
	}
}

// Args returns the ffmpeg argument list for one conversion
func (c *FFmpegConverter) Args(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-ar", strconv.Itoa(c.SampleRate),
		"-ac", strconv.Itoa(c.Channels),
		"-c:a", "pcm_s16le",
		outputPath,
	}
}

// Convert runs ffmpeg and waits for it. A non-zero exit is reported together
// with the tail of ffmpeg's stderr.
func (c *FFmpegConverter) Convert(ctx context.Context, inputPath, outputPath string) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.BinaryPath, c.Args(inputPath, outputPath)...)
	cmd.WaitDelay = pipeGrace

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.Wrapf(apperrors.ErrConverterTimeout, "ffmpeg did not finish within %s", c.Timeout)
	}

	detail := tail(strings.TrimSpace(stderr.String()), maxStderr)
	if detail == "" {
		return apperrors.Wrap(apperrors.ErrConverterFailed, fmt.Sprintf("FFmpeg error: %v", err))
	}
	return apperrors.Wrap(apperrors.ErrConverterFailed, fmt.Sprintf("FFmpeg error: %v, stderr: %s", err, detail))
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
