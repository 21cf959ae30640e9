package relay

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"speech-relay/internal/app/api/provider"
	"speech-relay/internal/app/audio"
	apperrors "speech-relay/internal/app/errors"
	"speech-relay/internal/app/metrics"
	"speech-relay/internal/app/util/files"
	"speech-relay/internal/config"
)

// Service runs the receive, convert, encode, recognize pipeline.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	workspace  *files.Workspace
	converter  audio.Converter
	recognizer provider.Recognizer
	metrics    *metrics.Metrics
	logger     *zap.Logger

	sampleRate int
	channels   int
}

// NewService creates a relay service
func NewService(
	workspace *files.Workspace,
	converter audio.Converter,
	recognizer provider.Recognizer,
	m *metrics.Metrics,
	logger *zap.Logger,
	upstream config.UpstreamSettings,
) *Service {
	channels := upstream.Channels
	if channels <= 0 {
		channels = 1
	}
	return &Service{
		workspace:  workspace,
		converter:  converter,
		recognizer: recognizer,
		metrics:    m,
		logger:     logger.Named("service"),
		sampleRate: upstream.SampleRateHertz,
		channels:   channels,
	}
}

// Upload stores src under a fresh scratch name, converts it and transcribes the result.
// Both scratch files are gone when Upload returns, whatever the outcome.
func (s *Service) Upload(ctx context.Context, filename string, src io.Reader) (*provider.RecognitionResult, error) {
	artifact := s.workspace.Acquire(filename)
	s.metrics.SetScratchInFlight(s.workspace.InFlight())
	defer func() {
		if err := artifact.Release(); err != nil {
			s.logger.Warn("Failed to remove scratch files", zap.String("artifact", artifact.ID), zap.Error(err))
		}
		s.metrics.SetScratchInFlight(s.workspace.InFlight())
	}()

	log := s.logger.With(zap.String("artifact", artifact.ID), zap.String("filename", filename))

	size, err := writeFile(artifact.InputPath, src)
	if err != nil {
		log.Error("Failed to store upload", zap.Error(err))
		return nil, newError(KindStorage, "Storing upload failed: "+err.Error(), err)
	}
	s.metrics.RecordUploadSize(size)
	log.Debug("Stored upload", zap.Int64("bytes", size))

	start := time.Now()
	err = s.converter.Convert(ctx, artifact.InputPath, artifact.OutputPath)
	elapsed := time.Since(start)
	if err != nil {
		outcome := "failure"
		if errors.Is(err, apperrors.ErrConverterTimeout) {
			outcome = "timeout"
		}
		s.metrics.RecordConversion(outcome, elapsed.Seconds())
		log.Warn("Conversion failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return nil, newError(KindConversion, "Conversion failed: "+err.Error(), err)
	}
	s.metrics.RecordConversion("success", elapsed.Seconds())
	log.Debug("Converted upload", zap.Duration("elapsed", elapsed))

	data, err := os.ReadFile(artifact.OutputPath)
	if err != nil {
		log.Error("Failed to read converted audio", zap.Error(err))
		return nil, newError(KindArtifactRead, "Reading wav failed: "+err.Error(),
			apperrors.Wrap(apperrors.ErrFileReadFailed, err.Error()))
	}

	return s.transcribe(ctx, base64.StdEncoding.EncodeToString(data))
}

// UploadFile runs Upload on a local file
func (s *Service) UploadFile(ctx context.Context, path string) (*provider.RecognitionResult, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, newError(KindMissingFile, fmt.Sprintf("cannot open %s: %v", path, err), err)
	}
	defer f.Close()

	return s.Upload(ctx, filepath.Base(path), f)
}

// TranscribeBase64 forwards caller-encoded linear PCM to the recognizer.
// The payload must be standard base64; a RIFF header, when present, must describe
// PCM at the configured rate and channel count.
func (s *Service) TranscribeBase64(ctx context.Context, content string) (*provider.RecognitionResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, newError(KindValidation, "audio is required", nil)
	}

	decoded, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, newError(KindValidation, "audio is not valid base64: "+err.Error(), err)
	}
	if err := audio.CheckLinearPCM(decoded, s.sampleRate, s.channels); err != nil {
		return nil, newError(KindValidation, err.Error(), err)
	}

	return s.transcribe(ctx, content)
}

// transcribe sends content upstream exactly once
func (s *Service) transcribe(ctx context.Context, content string) (*provider.RecognitionResult, error) {
	backend := s.recognizer.Name()
	log := s.logger.With(zap.String("backend", backend))

	start := time.Now()
	result, err := s.recognizer.Recognize(ctx, &provider.RecognitionRequest{Content: content})
	elapsed := time.Since(start)

	if err == nil {
		s.metrics.RecordRecognition(backend, "success", elapsed.Seconds())
		log.Debug("Recognition succeeded",
			zap.Duration("elapsed", elapsed),
			zap.Int("transcript_length", len(result.Transcript)),
		)
		return result, nil
	}

	recErr, ok := provider.AsRecognitionError(err)
	if !ok {
		recErr = provider.NewCallFailedError(backend, backend, err.Error())
	}
	s.metrics.RecordRecognition(backend, string(recErr.Code), elapsed.Seconds())

	if recErr.Code == provider.CodeEmptyResult {
		log.Info("Upstream returned no transcript", zap.Duration("elapsed", elapsed))
		return nil, &Error{Kind: KindUpstreamEmpty, Message: recErr.Message, Details: recErr.Details, cause: err}
	}

	log.Warn("Recognition failed", zap.Duration("elapsed", elapsed), zap.Error(err))
	return nil, newError(KindUpstreamCall, recErr.Message, err)
}

func writeFile(path string, src io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrFileWriteFailed, err.Error())
	}

	n, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, apperrors.Wrap(apperrors.ErrFileWriteFailed, err.Error())
	}
	return n, nil
}
