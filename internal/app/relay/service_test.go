package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"speech-relay/internal/app/api/provider"
	apperrors "speech-relay/internal/app/errors"
	"speech-relay/internal/app/metrics"
	mocks "speech-relay/internal/app/testutil"
	"speech-relay/internal/app/util/files"
	"speech-relay/internal/config"
)

type fixture struct {
	service    *Service
	workspace  *files.Workspace
	converter  *mocks.MockConverter
	recognizer *mocks.MockRecognizer
	metrics    *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ws, err := files.NewWorkspace(t.TempDir(), false)
	require.NoError(t, err)

	f := &fixture{
		workspace:  ws,
		converter:  mocks.NewMockConverter(t),
		recognizer: mocks.NewMockRecognizer(t),
		metrics:    metrics.NewMetrics(),
	}
	f.service = NewService(ws, f.converter, f.recognizer, f.metrics, zap.NewNop(), config.Default().Upstream)
	return f
}

// scratchEntries lists whatever is left in the scratch directory
func (f *fixture) scratchEntries(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.workspace.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUpload_Success(t *testing.T) {
	f := newFixture(t)
	wav := mocks.PCMWAV(48000, 1, 64)
	f.converter.Output = wav

	var convertedInput string
	f.converter.On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			convertedInput = args.String(1)
			data, err := os.ReadFile(convertedInput)
			require.NoError(t, err)
			assert.Equal(t, "m4a bytes", string(data))
			assert.True(t, strings.HasSuffix(args.String(2), ".wav"))
		}).
		Return(nil)

	f.recognizer.On("Recognize", mock.Anything, mock.MatchedBy(func(r *provider.RecognitionRequest) bool {
		return r.Content == base64.StdEncoding.EncodeToString(wav)
	})).Return(mocks.GoogleResult("hello", "world"), nil)

	result, err := f.service.Upload(context.Background(), "note.m4a", strings.NewReader("m4a bytes"))
	require.NoError(t, err)

	assert.Equal(t, "hello world", result.Transcript)
	assert.JSONEq(t, mocks.GoogleBody("hello", "world"), string(result.Raw))
	assert.True(t, strings.HasSuffix(convertedInput, "_note.m4a"))
	assert.Empty(t, f.scratchEntries(t))
	assert.Equal(t, 0, f.workspace.InFlight())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Conversions.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.RecognitionRequests.WithLabelValues("mock", "success")))
	f.recognizer.AssertExpectations(t)
}

func TestUpload_ConversionFailed(t *testing.T) {
	f := newFixture(t)
	f.converter.On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.Wrap(apperrors.ErrConverterFailed, "FFmpeg error: exit status 1, stderr: Invalid data found when processing input"))

	result, err := f.service.Upload(context.Background(), "bad.bin", strings.NewReader("garbage"))
	assert.Nil(t, result)

	relayErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindConversion, relayErr.Kind)
	assert.True(t, strings.HasPrefix(relayErr.Message, "Conversion failed: "))
	assert.Contains(t, relayErr.Message, "Invalid data found")
	assert.ErrorIs(t, err, apperrors.ErrConverterFailed)

	f.recognizer.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
	assert.Empty(t, f.scratchEntries(t))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Conversions.WithLabelValues("failure")))
}

func TestUpload_ConversionTimeout(t *testing.T) {
	f := newFixture(t)
	f.converter.On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.Wrapf(apperrors.ErrConverterTimeout, "ffmpeg did not finish within %s", "1s"))

	_, err := f.service.Upload(context.Background(), "slow.mp4", strings.NewReader("x"))

	relayErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindConversion, relayErr.Kind)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Conversions.WithLabelValues("timeout")))
}

func TestUpload_ConvertedFileMissing(t *testing.T) {
	f := newFixture(t)
	// converter claims success but writes nothing
	f.converter.On("Convert", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.Upload(context.Background(), "clip.ogg", strings.NewReader("ogg"))

	relayErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindArtifactRead, relayErr.Kind)
	assert.True(t, strings.HasPrefix(relayErr.Message, "Reading wav failed: "))
	assert.ErrorIs(t, err, apperrors.ErrFileReadFailed)
	assert.Empty(t, f.scratchEntries(t))
}

func TestUpload_EmptyResult(t *testing.T) {
	f := newFixture(t)
	f.converter.Output = mocks.PCMWAV(48000, 1, 8)
	f.converter.On("Convert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.recognizer.On("Recognize", mock.Anything, mock.Anything).
		Return(nil, provider.NewEmptyResultError("mock", []byte(`{}`)))

	_, err := f.service.Upload(context.Background(), "silence.wav", strings.NewReader("wav"))

	relayErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstreamEmpty, relayErr.Kind)
	assert.Equal(t, "No transcript found", relayErr.Message)
	assert.JSONEq(t, `{}`, string(relayErr.Details))
	assert.Empty(t, f.scratchEntries(t))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.RecognitionRequests.WithLabelValues("mock", "empty_result")))
}

func TestUpload_ConcurrentRequestsDoNotShareScratch(t *testing.T) {
	f := newFixture(t)
	f.converter.Output = mocks.PCMWAV(48000, 1, 8)

	var mu sync.Mutex
	inputs := make(map[string]bool)
	f.converter.On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, inputs[args.String(1)], "input path reused")
			inputs[args.String(1)] = true
		}).
		Return(nil)
	f.recognizer.On("Recognize", mock.Anything, mock.Anything).Return(mocks.GoogleResult("ok"), nil)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Upload(context.Background(), "same.mp3", strings.NewReader("audio"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, inputs, n)
	assert.Empty(t, f.scratchEntries(t))
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.ScratchInFlight))
}

func TestTranscribeBase64(t *testing.T) {
	validWAV := base64.StdEncoding.EncodeToString(mocks.PCMWAV(48000, 1, 16))
	rawPCM := base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4, 5, 6})

	tests := []struct {
		name          string
		content       string
		expectCall    bool
		expectedKind  Kind
		expectedInMsg string
	}{
		{name: "wav with expected layout", content: validWAV, expectCall: true},
		{name: "headerless pcm", content: rawPCM, expectCall: true},
		{name: "empty", content: "  ", expectedKind: KindValidation, expectedInMsg: "audio is required"},
		{name: "not base64", content: "%%%", expectedKind: KindValidation, expectedInMsg: "not valid base64"},
		{
			name:          "stereo wav",
			content:       base64.StdEncoding.EncodeToString(mocks.PCMWAV(48000, 2, 16)),
			expectedKind:  KindValidation,
			expectedInMsg: "channel count",
		},
		{
			name:          "wrong sample rate",
			content:       base64.StdEncoding.EncodeToString(mocks.PCMWAV(16000, 1, 16)),
			expectedKind:  KindValidation,
			expectedInMsg: "sample rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.expectCall {
				f.recognizer.On("Recognize", mock.Anything, &provider.RecognitionRequest{Content: tt.content}).
					Return(mocks.GoogleResult("hello"), nil).Once()
			}

			result, err := f.service.TranscribeBase64(context.Background(), tt.content)

			if tt.expectCall {
				require.NoError(t, err)
				assert.Equal(t, "hello", result.Transcript)
				f.recognizer.AssertExpectations(t)
				return
			}

			relayErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.expectedKind, relayErr.Kind)
			assert.Contains(t, relayErr.Message, tt.expectedInMsg)
			f.recognizer.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
		})
	}
}

func TestTranscribe_CallFailed(t *testing.T) {
	f := newFixture(t)
	f.recognizer.On("Recognize", mock.Anything, mock.Anything).
		Return(nil, provider.NewCallFailedError("mock", "Google", "dial tcp: connection refused"))

	_, err := f.service.TranscribeBase64(context.Background(), "AAAA")

	relayErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstreamCall, relayErr.Kind)
	assert.Equal(t, "Google API request failed: dial tcp: connection refused", relayErr.Message)
	assert.Nil(t, relayErr.Details)
}

func TestTranscribe_UntypedErrorIsCallFailure(t *testing.T) {
	f := newFixture(t)
	f.recognizer.On("Recognize", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := f.service.TranscribeBase64(context.Background(), "AAAA")

	relayErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstreamCall, relayErr.Kind)
	assert.Contains(t, relayErr.Message, "boom")
}

func TestUploadFile(t *testing.T) {
	f := newFixture(t)
	f.converter.Output = mocks.PCMWAV(48000, 1, 8)
	f.converter.On("Convert", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasSuffix(p, "_memo.mp3")
	}), mock.Anything).Return(nil)
	f.recognizer.On("Recognize", mock.Anything, mock.Anything).Return(mocks.GoogleResult("memo"), nil)

	path := t.TempDir() + "/memo.mp3"
	require.NoError(t, os.WriteFile(path, []byte("mp3"), 0o600))

	result, err := f.service.UploadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "memo", result.Transcript)

	_, err = f.service.UploadFile(context.Background(), t.TempDir()+"/absent.mp3")
	relayErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindMissingFile, relayErr.Kind)
}

func TestError_DetailsSurviveJSON(t *testing.T) {
	err := &Error{Kind: KindUpstreamEmpty, Message: "No transcript found", Details: json.RawMessage(`{"error":{"code":403}}`)}

	out, marshalErr := json.Marshal(err.Details)
	require.NoError(t, marshalErr)
	assert.JSONEq(t, `{"error":{"code":403}}`, string(out))
	assert.Equal(t, "No transcript found", err.Error())
}
