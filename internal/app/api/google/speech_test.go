package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-relay/internal/app/api/provider"
	apperrors "speech-relay/internal/app/errors"
	"speech-relay/internal/config"
)

const testKey = "test-google-api-key-0123456789"

var testConfig = provider.RecognitionConfig{
	Encoding:        "LINEAR16",
	SampleRateHertz: 48000,
	LanguageCode:    "en-US",
}

// createMockSpeechServer answers every recognize call with body and records the last request
func createMockSpeechServer(t *testing.T, status int, body string, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/speech:recognize", r.URL.Path)
		assert.Equal(t, testKey, r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		if captured != nil {
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(raw, captured))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(server *httptest.Server) *SpeechClient {
	return NewSpeechClient(server.URL+"/v1/speech:recognize", testKey, testConfig, server.Client())
}

func TestRecognize_RequestShape(t *testing.T) {
	var captured map[string]interface{}
	server := createMockSpeechServer(t, http.StatusOK,
		`{"results":[{"alternatives":[{"transcript":"hello"}]}]}`, &captured)

	_, err := newTestClient(server).Recognize(context.Background(), &provider.RecognitionRequest{Content: "AAAA"})
	require.NoError(t, err)

	cfg := captured["config"].(map[string]interface{})
	assert.Equal(t, "LINEAR16", cfg["encoding"])
	assert.Equal(t, float64(48000), cfg["sampleRateHertz"])
	assert.Equal(t, "en-US", cfg["languageCode"])
	assert.Len(t, cfg, 3)

	audio := captured["audio"].(map[string]interface{})
	assert.Equal(t, "AAAA", audio["content"])
}

func TestRecognize_StereoSendsChannelCount(t *testing.T) {
	var captured map[string]interface{}
	server := createMockSpeechServer(t, http.StatusOK,
		`{"results":[{"alternatives":[{"transcript":"hello"}]}]}`, &captured)

	settings := config.Default().Upstream
	settings.APIKey = testKey
	settings.Endpoint = server.URL + "/v1/speech:recognize"
	settings.Channels = 2

	r, err := provider.NewRecognizer(settings, server.Client())
	require.NoError(t, err)
	_, err = r.Recognize(context.Background(), &provider.RecognitionRequest{Content: "AAAA"})
	require.NoError(t, err)

	cfg := captured["config"].(map[string]interface{})
	assert.Equal(t, float64(2), cfg["audioChannelCount"])
	assert.Len(t, cfg, 4)
}

func TestRecognize_Results(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		transcript string
	}{
		{
			name:       "single result",
			body:       `{"results": [{"alternatives":[{"transcript":"hello"}]}]}`,
			transcript: "hello",
		},
		{
			name:       "two results joined in order",
			body:       `{"results": [{"alternatives":[{"transcript":"hello"}]}, {"alternatives":[{"transcript":"world"}]}]}`,
			transcript: "hello world",
		},
		{
			name:       "only first alternative is used",
			body:       `{"results": [{"alternatives":[{"transcript":"best","confidence":0.9},{"transcript":"worse"}]}]}`,
			transcript: "best",
		},
		{
			name:       "empty transcripts keep their slot",
			body:       `{"results": [{"alternatives":[{"transcript":"hello"}]}, {"alternatives":[{"transcript":""}]}, {"alternatives":[{"transcript":"world"}]}]}`,
			transcript: "hello  world",
		},
		{
			name:       "entries without alternatives are skipped",
			body:       `{"results": [{"alternatives":[]}, {"alternatives":[{"transcript":"kept"}]}]}`,
			transcript: "kept",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createMockSpeechServer(t, http.StatusOK, tt.body, nil)

			result, err := newTestClient(server).Recognize(context.Background(), &provider.RecognitionRequest{Content: "AAAA"})
			require.NoError(t, err)

			assert.Equal(t, tt.transcript, result.Transcript)
			assert.JSONEq(t, tt.body, string(result.Raw))
		})
	}
}

func TestRecognize_EmptyResult(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"no results key", http.StatusOK, `{}`},
		{"empty results", http.StatusOK, `{"results": []}`},
		{"upstream error object", http.StatusForbidden, `{"error":{"code":403,"message":"API key not valid"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createMockSpeechServer(t, tt.status, tt.body, nil)

			result, err := newTestClient(server).Recognize(context.Background(), &provider.RecognitionRequest{Content: "AAAA"})
			assert.Nil(t, result)

			recErr, ok := provider.AsRecognitionError(err)
			require.True(t, ok)
			assert.Equal(t, provider.CodeEmptyResult, recErr.Code)
			assert.Equal(t, "No transcript found", recErr.Message)
			assert.JSONEq(t, tt.body, string(recErr.Details))
		})
	}
}

func TestRecognize_MalformedResponse(t *testing.T) {
	server := createMockSpeechServer(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil)

	_, err := newTestClient(server).Recognize(context.Background(), &provider.RecognitionRequest{Content: "AAAA"})

	recErr, ok := provider.AsRecognitionError(err)
	require.True(t, ok)
	assert.Equal(t, provider.CodeCallFailed, recErr.Code)
	assert.Contains(t, recErr.Message, "Google API request failed: malformed response (HTTP 502)")
	assert.ErrorIs(t, err, apperrors.ErrResponseInvalid)
	assert.NotErrorIs(t, err, apperrors.ErrRequestFailed)
}

func TestRecognize_TransportFailureRedactsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL + "/v1/speech:recognize"
	server.Close()

	client := NewSpeechClient(endpoint, testKey, testConfig, &http.Client{Timeout: time.Second})
	_, err := client.Recognize(context.Background(), &provider.RecognitionRequest{Content: "AAAA"})

	recErr, ok := provider.AsRecognitionError(err)
	require.True(t, ok)
	assert.Equal(t, provider.CodeCallFailed, recErr.Code)
	assert.Contains(t, recErr.Message, "Google API request failed")
	assert.NotContains(t, recErr.Message, testKey)
	assert.Contains(t, recErr.Message, "REDACTED")
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
	assert.NotContains(t, errors.Unwrap(err).Error(), testKey)
}

func TestRecognize_Timeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := NewSpeechClient(server.URL, testKey, testConfig, &http.Client{Timeout: 50 * time.Millisecond})
	_, err := client.Recognize(context.Background(), &provider.RecognitionRequest{Content: "AAAA"})

	recErr, ok := provider.AsRecognitionError(err)
	require.True(t, ok)
	assert.Equal(t, provider.CodeCallFailed, recErr.Code)
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
}

func TestCreateSpeechClient(t *testing.T) {
	settings := config.Default().Upstream
	settings.APIKey = testKey

	r, err := provider.NewRecognizer(settings, http.DefaultClient)
	require.NoError(t, err)
	assert.Equal(t, "google", r.Name())

	settings.APIKey = ""
	_, err = provider.NewRecognizer(settings, http.DefaultClient)
	require.Error(t, err)
}
