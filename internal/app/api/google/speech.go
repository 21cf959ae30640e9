package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/lo"

	"speech-relay/internal/app/api/provider"
	apperrors "speech-relay/internal/app/errors"
)

const (
	providerName = "google"
	displayName  = "Google"

	// maxResponseBytes bounds how much of an upstream body is buffered
	maxResponseBytes = 16 << 20
)

// SpeechClient calls the Cloud Speech-to-Text v1 speech:recognize REST method
type SpeechClient struct {
	endpoint string
	apiKey   string
	config   provider.RecognitionConfig
	client   *http.Client
}

type recognizeRequest struct {
	Config provider.RecognitionConfig `json:"config"`
	Audio  recognitionAudio           `json:"audio"`
}

type recognitionAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []speechResult `json:"results"`
}

type speechResult struct {
	Alternatives []speechAlternative `json:"alternatives"`
}

type speechAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence,omitempty"`
}

// NewSpeechClient creates a client. The API key is sent in the query string
// and is scrubbed from every error message.
func NewSpeechClient(endpoint, apiKey string, config provider.RecognitionConfig, client *http.Client) *SpeechClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &SpeechClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		config:   config,
		client:   client,
	}
}

// Name implements provider.Recognizer
func (s *SpeechClient) Name() string {
	return providerName
}

// Recognize implements provider.Recognizer
func (s *SpeechClient) Recognize(ctx context.Context, request *provider.RecognitionRequest) (*provider.RecognitionResult, error) {
	payload, err := json.Marshal(recognizeRequest{
		Config: s.config,
		Audio:  recognitionAudio{Content: request.Content},
	})
	if err != nil {
		return nil, s.callFailed(apperrors.ErrRequestFailed, fmt.Sprintf("failed to encode request: %v", err))
	}

	target, err := s.requestURL()
	if err != nil {
		return nil, s.callFailed(apperrors.ErrRequestFailed, err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, s.callFailed(apperrors.ErrRequestFailed, fmt.Sprintf("failed to create HTTP request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, s.callFailed(apperrors.ErrRequestFailed, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, s.callFailed(apperrors.ErrRequestFailed, fmt.Sprintf("failed to read response: %v", err))
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, s.callFailed(apperrors.ErrResponseInvalid, fmt.Sprintf("malformed response (HTTP %d): %v", resp.StatusCode, err))
	}

	// Entries without alternatives carry nothing to join
	transcripts := lo.FilterMap(parsed.Results, func(r speechResult, _ int) (string, bool) {
		if len(r.Alternatives) == 0 {
			return "", false
		}
		return r.Alternatives[0].Transcript, true
	})
	if len(transcripts) == 0 {
		return nil, provider.NewEmptyResultError(providerName, data)
	}

	return &provider.RecognitionResult{
		Transcript: provider.JoinTranscripts(transcripts),
		Raw:        json.RawMessage(data),
	}, nil
}

func (s *SpeechClient) requestURL() (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %v", err)
	}
	q := u.Query()
	q.Set("key", s.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// callFailed builds a call failure whose message and cause are both free of the key
func (s *SpeechClient) callFailed(kind error, detail string) *provider.RecognitionError {
	detail = s.redact(detail)
	return provider.NewCallFailedError(providerName, displayName, detail).
		WithCause(apperrors.Wrap(kind, detail))
}

func (s *SpeechClient) redact(msg string) string {
	if s.apiKey == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(s.apiKey), "REDACTED")
	return strings.ReplaceAll(msg, s.apiKey, "REDACTED")
}
