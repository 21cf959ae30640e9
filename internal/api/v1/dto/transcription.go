package dto

import (
	"encoding/json"

	"speech-relay/internal/app/api/provider"
)

// UploadBase64Request is the body of POST /upload-base64/
type UploadBase64Request struct {
	Audio string `json:"audio" binding:"required,base64"`
}

// TranscriptResponse is returned by both upload routes on success
type TranscriptResponse struct {
	Transcript  string          `json:"transcript"`
	RawResponse json.RawMessage `json:"raw_response"`
}

// UsageResponse is returned by GET /
type UsageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Backend   string `json:"backend"`
	Timestamp int64  `json:"timestamp"`
}

// ToTranscriptResponse converts a recognition result for the wire
func ToTranscriptResponse(result *provider.RecognitionResult) *TranscriptResponse {
	return &TranscriptResponse{
		Transcript:  result.Transcript,
		RawResponse: result.Raw,
	}
}
