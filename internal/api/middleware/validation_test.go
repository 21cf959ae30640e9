package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-relay/internal/api/errors"
	"speech-relay/internal/api/middleware"
)

type audioPayload struct {
	Audio string `json:"audio" binding:"required,base64"`
	Label string `json:"label" binding:"omitempty,max=3"`
}

func bindContext(body string, limit int64) *gin.Context {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/upload-base64/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(rec, c.Request.Body, limit)
	}
	return c
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		status  int
		message string
		details interface{}
	}{
		{
			name: "valid body",
			body: `{"audio":"AAAAAA=="}`,
		},
		{
			name:    "missing field",
			body:    `{}`,
			status:  http.StatusUnprocessableEntity,
			message: "Validation failed",
			details: map[string]string{"audio": "field required"},
		},
		{
			name:    "not base64",
			body:    `{"audio":"%%%"}`,
			status:  http.StatusUnprocessableEntity,
			message: "Validation failed",
			details: map[string]string{"audio": "must be standard base64"},
		},
		{
			name:    "other rule",
			body:    `{"audio":"AAAAAA==","label":"toolong"}`,
			status:  http.StatusUnprocessableEntity,
			message: "Validation failed",
			details: map[string]string{"label": "is invalid"},
		},
		{
			name:    "malformed json",
			body:    `{"audio":`,
			status:  http.StatusUnprocessableEntity,
			message: "Validation failed",
			details: map[string]string{"body": "invalid JSON format"},
		},
		{
			name:    "body over limit",
			body:    `{"audio":"` + strings.Repeat("A", 256) + `"}`,
			limit:   64,
			status:  http.StatusBadRequest,
			message: "Upload too large",
			details: map[string]int64{"max_bytes": 64},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req audioPayload
			err := middleware.ValidateRequest(bindContext(tt.body, tt.limit), &req)

			if tt.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, "AAAAAA==", req.Audio)
				return
			}

			apiErr, ok := err.(*errors.APIError)
			require.True(t, ok, "expected *errors.APIError, got %T", err)
			assert.Equal(t, tt.status, apiErr.HTTPStatus())
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.details, apiErr.Details)
		})
	}
}
