package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"speech-relay/internal/api/errors"
	"speech-relay/internal/api/middleware"
	"speech-relay/internal/api/v1/dto"
	"speech-relay/internal/api/v1/services"
)

// UsageMessage is served by GET /
const UsageMessage = "Upload an audio file to /upload/ or base64 audio to /upload-base64/"

// TranscriptionHandler handles the relay's upload endpoints
type TranscriptionHandler struct {
	service        services.TranscriptionService
	maxUploadBytes int64
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(service services.TranscriptionService, maxUploadBytes int64) *TranscriptionHandler {
	return &TranscriptionHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Index handles GET /
//
// @Summary Usage hint
// @Description Explains which routes accept audio
// @Tags transcription
// @Produce json
// @Success 200 {object} dto.UsageResponse
// @Router / [get]
func (h *TranscriptionHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, dto.UsageResponse{Message: UsageMessage})
}

// Upload handles POST /upload/
// Accepts a multipart "file" field in any container ffmpeg understands
//
// @Summary Transcribe an uploaded file
// @Description Converts the upload to linear PCM WAV and forwards it to the recognizer
// @Tags transcription
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio or video file"
// @Success 200 {object} dto.TranscriptResponse
// @Failure 400 {object} errors.APIError "No transcript found, or upload too large"
// @Failure 422 {object} errors.APIError "Missing file field"
// @Failure 500 {object} errors.APIError "Conversion, read or upstream failure"
// @Router /upload/ [post]
func (h *TranscriptionHandler) Upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			middleware.HandleError(c, errors.NewTooLargeError(h.maxUploadBytes))
			return
		}
		middleware.HandleError(c, errors.NewValidationError("Validation failed",
			map[string]string{"file": "field required"}))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("Failed to open uploaded file"))
		return
	}
	defer file.Close()

	result, err := h.service.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTranscriptResponse(result))
}

// UploadBase64 handles POST /upload-base64/
//
// @Summary Transcribe base64 WAV
// @Description Forwards already-converted linear PCM WAV without running the converter
// @Tags transcription
// @Accept json
// @Produce json
// @Param request body dto.UploadBase64Request true "Base64 WAV payload"
// @Success 200 {object} dto.TranscriptResponse
// @Failure 400 {object} errors.APIError "No transcript found, or body too large"
// @Failure 422 {object} errors.APIError "Missing or malformed audio field"
// @Failure 500 {object} errors.APIError "Upstream failure"
// @Router /upload-base64/ [post]
func (h *TranscriptionHandler) UploadBase64(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var req dto.UploadBase64Request

	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.service.TranscribeBase64(c.Request.Context(), req.Audio)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTranscriptResponse(result))
}
