package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"speech-relay/internal/api/v1/dto"
)

// HealthHandler reports liveness
type HealthHandler struct {
	backend string
}

// NewHealthHandler creates a health handler for the named recognizer backend
func NewHealthHandler(backend string) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// Health handles GET /health
//
// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "healthy",
		Backend:   h.backend,
		Timestamp: time.Now().Unix(),
	})
}
