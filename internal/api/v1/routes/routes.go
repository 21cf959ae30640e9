package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"speech-relay/internal/api/v1/handlers"
	"speech-relay/internal/api/v1/services"
)

// HandlerContainer holds everything the routes need
type HandlerContainer struct {
	TranscriptionService services.TranscriptionService
	Backend              string
	MaxUploadBytes       int64
	Gatherer             prometheus.Gatherer // nil disables /metrics
}

// RegisterRoutes registers all relay routes on router.
// Upload paths keep their trailing slash; gin redirects the bare form.
func RegisterRoutes(router gin.IRouter, container *HandlerContainer) {
	transcriptionHandler := handlers.NewTranscriptionHandler(container.TranscriptionService, container.MaxUploadBytes)
	router.GET("/", transcriptionHandler.Index)
	router.POST("/upload/", transcriptionHandler.Upload)
	router.POST("/upload-base64/", transcriptionHandler.UploadBase64)

	healthHandler := handlers.NewHealthHandler(container.Backend)
	router.GET("/health", healthHandler.Health)

	if container.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(container.Gatherer, promhttp.HandlerOpts{})))
	}
}
