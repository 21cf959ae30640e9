package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "speech-relay/docs" // registers the swagger spec
	"speech-relay/internal/api/middleware"
	v1routes "speech-relay/internal/api/v1/routes"
	"speech-relay/internal/app"
	"speech-relay/internal/config"
)

// Server represents the relay's HTTP server
type Server struct {
	config     config.ServerSettings
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates the HTTP server for a relay context
func NewServer(relay *app.Relay) *Server {
	settings := relay.Settings
	logger := relay.Logger.Named("http")

	// Set Gin mode based on environment
	if settings.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger, relay.Metrics))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.CORSConfigForOrigins(settings.CORS.AllowOrigins)))

	v1routes.RegisterRoutes(router, &v1routes.HandlerContainer{
		TranscriptionService: relay.Service,
		Backend:              relay.Recognizer.Name(),
		MaxUploadBytes:       settings.Scratch.MaxUploadBytes,
		Gatherer:             relay.Metrics.Registry(),
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	httpServer := &http.Server{
		Addr:         settings.Server.Address(),
		Handler:      router,
		ReadTimeout:  settings.Server.ReadTimeout,
		WriteTimeout: settings.Server.WriteTimeout,
		IdleTimeout:  settings.Server.IdleTimeout,
	}

	return &Server{
		config:     settings.Server,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}
}

// Start binds the listener and serves in the background.
// Bind errors are returned; later serve errors are sent on the returned channel.
func (s *Server) Start() (<-chan error, error) {
	s.logger.Info("Starting API server",
		zap.String("host", s.config.Host),
		zap.String("port", s.config.Port),
		zap.String("environment", s.config.Environment),
	)

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server stopped unexpectedly", zap.Error(err))
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("API server started successfully", zap.String("address", listener.Addr().String()))
	return errCh, nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
