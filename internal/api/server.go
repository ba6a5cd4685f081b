// Package api exposes the prediction pipeline over HTTP. Request and
// response schemas, status codes, and transport policy live here; the
// pipeline itself never sees raw JSON.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/disease-prediction-server/internal/catalog"
	"github.com/disease-prediction-server/internal/domain"
	"github.com/disease-prediction-server/internal/middleware"
	"github.com/disease-prediction-server/internal/service"
)

// Server represents the HTTP server
type Server struct {
	config     *domain.ServerConfig
	logger     *logrus.Logger
	symptoms   *catalog.SymptomCatalog
	prediction *service.PredictionService
	router     *gin.Engine
	server     *http.Server
}

// NewServer creates a new HTTP server instance. All collaborators must be
// fully loaded before this is called; there is no lazy initialization.
func NewServer(
	cfg *domain.Config,
	logger *logrus.Logger,
	symptoms *catalog.SymptomCatalog,
	prediction *service.PredictionService,
) *Server {
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RateLimit(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst))

	server := &Server{
		config:     &cfg.Server,
		logger:     logger,
		symptoms:   symptoms,
		prediction: prediction,
		router:     router,
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ready", s.handleReady)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/symptoms", s.handleSymptoms)
		v1.POST("/predict", s.handlePredict)
		v1.GET("/history", s.handleHistory)
	}
}
