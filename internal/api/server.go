package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/database"
	"github.com/symptom-triage-server/internal/domain"
	"github.com/symptom-triage-server/internal/history"
	"github.com/symptom-triage-server/internal/llm"
	"github.com/symptom-triage-server/internal/middleware"
	"github.com/symptom-triage-server/internal/report"
	"github.com/symptom-triage-server/internal/repository"
)

// Deps are the collaborators the HTTP layer exposes. Conversations and LLM
// are optional: follow-up chat is only served when both are configured.
type Deps struct {
	Analyzer      domain.Analyzer
	Store         history.Store
	Conversations *repository.ConversationRepository
	LLM           *llm.Client
	DB            *database.DB
}

// Server represents the HTTP server
type Server struct {
	config   *domain.Config
	router   *gin.Engine
	server   *http.Server
	log      *logrus.Logger
	deps     Deps
	reporter *report.Generator
	limiter  *middleware.RateLimiter
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *domain.Config, deps Deps, logger *logrus.Logger) (*Server, error) {
	if deps.Analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("history store is required")
	}

	reporter, err := report.NewGenerator()
	if err != nil {
		return nil, fmt.Errorf("creating report generator: %w", err)
	}

	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		router.Use(limiter.Middleware())
	}

	server := &Server{
		config:   cfg,
		router:   router,
		log:      logger,
		deps:     deps,
		reporter: reporter,
		limiter:  limiter,
	}

	// Setup routes
	server.setupRoutes()

	return server, nil
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("starting server: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.log.Info("Shutting down HTTP server")
	if s.limiter != nil {
		s.limiter.Close()
	}
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.GET("/symptoms", s.handleSymptoms)
		v1.GET("/checks", s.handleListChecks)
		v1.GET("/checks/:id", s.handleGetCheck)
		v1.DELETE("/checks/:id", s.handleDeleteCheck)
		v1.GET("/checks/:id/report", s.handleCheckReport)
		v1.GET("/checks/:id/conversation", s.handleConversation)
		v1.GET("/export", s.handleExport)
	}
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-API-Key")
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
