// Package http provides the HTTP servers of the isolator: the control API and the metrics
// endpoint.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/isolator/internal/auth/http"
	authService "github.com/allisson/isolator/internal/auth/service"
	"github.com/allisson/isolator/internal/config"
	isolationHTTP "github.com/allisson/isolator/internal/isolation/http"
	isolationUseCase "github.com/allisson/isolator/internal/isolation/usecase"
	"github.com/allisson/isolator/internal/metrics"
)

// Server is the control API server.
type Server struct {
	server  *http.Server
	router  *gin.Engine
	control isolationUseCase.ControlSurface
	logger  *slog.Logger
}

// NewServer creates a new control API server. The router is installed by SetupRouter.
func NewServer(
	control isolationUseCase.ControlSurface,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		control: control,
		logger:  logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin router with every middleware and route.
//
// ctx bounds background work started by middleware (rate limiter cleanup).
// metricsProvider may be nil when metrics are disabled.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	isolationHandler *isolationHTTP.IsolationHandler,
	passwordService authService.PasswordService,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace, "/health", "/ready"))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	isolation := v1.Group("/isolation")
	if cfg.RateLimitEnabled {
		isolation.Use(authHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	isolation.Use(authHTTP.ControlAuthMiddleware(passwordService, cfg.ControlPasswordHash, s.logger))
	{
		isolation.GET("/status", isolationHandler.StatusHandler)
		isolation.POST("/enable", isolationHandler.EnableHandler)
		isolation.POST("/disable", isolationHandler.DisableHandler)
		isolation.POST("/domains/new-circuit", isolationHandler.NewDomainCircuitHandler)
		isolation.POST("/containers/:id/new-circuit", isolationHandler.NewContainerCircuitHandler)
		isolation.POST("/clear", isolationHandler.ClearHandler)
		isolation.GET("/credentials", isolationHandler.LookupCredentialsHandler)
		isolation.POST("/resolve", isolationHandler.ResolveHandler)
	}

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server. SetupRouter must be called first.
func (s *Server) Start(ctx context.Context) error {
	if s.server.Handler == nil {
		s.server.Handler = s.router
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the isolation engine is wired and answering.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.control == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"engine": "error"},
		})
		return
	}

	status := s.control.Status(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"components": gin.H{
			"engine":    "ok",
			"isolation": enabledLabel(status.Enabled),
		},
	})
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
