// Package http provides the HTTP server and routing for the card vault API.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	cardsHTTP "github.com/ticketops/cardvault/internal/cards/http"
	"github.com/ticketops/cardvault/internal/config"
	keysHTTP "github.com/ticketops/cardvault/internal/keys/http"
	"github.com/ticketops/cardvault/internal/metrics"
)

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	engine *gin.Engine
	logger *slog.Logger
}

// ServerDeps holds the handlers and optional middleware inputs the server routes to.
type ServerDeps struct {
	KeyHandler      *keysHTTP.KeyHandler
	CardHandler     *cardsHTTP.CardHandler
	IssuerHandler   *cardsHTTP.IssuerHandler
	MetricsProvider *metrics.Provider
}

// NewServer creates a new HTTP server with all routes registered.
func NewServer(cfg *config.Config, deps ServerDeps, logger *slog.Logger) *Server {
	gin.SetMode(cfg.GetGinMode())

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestid.New())
	engine.Use(RequestLogger(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		engine.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && deps.MetricsProvider != nil {
		engine.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	// Health and readiness endpoints stay outside the operator guard.
	engine.GET("/health", healthHandler)
	engine.GET("/ready", readyHandler)

	v1 := engine.Group("/v1")
	v1.Use(OperatorMiddleware(logger))

	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	v1.POST("/encryption-keys", deps.KeyHandler.IssueHandler)
	v1.GET("/encryption-keys/:key_id", deps.KeyHandler.GetHandler)

	v1.POST("/credit-cards/encrypted", deps.CardHandler.CreateHandler)
	v1.GET("/credit-cards", deps.CardHandler.ListHandler)
	v1.POST("/credit-cards/check-card-number", deps.CardHandler.CheckCardNumberHandler)
	v1.PATCH("/credit-cards/bulk-update", deps.CardHandler.BulkUpdateHandler)
	v1.GET("/credit-cards/:card_id", deps.CardHandler.GetHandler)
	v1.PUT("/credit-cards/:card_id/encrypted", deps.CardHandler.UpdateHandler)

	v1.GET("/credit-card-issuers", deps.IssuerHandler.ListHandler)
	v1.POST("/credit-card-issuers", deps.IssuerHandler.CreateHandler)

	return &Server{
		engine: engine,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Engine exposes the underlying gin engine for testing.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start starts the HTTP server.
func (s *Server) Start() error {
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

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func readyHandler(c *gin.Context) {
	select {
	case <-c.Request.Context().Done():
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
