// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"shortid/internal/core/apperror"
	"shortid/internal/domain/auth"
	"shortid/internal/domain/idgen"
	"shortid/internal/infrastructure/http/v1/handlers"
	"shortid/internal/infrastructure/http/v1/middleware"
	"shortid/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Service issues and decodes identifiers
	Service *idgen.Service

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator enables bearer authentication on /api/v1 when set
	JWTValidator middleware.JWTValidator

	// Version is reported by /health/info
	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace(cfg.Logger))
	router.Use(middleware.Logger(cfg.Logger, "/health/live"))
	router.Use(middleware.ErrorHandler())

	router.NoRoute(notFound)

	healthHandler := handlers.NewHealthHandler(cfg.Service, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/info", healthHandler.Info)
	}

	idHandler := handlers.NewIDHandler(cfg.Service)
	v1 := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		v1.Use(middleware.Auth(cfg.JWTValidator))
	}

	ids := v1.Group("/ids")
	{
		ids.POST("", scope(cfg, auth.ScopeGenerate), idHandler.Generate)
		ids.POST("/convert", scope(cfg, auth.ScopeRead), idHandler.Convert)
		ids.GET("/:format/stream", scope(cfg, auth.ScopeGenerate), idHandler.Stream)
		ids.GET("/:format/:id", scope(cfg, auth.ScopeRead), idHandler.Decode)
	}

	return router
}

func notFound(c *gin.Context) {
	_ = c.Error(apperror.NewNotFound("route", c.Request.Method+" "+c.Request.URL.Path))
}

// scope enforces s only when authentication is configured.
func scope(cfg RouterConfig, s string) gin.HandlerFunc {
	if cfg.JWTValidator == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RequireScope(s)
}
