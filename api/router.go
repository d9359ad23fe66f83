package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erensevin/recipe-api/api/handler"
	"github.com/erensevin/recipe-api/api/middleware"
	"github.com/erensevin/recipe-api/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestID → Metrics → Logger
//	/scrape: Auth → RateLimit (if enabled)
//
// GET /, /health and /metrics are outside auth so probes and scrapers
// always reach them. Background work started for the router (rate limiter
// eviction) ends when ctx is done.
func NewRouter(ctx context.Context, rs handler.RecipeScraper, cfg *config.Config, health handler.HealthInfo) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.Logger())

	r.GET("/", handler.Root())
	r.GET("/health", handler.Health(health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protected := r.Group("")
	protected.Use(middleware.Auth(cfg.Auth))
	if cfg.RateLimit.Enabled() {
		protected.Use(middleware.RateLimit(ctx, cfg.RateLimit))
	}

	protected.POST("/scrape", handler.Scrape(rs))

	return r
}
