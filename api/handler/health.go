package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/erensevin/recipe-api/models"
)

// Version is reported by GET /health. Overridden at build time with
// -ldflags "-X github.com/erensevin/recipe-api/api/handler.Version=...".
var Version = "0.1.0"

// PagePool reports browser page usage. It is nil when the browser fallback
// is disabled.
type PagePool interface {
	ActivePages() int
	MaxPages() int
}

// HealthInfo is the static part of the health report.
type HealthInfo struct {
	StartTime time.Time
	Sites     int
	Engines   []string
	Pages     PagePool
}

// Health returns a handler for GET /health.
//
// Status degrades when more than 80% of browser pages are in use.
func Health(info HealthInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		if info.Pages != nil {
			if maxPages := info.Pages.MaxPages(); maxPages > 0 && info.Pages.ActivePages() > int(float64(maxPages)*0.8) {
				status = "degraded"
			}
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(info.StartTime).Round(time.Second).String(),
			Version: Version,
			Sites:   info.Sites,
			Engines: info.Engines,
		})
	}
}
