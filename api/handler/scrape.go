package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erensevin/recipe-api/api/middleware"
	"github.com/erensevin/recipe-api/models"
	"github.com/erensevin/recipe-api/recipe"
)

// RecipeScraper is the scraping capability behind POST /scrape.
// *recipe.Scraper implements it.
type RecipeScraper interface {
	Scrape(ctx context.Context, rawURL string) (*recipe.Recipe, error)
}

// Scrape returns a handler for POST /scrape.
//
// Flow:
//  1. Bind {"url": ...}; a missing url or malformed body is a 400.
//  2. RecipeScraper.Scrape, a single attempt.
//  3. 200 with {"title", "ingredients"}, or 200 with {"error"} for any
//     scrape failure.
func Scrape(rs RecipeScraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(models.NewScrapeError(models.ErrCodeInvalidInput, "invalid scrape request", err))
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}

		r, err := rs.Scrape(c.Request.Context(), req.URL)
		if err != nil {
			respondScrapeError(c, req.URL, err)
			return
		}

		ingredients := r.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		c.JSON(http.StatusOK, models.RecipeResponse{
			Title:       r.Title,
			Ingredients: ingredients,
		})
	}
}

// respondScrapeError writes a scrape failure. The status is always 200;
// clients tell failures apart by the "error" key.
func respondScrapeError(c *gin.Context, rawURL string, err error) {
	_ = c.Error(err)

	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, err.Error(), nil)
	}

	slog.Warn("scrape failed",
		"request_id", c.GetString(middleware.RequestIDKey),
		"url", rawURL,
		"code", scrapeErr.Code,
		"error", err,
	)

	c.JSON(http.StatusOK, models.ErrorResponse{Error: errorText(scrapeErr)})
}

// errorText maps an error code to its client-facing description.
func errorText(e *models.ScrapeError) string {
	switch e.Code {
	case models.ErrCodeUnsupportedSite:
		return models.UnsupportedSiteMessage
	default:
		return e.Description()
	}
}
