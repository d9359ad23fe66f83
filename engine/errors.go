package engine

import (
	"context"
	"errors"

	"github.com/erensevin/recipe-api/models"
)

// classifyError wraps a raw fetch error into a ScrapeError so callers can
// tell deadlines apart from network or protocol failures.
func classifyError(err error, msg string) *models.ScrapeError {
	var scrapeErr *models.ScrapeError
	if errors.As(err, &scrapeErr) {
		return scrapeErr
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, "fetch timed out", err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeFetch, msg, err)
	}
}
