package recipe

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/erensevin/recipe-api/models"
)

var (
	scrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_scrapes_total",
			Help: "Total number of recipe scrapes by outcome",
		},
		[]string{"outcome"},
	)

	scrapeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipe_scrape_duration_seconds",
			Help:    "Recipe scrape latency in seconds, fetch and extraction included",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)

// observeScrape records one scrape. The outcome label is "success" or an
// error code, so its cardinality stays bounded.
func observeScrape(err error, elapsed time.Duration) {
	scrapeDuration.Observe(elapsed.Seconds())
	scrapesTotal.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var scrapeErr *models.ScrapeError
	if errors.As(err, &scrapeErr) {
		return scrapeErr.Code
	}
	return models.ErrCodeInternal
}
