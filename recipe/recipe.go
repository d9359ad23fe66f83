// Package recipe turns a recipe page URL into a title and an ingredient
// list. It detects the site from the URL's host, fetches the page through
// an engine.Engine and reads schema.org data, with per-site CSS selectors
// as a fallback.
package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/erensevin/recipe-api/engine"
	"github.com/erensevin/recipe-api/models"
)

// Recipe is the structured data scraped from one page.
type Recipe struct {
	Title       string
	Ingredients []string

	// Host is the normalized host the site was detected from.
	Host string
}

// Scraper is safe for concurrent use.
type Scraper struct {
	fetcher      engine.Engine
	registry     *Registry
	fetchTimeout time.Duration
}

// NewScraper creates a Scraper. fetchTimeout bounds each page fetch; zero
// leaves the fetch bound only by the caller's context.
func NewScraper(fetcher engine.Engine, registry *Registry, fetchTimeout time.Duration) *Scraper {
	return &Scraper{
		fetcher:      fetcher,
		registry:     registry,
		fetchTimeout: fetchTimeout,
	}
}

// Registry returns the site registry the scraper resolves hosts against.
func (s *Scraper) Registry() *Registry { return s.registry }

// Scrape makes a single attempt at rawURL. Every failure is a
// *models.ScrapeError; ErrCodeUnsupportedSite means the host has no site
// entry and wild mode is off.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Recipe, error) {
	start := time.Now()
	r, err := s.scrape(ctx, rawURL)
	observeScrape(err, time.Since(start))
	return r, err
}

func (s *Scraper) scrape(ctx context.Context, rawURL string) (*Recipe, error) {
	pageURL, err := parseRecipeURL(rawURL)
	if err != nil {
		return nil, err
	}

	site, ok := s.registry.Lookup(pageURL.Hostname())
	if !ok {
		return nil, models.NewScrapeError(models.ErrCodeUnsupportedSite,
			fmt.Sprintf("%s is not supported", NormalizeHost(pageURL.Hostname())), nil)
	}

	res, err := s.fetcher.Fetch(ctx, &engine.FetchRequest{
		URL:     pageURL.String(),
		Timeout: s.fetchTimeout,
	})
	if err != nil {
		var scrapeErr *models.ScrapeError
		if errors.As(err, &scrapeErr) {
			return nil, scrapeErr
		}
		return nil, models.NewScrapeError(models.ErrCodeFetch, "failed to fetch recipe page", err)
	}

	r, err := extract(res.HTML, pageURL, site, res.Title)
	if err != nil {
		return nil, err
	}
	slog.Debug("recipe scraped",
		"host", site.Host,
		"engine", res.EngineName,
		"ingredients", len(r.Ingredients),
	)
	return r, nil
}

// parseRecipeURL accepts absolute http(s) URLs only.
func parseRecipeURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidURL, "invalid recipe URL", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, models.NewScrapeError(models.ErrCodeInvalidURL,
			fmt.Sprintf("invalid recipe URL %q: expected an absolute http(s) URL", rawURL), nil)
	}
	return u, nil
}
