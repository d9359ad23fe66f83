package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erensevin/recipe-api/api"
	"github.com/erensevin/recipe-api/api/handler"
	"github.com/erensevin/recipe-api/browser"
	"github.com/erensevin/recipe-api/config"
	"github.com/erensevin/recipe-api/engine"
	"github.com/erensevin/recipe-api/recipe"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("recipe-api starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"wildMode", cfg.Scraper.WildMode,
		"browserFallback", cfg.Browser.Enabled,
	)
	if !cfg.Auth.Configured() {
		slog.Warn("AUTH_USERNAME or AUTH_PASSWORD is unset: POST /scrape will answer 500")
	}

	if err := run(cfg); err != nil {
		slog.Error("recipe-api stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("recipe-api stopped")
}

// run wires the service together and serves until SIGINT/SIGTERM. Deferred
// cleanup (browser, domain memory) runs before it returns.
func run(cfg *config.Config) error {
	// ── 3. Build the site registry ──────────────────────────────────
	registry, err := buildRegistry(cfg.Scraper)
	if err != nil {
		return fmt.Errorf("failed to build site registry: %w", err)
	}
	slog.Info("site registry ready", "sites", registry.Len())

	// ── 4. Build the fetch engine ───────────────────────────────────
	var fetcher engine.Engine = engine.NewHTTPEngine(cfg.Scraper.Proxy)
	names := []string{fetcher.Name()}
	var pages handler.PagePool
	if cfg.Browser.Enabled {
		b, err := browser.Launch(cfg.Browser, cfg.Scraper.Proxy)
		if err != nil {
			return fmt.Errorf("failed to launch browser: %w", err)
		}
		defer b.Close()

		memory := engine.NewDomainMemory(24 * time.Hour)
		defer memory.Stop()

		dispatcher := engine.NewDispatcher(
			[]engine.Engine{fetcher, engine.NewRodEngine(b.Fetch, cfg.Browser.Stealth)},
			[]time.Duration{0, cfg.Browser.EscalationDelay},
			memory,
		)
		fetcher, names, pages = dispatcher, dispatcher.Names(), b
		slog.Info("browser fallback enabled",
			"engines", names,
			"escalationDelay", cfg.Browser.EscalationDelay,
		)
	}

	// ── 5. Setup router ─────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scraper := recipe.NewScraper(fetcher, registry, cfg.Scraper.FetchTimeout)
	router := api.NewRouter(ctx, scraper, cfg, handler.HealthInfo{
		StartTime: time.Now(),
		Sites:     registry.Len(),
		Engines:   names,
		Pages:     pages,
	})

	// ── 6. Serve until SIGINT/SIGTERM ───────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down HTTP server")

		// In-flight scrapes get 5 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildRegistry layers the built-in sites, the optional sites file and
// RECIPE_EXTRA_SITES, later layers overriding earlier ones.
func buildRegistry(cfg config.ScraperConfig) (*recipe.Registry, error) {
	sites := recipe.DefaultSites()
	if cfg.SitesFile != "" {
		extra, err := recipe.LoadSitesFile(cfg.SitesFile)
		if err != nil {
			return nil, err
		}
		slog.Info("loaded sites file", "path", cfg.SitesFile, "sites", len(extra))
		sites = append(sites, extra...)
	}
	for _, host := range cfg.ExtraSites {
		sites = append(sites, recipe.Site{Host: host})
	}
	return recipe.NewRegistry(sites, cfg.WildMode)
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}
