// Package browser runs the headless Chromium used when a recipe page only
// renders its content client-side.
package browser

import (
	"log/slog"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/erensevin/recipe-api/config"
	"github.com/erensevin/recipe-api/models"
)

// Browser owns a launched Chromium process and a pool of reusable tabs.
// It is safe for concurrent use.
type Browser struct {
	browser     *rod.Browser
	pagePool    rod.Pool[rod.Page]
	cfg         config.BrowserConfig
	maxPages    int
	activePages atomic.Int32
}

// Launch starts Chromium and connects to it. proxy, if non-empty, is
// passed to the browser as its proxy server.
func Launch(cfg config.BrowserConfig, proxy string) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if proxy != "" {
		l = l.Proxy(proxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}
	slog.Info("page pool created", "maxPages", maxPages)

	return &Browser{
		browser:  b,
		pagePool: rod.NewPagePool(maxPages),
		cfg:      cfg,
		maxPages: maxPages,
	}, nil
}

// ActivePages returns the number of tabs currently rendering a page.
func (b *Browser) ActivePages() int {
	return int(b.activePages.Load())
}

// MaxPages returns the page pool size.
func (b *Browser) MaxPages() int { return b.maxPages }

// Close drains the page pool and kills the browser process.
func (b *Browser) Close() {
	slog.Info("browser shutting down: draining page pool")
	b.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	if err := b.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
	slog.Info("browser shutdown complete")
}
