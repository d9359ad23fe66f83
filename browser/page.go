package browser

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/erensevin/recipe-api/engine"
	"github.com/erensevin/recipe-api/models"
)

// Fetch renders req.URL in a pooled tab and returns the resulting HTML.
// Its signature matches engine.BrowserFetchFunc.
//
// Stealth JS and the hijack router are installed before navigation; they
// only apply to navigations started after them.
func (b *Browser) Fetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	b.activePages.Add(1)
	defer b.activePages.Add(-1)

	page, err := b.pagePool.Get(func() (*rod.Page, error) {
		return b.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to acquire page from pool", err)
	}
	// The original page reference has no request context, so the reset
	// still works after ctx expired.
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		b.pagePool.Put(page)
	}()

	if req.Stealth || b.cfg.Stealth {
		remove, evalErr := page.EvalOnNewDocument(stealth.JS)
		if evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		} else {
			// Pooled tabs are reused; leave none of this fetch's scripts behind.
			defer removeScript(remove)
		}
	}

	headers := map[string]string{}
	if u, parseErr := url.Parse(req.URL); parseErr == nil {
		headers["Referer"] = "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname()+" recipe")
	}
	for k, v := range req.Headers {
		headers[k] = v
	}
	_ = proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(headers)}.Call(page)

	router := blockHeavyResources(page)
	defer func() { _ = router.Stop() }()

	p := page.Context(ctx)
	if err := p.Navigate(req.URL); err != nil {
		return nil, categorizeError(err, "navigation to recipe URL failed")
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}

	rawHTML, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, "failed to extract page HTML")
	}

	statusCode := 0
	if res, evalErr := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch (e) {}
		return 0;
	}`); evalErr == nil {
		statusCode = res.Value.Int()
	}
	if statusCode >= 400 {
		return nil, models.NewScrapeError(models.ErrCodeFetch, "recipe page returned an error status", nil)
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &engine.FetchResult{
		HTML:       rawHTML,
		Title:      evalStringOrEmpty(p, `() => document.title`),
		StatusCode: statusCode,
		FinalURL:   finalURL,
	}, nil
}

// removeScript unregisters a new-document script.
func removeScript(remove func() error) {
	if err := remove(); err != nil {
		slog.Warn("cleanup: failed to remove stealth script", "error", err)
	}
}

func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to proto.NetworkHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeFetch, msg, err)
	}
}
