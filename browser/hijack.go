package browser

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// blockedTypes never carry recipe markup.
var blockedTypes = map[proto.NetworkResourceType]struct{}{
	proto.NetworkResourceTypeImage:      {},
	proto.NetworkResourceTypeStylesheet: {},
	proto.NetworkResourceTypeFont:       {},
	proto.NetworkResourceTypeMedia:      {},
}

// adDomains are ad and tracking hosts; recipe blogs load dozens of them.
var adDomains = map[string]struct{}{
	"doubleclick.net":       {},
	"googlesyndication.com": {},
	"googleadservices.com":  {},
	"google-analytics.com":  {},
	"googletagmanager.com":  {},
	"amazon-adsystem.com":   {},
	"adthrive.com":          {},
	"mediavine.com":         {},
	"raptive.com":           {},
	"criteo.com":            {},
	"taboola.com":           {},
	"outbrain.com":          {},
	"pubmatic.com":          {},
	"rubiconproject.com":    {},
	"hotjar.com":            {},
	"facebook.net":          {},
}

// isAdDomain reports whether host or any of its parent domains is blocked.
func isAdDomain(host string) bool {
	host = strings.ToLower(host)
	for host != "" {
		if _, ok := adDomains[host]; ok {
			return true
		}
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			break
		}
		host = host[idx+1:]
	}
	return false
}

// shouldBlock decides whether an intercepted request is dropped.
func shouldBlock(resourceType proto.NetworkResourceType, rawURL string) bool {
	if _, ok := blockedTypes[resourceType]; ok {
		return true
	}
	if u, err := url.Parse(rawURL); err == nil && isAdDomain(u.Hostname()) {
		return true
	}
	return false
}

// blockHeavyResources installs a request interceptor that fails images,
// styles, fonts, media and ad traffic. The caller must Stop the router.
func blockHeavyResources(page *rod.Page) *rod.HijackRouter {
	router := page.HijackRequests()
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if shouldBlock(ctx.Request.Type(), ctx.Request.URL().String()) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
	return router
}
