package recipe

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/erensevin/recipe-api/engine"
	"github.com/erensevin/recipe-api/models"
)

// extract pulls the recipe title and ingredient list out of rawHTML.
//
// Order of precedence:
//  1. schema.org Recipe JSON-LD
//  2. the site's CSS selectors, for whatever JSON-LD left empty
//  3. for the title only: readability's article title, then the fetched
//     page title, then the first <title> element
//
// A page with neither JSON-LD recipe data nor selector-matched ingredients
// is reported as ErrCodeNoRecipe.
func extract(rawHTML string, pageURL *url.URL, site *Site, pageTitle string) (*Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to parse recipe page", err)
	}

	r := &Recipe{Host: site.Host, Ingredients: []string{}}
	found := false

	if sr, ok := findSchemaRecipe(doc); ok {
		found = true
		r.Title = sr.Name
		r.Ingredients = sr.Ingredients
	}

	if r.Title == "" && site.title != nil {
		r.Title = normalizeString(doc.FindMatcher(site.title).First().Text())
	}
	if len(r.Ingredients) == 0 && site.ingredients != nil {
		var items []string
		doc.FindMatcher(site.ingredients).Each(func(_ int, s *goquery.Selection) {
			items = append(items, s.Text())
		})
		if items = normalizeList(items); len(items) > 0 {
			found = true
			r.Ingredients = items
		}
	}

	if !found {
		return nil, models.NewScrapeError(models.ErrCodeNoRecipe,
			"no recipe data found on "+pageURL.String(), nil)
	}

	if r.Title == "" {
		r.Title = fallbackTitle(rawHTML, pageURL, pageTitle)
	}
	return r, nil
}

func fallbackTitle(rawHTML string, pageURL *url.URL, pageTitle string) string {
	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		slog.Debug("readability: title extraction failed", "url", pageURL.String(), "error", err)
	} else if t := normalizeString(article.Title); t != "" {
		return t
	}
	if t := normalizeString(pageTitle); t != "" {
		return t
	}
	return normalizeString(engine.ExtractTitle(rawHTML))
}

// normalizeString unescapes HTML entities, composes the text to NFC and
// collapses runs of whitespace, non-breaking spaces included, into single
// spaces.
func normalizeString(s string) string {
	s = norm.NFC.String(html.UnescapeString(s))
	return strings.Join(strings.Fields(s), " ")
}

// normalizeList normalizes every item and drops the ones left empty.
func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if n := normalizeString(item); n != "" {
			out = append(out, n)
		}
	}
	return out
}
