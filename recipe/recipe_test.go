package recipe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/erensevin/recipe-api/engine"
	"github.com/erensevin/recipe-api/models"
)

// stubEngine returns a fixed page or error for every fetch.
type stubEngine struct {
	html    string
	title   string
	err     error
	lastReq *engine.FetchRequest
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Fetch(_ context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &engine.FetchResult{HTML: s.html, Title: s.title, FinalURL: req.URL, EngineName: "stub"}, nil
}

const pastaPage = `<html><head><title>Pasta | Example</title>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Recipe","name":"Pasta","recipeIngredient":["flour","water"]}
</script></head><body></body></html>`

func newTestScraper(t *testing.T, fetcher engine.Engine, wild bool) *Scraper {
	t.Helper()
	reg, err := NewRegistry(DefaultSites(), wild)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return NewScraper(fetcher, reg, 5*time.Second)
}

func scrapeErrCode(t *testing.T, err error) string {
	t.Helper()
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		t.Fatalf("error %v is not a *models.ScrapeError", err)
	}
	return scrapeErr.Code
}

func TestScraper_Scrape(t *testing.T) {
	stub := &stubEngine{html: pastaPage}
	s := newTestScraper(t, stub, false)

	r, err := s.Scrape(context.Background(), "https://www.allrecipes.com/recipe/1/pasta/")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if r.Title != "Pasta" {
		t.Errorf("Title = %q, want %q", r.Title, "Pasta")
	}
	if want := []string{"flour", "water"}; !reflect.DeepEqual(r.Ingredients, want) {
		t.Errorf("Ingredients = %v, want %v", r.Ingredients, want)
	}
	if r.Host != "allrecipes.com" {
		t.Errorf("Host = %q, want allrecipes.com", r.Host)
	}
	if stub.lastReq.Timeout != 5*time.Second {
		t.Errorf("fetch Timeout = %v, want 5s", stub.lastReq.Timeout)
	}
}

func TestScraper_Scrape_Errors(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		fetcher  *stubEngine
		wantCode string
	}{
		{
			name:     "unsupported site",
			url:      "https://unknown-recipes.example/pasta",
			fetcher:  &stubEngine{html: pastaPage},
			wantCode: models.ErrCodeUnsupportedSite,
		},
		{
			name:     "not a url",
			url:      "pasta with sauce",
			fetcher:  &stubEngine{html: pastaPage},
			wantCode: models.ErrCodeInvalidURL,
		},
		{
			name:     "unsupported scheme",
			url:      "ftp://allrecipes.com/pasta",
			fetcher:  &stubEngine{html: pastaPage},
			wantCode: models.ErrCodeInvalidURL,
		},
		{
			name:     "plain fetch error",
			url:      "https://allrecipes.com/pasta",
			fetcher:  &stubEngine{err: errors.New("connection reset")},
			wantCode: models.ErrCodeFetch,
		},
		{
			name:     "coded fetch error kept",
			url:      "https://allrecipes.com/pasta",
			fetcher:  &stubEngine{err: models.NewScrapeError(models.ErrCodeTimeout, "timed out", nil)},
			wantCode: models.ErrCodeTimeout,
		},
		{
			name:     "page without recipe",
			url:      "https://allrecipes.com/about",
			fetcher:  &stubEngine{html: "<html><body><p>About us</p></body></html>"},
			wantCode: models.ErrCodeNoRecipe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScraper(t, tt.fetcher, false)
			_, err := s.Scrape(context.Background(), tt.url)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if code := scrapeErrCode(t, err); code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestScraper_Scrape_WildMode(t *testing.T) {
	s := newTestScraper(t, &stubEngine{html: pastaPage}, true)

	r, err := s.Scrape(context.Background(), "https://WWW.Unknown-Recipes.example/pasta")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if r.Title != "Pasta" || r.Host != "unknown-recipes.example" {
		t.Errorf("got title %q host %q", r.Title, r.Host)
	}
}

func TestParseRecipeURL_TrimsSpace(t *testing.T) {
	u, err := parseRecipeURL("  https://food.com/recipe/1 \n")
	if err != nil {
		t.Fatalf("parseRecipeURL() error = %v", err)
	}
	if u.Host != "food.com" {
		t.Errorf("Host = %q, want food.com", u.Host)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{models.NewScrapeError(models.ErrCodeNoRecipe, "none", nil), models.ErrCodeNoRecipe},
		{errors.New("boom"), models.ErrCodeInternal},
	}
	for _, tt := range tests {
		if got := outcome(tt.err); got != tt.want {
			t.Errorf("outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestScraper_Scrape_HTTPEngine(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{
			name:        "utf-8 page",
			contentType: "text/html; charset=utf-8",
			body: `<html><head><title>Dessert</title><script type="application/ld+json">` +
				`{"@type":"Recipe","name":"Crème brûlée","recipeIngredient":["crème","sucre"]}` +
				`</script></head></html>`,
		},
		{
			name:        "latin-1 page",
			contentType: "text/html; charset=iso-8859-1",
			body: "<html><head><title>Dessert</title><script type=\"application/ld+json\">" +
				"{\"@type\":\"Recipe\",\"name\":\"Cr\xe8me br\xfbl\xe9e\",\"recipeIngredient\":[\"cr\xe8me\",\"sucre\"]}" +
				"</script></head></html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			reg, err := NewRegistry(nil, true)
			if err != nil {
				t.Fatalf("NewRegistry() error = %v", err)
			}
			s := NewScraper(engine.NewHTTPEngine(""), reg, 0)

			r, err := s.Scrape(context.Background(), srv.URL+"/creme-brulee")
			if err != nil {
				t.Fatalf("Scrape() error = %v", err)
			}
			if r.Title != "Crème brûlée" {
				t.Errorf("Title = %q, want %q", r.Title, "Crème brûlée")
			}
			if want := []string{"crème", "sucre"}; !reflect.DeepEqual(r.Ingredients, want) {
				t.Errorf("Ingredients = %q, want %q", r.Ingredients, want)
			}
		})
	}
}
