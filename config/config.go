package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Scraper   ScraperConfig
	Browser   BrowserConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8000
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig holds the single Basic-Auth principal allowed to call /scrape.
// Both fields must be non-empty for any request to authenticate.
type AuthConfig struct {
	Username string
	Password string
}

// Configured reports whether both reference credentials are set.
func (a AuthConfig) Configured() bool {
	return a.Username != "" && a.Password != ""
}

// ScraperConfig controls recipe fetching and site detection.
type ScraperConfig struct {
	// FetchTimeout bounds a single page fetch. Zero disables the deadline
	// and the fetch lives as long as the client request.
	FetchTimeout time.Duration // default: 0

	// WildMode lets unknown hosts through to the generic schema.org
	// extractor instead of rejecting them as unsupported.
	WildMode bool // default: false

	// SitesFile is an optional YAML file adding or overriding site entries.
	SitesFile string

	// ExtraSites lists additional hosts handled by the generic schema.org
	// extractor without dedicated selectors.
	ExtraSites []string

	// Proxy is an optional HTTP(S) proxy URL for outbound fetches.
	Proxy string
}

// BrowserConfig controls the optional headless browser fallback.
type BrowserConfig struct {
	// Enabled turns on the browser engine behind the HTTP engine.
	Enabled bool // default: false

	Headless   bool   // default: true
	NoSandbox  bool   // default: false
	BrowserBin string // overrides the Chromium binary path

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 4

	// EscalationDelay is how long the HTTP engine runs alone before the
	// browser engine joins the race.
	EscalationDelay time.Duration // default: 2s

	// Stealth injects anti-detection JS into every browser page.
	Stealth bool // default: true
}

// RateLimitConfig controls per-caller rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per caller. Zero disables limiting.
	RequestsPerSecond float64 // default: 0

	// Burst is the maximum burst size per caller.
	Burst int // default: 10
}

// Enabled reports whether rate limiting should be mounted.
func (r RateLimitConfig) Enabled() bool {
	return r.RequestsPerSecond > 0
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is loaded first if present; variables
// already set in the process environment win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: envOr("RECIPE_HOST", "0.0.0.0"),
			Port: envIntOr("RECIPE_PORT", 8000),
			Mode: envOr("RECIPE_MODE", "release"),
		},
		Auth: AuthConfig{
			Username: os.Getenv("AUTH_USERNAME"),
			Password: os.Getenv("AUTH_PASSWORD"),
		},
		Scraper: ScraperConfig{
			FetchTimeout: envDurationOr("RECIPE_FETCH_TIMEOUT", 0),
			WildMode:     envBoolOr("RECIPE_WILD_MODE", false),
			SitesFile:    os.Getenv("RECIPE_SITES_FILE"),
			ExtraSites:   envSliceOr("RECIPE_EXTRA_SITES", nil),
			Proxy:        os.Getenv("RECIPE_PROXY"),
		},
		Browser: BrowserConfig{
			Enabled:         envBoolOr("RECIPE_BROWSER_FALLBACK", false),
			Headless:        envBoolOr("RECIPE_HEADLESS", true),
			NoSandbox:       envBoolOr("RECIPE_NO_SANDBOX", false),
			BrowserBin:      os.Getenv("RECIPE_BROWSER_BIN"),
			MaxPages:        envIntOr("RECIPE_MAX_PAGES", 4),
			EscalationDelay: envDurationOr("RECIPE_ESCALATION_DELAY", 2*time.Second),
			Stealth:         envBoolOr("RECIPE_STEALTH", true),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("RECIPE_RATE_RPS", 0),
			Burst:             envIntOr("RECIPE_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("RECIPE_LOG_LEVEL", "info"),
			Format: envOr("RECIPE_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envSliceOr splits a comma-separated variable, dropping blank items.
func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
