package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_USERNAME", "")
	t.Setenv("AUTH_PASSWORD", "")
	t.Setenv("RECIPE_PORT", "")
	t.Setenv("RECIPE_FETCH_TIMEOUT", "")
	t.Setenv("RECIPE_RATE_RPS", "")

	cfg := Load()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Auth.Configured() {
		t.Error("Auth.Configured() = true with empty env")
	}
	if cfg.Scraper.FetchTimeout != 0 {
		t.Errorf("Scraper.FetchTimeout = %v, want 0", cfg.Scraper.FetchTimeout)
	}
	if cfg.RateLimit.Enabled() {
		t.Error("RateLimit.Enabled() = true by default")
	}
	if cfg.Browser.EscalationDelay != 2*time.Second {
		t.Errorf("Browser.EscalationDelay = %v, want 2s", cfg.Browser.EscalationDelay)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("AUTH_USERNAME", "chef")
	t.Setenv("AUTH_PASSWORD", "s3cret")
	t.Setenv("RECIPE_PORT", "9090")
	t.Setenv("RECIPE_WILD_MODE", "true")
	t.Setenv("RECIPE_FETCH_TIMEOUT", "15s")
	t.Setenv("RECIPE_EXTRA_SITES", " cooking.example , ,recipes.test")
	t.Setenv("RECIPE_RATE_RPS", "2.5")

	cfg := Load()

	if cfg.Auth.Username != "chef" || cfg.Auth.Password != "s3cret" {
		t.Errorf("Auth = %+v", cfg.Auth)
	}
	if !cfg.Auth.Configured() {
		t.Error("Auth.Configured() = false with both values set")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Scraper.WildMode {
		t.Error("Scraper.WildMode = false, want true")
	}
	if cfg.Scraper.FetchTimeout != 15*time.Second {
		t.Errorf("Scraper.FetchTimeout = %v, want 15s", cfg.Scraper.FetchTimeout)
	}
	if len(cfg.Scraper.ExtraSites) != 2 || cfg.Scraper.ExtraSites[0] != "cooking.example" || cfg.Scraper.ExtraSites[1] != "recipes.test" {
		t.Errorf("Scraper.ExtraSites = %v", cfg.Scraper.ExtraSites)
	}
	if !cfg.RateLimit.Enabled() || cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
}

func TestAuthConfig_Configured(t *testing.T) {
	tests := []struct {
		name string
		cfg  AuthConfig
		want bool
	}{
		{"both set", AuthConfig{Username: "u", Password: "p"}, true},
		{"missing username", AuthConfig{Password: "p"}, false},
		{"missing password", AuthConfig{Username: "u"}, false},
		{"neither", AuthConfig{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvHelpers_InvalidFallsBack(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	if got := envIntOr("X_INT", 7); got != 7 {
		t.Errorf("envIntOr = %d, want 7", got)
	}
	if got := envBoolOr("X_BOOL", true); !got {
		t.Error("envBoolOr = false, want fallback true")
	}
	if got := envDurationOr("X_DUR", time.Minute); got != time.Minute {
		t.Errorf("envDurationOr = %v, want 1m", got)
	}
}
