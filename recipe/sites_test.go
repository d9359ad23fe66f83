package recipe

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"www.allrecipes.com", "allrecipes.com"},
		{"WWW.AllRecipes.COM", "allrecipes.com"},
		{"allrecipes.com.", "allrecipes.com"},
		{"  cooking.nytimes.com ", "cooking.nytimes.com"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeHost(tt.in); got != tt.want {
				t.Errorf("NormalizeHost(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg, err := NewRegistry(DefaultSites(), false)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	tests := []struct {
		host     string
		wantHost string
		wantOK   bool
	}{
		{"www.bbcgoodfood.com", "bbcgoodfood.com", true},
		{"foodnetwork.co.uk", "foodnetwork.com", true},
		{"example.org", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			site, ok := reg.Lookup(tt.host)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.host, ok, tt.wantOK)
			}
			if ok && site.Host != tt.wantHost {
				t.Errorf("site.Host = %q, want %q", site.Host, tt.wantHost)
			}
		})
	}
}

func TestRegistry_WildMode(t *testing.T) {
	reg, err := NewRegistry(nil, true)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	site, ok := reg.Lookup("www.anything.example")
	if !ok || site.Host != "anything.example" {
		t.Errorf("Lookup() = %+v, %v", site, ok)
	}
	if _, ok := reg.Lookup(""); ok {
		t.Error("empty host must not resolve in wild mode")
	}
}

func TestNewRegistry_LaterEntriesOverride(t *testing.T) {
	reg, err := NewRegistry([]Site{
		{Host: "example.com", TitleSelector: "h1"},
		{Host: "www.example.com", TitleSelector: "h2.name"},
	}, false)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	site, _ := reg.Lookup("example.com")
	if site.TitleSelector != "h2.name" {
		t.Errorf("TitleSelector = %q, want h2.name", site.TitleSelector)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name  string
		sites []Site
	}{
		{"missing host", []Site{{TitleSelector: "h1"}}},
		{"bad selector", []Site{{Host: "example.com", IngredientSelector: "li[["}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.sites, false); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRegistry_Hosts(t *testing.T) {
	reg, err := NewRegistry([]Site{{Host: "b.com", Aliases: []string{"c.com"}}, {Host: "a.com"}}, false)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if want := []string{"a.com", "b.com", "c.com"}; !reflect.DeepEqual(reg.Hosts(), want) {
		t.Errorf("Hosts() = %v, want %v", reg.Hosts(), want)
	}
}

func TestParseSites(t *testing.T) {
	data := []byte(`
sites:
  - host: example-recipes.com
    aliases: [example-recipes.co.uk]
    title: h1.recipe-title
    ingredients: ul.ingredients > li
  - host: another.example
`)
	sites, err := ParseSites(data)
	if err != nil {
		t.Fatalf("ParseSites() error = %v", err)
	}
	if len(sites) != 2 {
		t.Fatalf("len(sites) = %d, want 2", len(sites))
	}
	got := sites[0]
	if got.Host != "example-recipes.com" || got.TitleSelector != "h1.recipe-title" ||
		got.IngredientSelector != "ul.ingredients > li" || !reflect.DeepEqual(got.Aliases, []string{"example-recipes.co.uk"}) {
		t.Errorf("sites[0] = %+v", got)
	}
}

func TestParseSites_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "sites:\n  - host: a.com\n    titel: h1\n"},
		{"missing host", "sites:\n  - title: h1\n"},
		{"not yaml", "sites: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSites([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseSites_Empty(t *testing.T) {
	sites, err := ParseSites(nil)
	if err != nil || sites != nil {
		t.Errorf("ParseSites(nil) = %v, %v; want nil, nil", sites, err)
	}
}

func TestLoadSitesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	if err := os.WriteFile(path, []byte("sites:\n  - host: file.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sites, err := LoadSitesFile(path)
	if err != nil {
		t.Fatalf("LoadSitesFile() error = %v", err)
	}
	if len(sites) != 1 || sites[0].Host != "file.example" {
		t.Errorf("sites = %+v", sites)
	}

	if _, err := LoadSitesFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
