package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSites(t *testing.T) {
	dir := t.TempDir()
	site := `id: sprzedajemy
name: sprzedajemy.pl integration
url: https://sprzedajemy.pl/nieruchomosci/mieszkania
max_pages: 3
features:
  home_sale: true
`
	if err := os.WriteFile(filepath.Join(dir, "sprzedajemy.yaml"), []byte(site), 0644); err != nil {
		t.Fatalf("write site: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	cfg := &Config{Scraper: ScraperConfig{Workers: 4, FetchTimeout: 7 * time.Second}, Sites: make(map[string]*SiteConfig)}
	if err := cfg.LoadSites(dir); err != nil {
		t.Fatalf("LoadSites: %v", err)
	}
	if len(cfg.Sites) != 1 {
		t.Fatalf("expected 1 site, got %d", len(cfg.Sites))
	}

	s := cfg.Sites["sprzedajemy"]
	if s == nil {
		t.Fatal("site sprzedajemy not loaded")
	}
	if s.Handler != "sprzedajemy" || s.Fetcher != "http" {
		t.Errorf("defaults not applied: handler=%q fetcher=%q", s.Handler, s.Fetcher)
	}
	if s.ItemsPerPage != 60 || s.MaxPages != 3 || s.Workers != 4 {
		t.Errorf("paging: items=%d pages=%d workers=%d", s.ItemsPerPage, s.MaxPages, s.Workers)
	}
	if s.FetchTimeout != 7*time.Second {
		t.Errorf("fetch timeout = %v", s.FetchTimeout)
	}

	page := s.WebPage()
	if page.Name != "sprzedajemy.pl integration" || !page.Features.HomeSale || page.Features.HouseRental {
		t.Errorf("unexpected web page: %+v", page)
	}
}

func TestLoadSitesMissingDir(t *testing.T) {
	cfg := &Config{Sites: make(map[string]*SiteConfig)}
	if err := cfg.LoadSites(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Fatalf("missing dir should be ignored: %v", err)
	}
}

func TestLoadSitesRequiresID(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: nameless\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := &Config{Sites: make(map[string]*SiteConfig)}
	if err := cfg.LoadSites(dir); err == nil {
		t.Fatal("expected error for site without id")
	}
}

func TestEnvGetters(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FETCH_RPS", "0.5")
	t.Setenv("SCRAPE_WORKERS", "nope")

	if got := getEnvDuration("FETCH_TIMEOUT", time.Second); got != 5*time.Second {
		t.Errorf("duration = %v", got)
	}
	if got := getEnvFloat("FETCH_RPS", 2); got != 0.5 {
		t.Errorf("float = %v", got)
	}
	if got := getEnvInt("SCRAPE_WORKERS", 1); got != 1 {
		t.Errorf("bad int should fall back, got %d", got)
	}
}

func TestSiteRequestsPerSecond(t *testing.T) {
	s := &SiteConfig{RateLimitMS: 500}
	if got := s.RequestsPerSecond(10); got != 2 {
		t.Errorf("rps = %v, want 2", got)
	}
	s.RateLimitMS = 0
	if got := s.RequestsPerSecond(10); got != 10 {
		t.Errorf("fallback rps = %v", got)
	}
}
