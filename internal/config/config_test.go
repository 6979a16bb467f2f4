package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sources.Capital.BaseURL != "https://api.cryptorank.io/v1" {
		t.Errorf("capital baseUrl = %q, want default", cfg.Sources.Capital.BaseURL)
	}
	if cfg.Sources.Timeout() != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", cfg.Sources.Timeout())
	}
	if cfg.Discovery.CrawlDepth != 1 || cfg.Discovery.MaxSublinks != 2 {
		t.Errorf("crawl bounds = (%d,%d), want (1,2)", cfg.Discovery.CrawlDepth, cfg.Discovery.MaxSublinks)
	}
	if cfg.Discovery.MinTermLength != 3 {
		t.Errorf("minTermLength = %d, want 3", cfg.Discovery.MinTermLength)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".fundflow")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	yaml := `
sources:
  capital:
    baseUrl: http://localhost:9999/v1
    apiKey: test-key
  timeoutMs: 2500
discovery:
  searchDelayMs: 5
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sources.Capital.BaseURL != "http://localhost:9999/v1" {
		t.Errorf("capital baseUrl = %q", cfg.Sources.Capital.BaseURL)
	}
	if cfg.Sources.Capital.APIKey != "test-key" {
		t.Errorf("capital apiKey = %q", cfg.Sources.Capital.APIKey)
	}
	if cfg.Sources.Timeout() != 2500*time.Millisecond {
		t.Errorf("timeout = %v, want 2.5s", cfg.Sources.Timeout())
	}
	if cfg.Discovery.SearchDelay() != 5*time.Millisecond {
		t.Errorf("search delay = %v, want 5ms", cfg.Discovery.SearchDelay())
	}
	// Unset keys keep their defaults.
	if cfg.Sources.Usage.BaseURL != "https://api.llama.fi" {
		t.Errorf("usage baseUrl lost its default: %q", cfg.Sources.Usage.BaseURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
	}
}

func TestDBPath(t *testing.T) {
	cfg := Default()
	got := cfg.DBPath("/repo")
	want := filepath.Join("/repo", ".fundflow", "fundflow.db")
	if got != want {
		t.Errorf("DBPath = %q, want %q", got, want)
	}
}
