package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestWindow(t *testing.T) {
	cfg := Default()
	start, end, err := cfg.Window()
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if !start.Equal(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestRawSepDefaultsToTab(t *testing.T) {
	if sep := Default().RawSep(); sep != '\t' {
		t.Errorf("sep = %q, want tab", sep)
	}
}

func TestValidateRejectsMismatchedBins(t *testing.T) {
	cfg := Default()
	cfg.AreaLabels = cfg.AreaLabels[:3]
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for mismatched area bins")
	}
}

func TestValidateRejectsReversedWindow(t *testing.T) {
	cfg := Default()
	cfg.StartDate, cfg.EndDate = cfg.EndDate, cfg.StartDate
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for reversed window")
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("scraper_url: http://example.test/search\nstart_date: \"2024-01-01\"\nend_date: \"2024-06-30\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScraperURL != "http://example.test/search" {
		t.Errorf("scraper_url = %q", cfg.ScraperURL)
	}
	if cfg.StartDate != "2024-01-01" {
		t.Errorf("start_date = %q", cfg.StartDate)
	}
	// Untouched keys keep their defaults.
	if cfg.RawSeparator != "\t" {
		t.Errorf("raw_separator = %q, want tab", cfg.RawSeparator)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TDSK_SCRAPER_URL", "http://override.test/")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScraperURL != "http://override.test/" {
		t.Errorf("scraper_url = %q", cfg.ScraperURL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
