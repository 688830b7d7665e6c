// Package config holds the explicit application configuration. There is no
// ambient global: the value built here is handed to each component at
// construction time.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes paths, the analysis window, bin layouts and the
// scraper target for one run.
type Config struct {
	// RawDataPath points at the historical snapshot CSV (tab-separated).
	RawDataPath     string `yaml:"raw_data_path"`
	ParsedDataDir   string `yaml:"parsed_data_dir"`
	PreparedDataDir string `yaml:"prepared_data_dir"`
	MergedDataDir   string `yaml:"merged_data_dir"`
	TablesDir       string `yaml:"tables_dir"`
	PlotsDir        string `yaml:"plots_dir"`
	LogDir          string `yaml:"log_dir"`

	// RawSeparator is the delimiter of the historical snapshot. Newer
	// files are always comma-separated. The loader never auto-detects.
	RawSeparator string `yaml:"raw_separator"`

	ScraperURL string `yaml:"scraper_url"`
	UserAgent  string `yaml:"user_agent"`

	// Analysis window, inclusive, YYYY-MM-DD.
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`

	// Bin layouts for the comparison tables. Edges are left-closed, the
	// last bin is open-ended, so len(edges) == len(labels).
	AreaEdges   []float64 `yaml:"area_edges"`
	AreaLabels  []string  `yaml:"area_labels"`
	PriceEdges  []float64 `yaml:"price_edges"`
	PriceLabels []string  `yaml:"price_labels"`
}

// Default returns the configuration the original dataset was collected with.
func Default() Config {
	return Config{
		RawDataPath:     "data/raw/Экспозиция ТДСК с 01.07.2023 по 31.12.2023.csv",
		ParsedDataDir:   "data/parsed_data",
		PreparedDataDir: "data/prepared_data",
		MergedDataDir:   "data/merged_data",
		TablesDir:       "output/tables",
		PlotsDir:        "output/plots",
		LogDir:          "logs",

		RawSeparator: "\t",

		ScraperURL: "https://www.t-dsk.ru/buildings/search-apartments/?objects=all",
		UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",

		StartDate: "2023-07-01",
		EndDate:   "2023-12-31",

		AreaEdges:  []float64{0, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		AreaLabels: []string{"<20", "20-30", "30-40", "40-50", "50-60", "60-70", "70-80", "80-90", "90-100", ">100"},

		PriceEdges:  []float64{0, 4e6, 5e6, 6e6, 7e6, 8e6},
		PriceLabels: []string{"<4млн", "4-5млн", "5-6млн", "6-7млн", "7-8млн", ">8млн"},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("TDSK_SCRAPER_URL"); v != "" {
		cfg.ScraperURL = v
	}
	if v := os.Getenv("TDSK_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("TDSK_RAW_DATA_PATH"); v != "" {
		cfg.RawDataPath = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks internal consistency before any work begins.
func (c Config) Validate() error {
	if len(c.AreaEdges) != len(c.AreaLabels) {
		return fmt.Errorf("config: %d area edges vs %d labels", len(c.AreaEdges), len(c.AreaLabels))
	}
	if len(c.PriceEdges) != len(c.PriceLabels) {
		return fmt.Errorf("config: %d price edges vs %d labels", len(c.PriceEdges), len(c.PriceLabels))
	}
	if c.RawSeparator != "\t" && c.RawSeparator != "," {
		return fmt.Errorf("config: unsupported raw separator %q", c.RawSeparator)
	}
	if _, _, err := c.Window(); err != nil {
		return err
	}
	return nil
}

// RawSep returns the historical snapshot delimiter as a rune.
func (c Config) RawSep() rune {
	return []rune(c.RawSeparator)[0]
}

// Window returns the inclusive analysis range as UTC timestamps.
func (c Config) Window() (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", c.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("config: bad start_date %q: %w", c.StartDate, err)
	}
	end, err := time.ParseInLocation("2006-01-02", c.EndDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("config: bad end_date %q: %w", c.EndDate, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("config: end_date %s before start_date %s", c.EndDate, c.StartDate)
	}
	return start, end, nil
}
