package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"tdsk-analytics/internal/chart"
	"tdsk-analytics/internal/config"
	"tdsk-analytics/internal/logging"
	"tdsk-analytics/internal/pipeline"
	"tdsk-analytics/internal/scrape"
	"tdsk-analytics/internal/storage"
)

const usage = `usage: analytics [flags] <command>

commands:
  strategy <main|parse>  run the selected scenario
  clean                  remove files from the logs directory

flags:
  -config path     YAML config file
  -quiet           log errors only
  -verbose         log per-file detail
  -silent          suppress all logging
  -without-logs    log to console only, skip the log file
`

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	quiet := flag.Bool("quiet", false, "log errors only")
	verbose := flag.Bool("verbose", false, "log per-file detail")
	silent := flag.Bool("silent", false, "suppress all logging")
	withoutLogs := flag.Bool("without-logs", false, "do not write a log file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	level, err := logLevel(*quiet, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	logging.SetLevel(level)

	if err := run(*configPath, *silent, *withoutLogs, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// logLevel maps the quiet/verbose pair to a log level. The two flags
// are mutually exclusive.
func logLevel(quiet, verbose bool) (logging.Level, error) {
	switch {
	case quiet && verbose:
		return 0, fmt.Errorf("-quiet and -verbose are mutually exclusive")
	case quiet:
		return logging.LevelQuiet, nil
	case verbose:
		return logging.LevelDebug, nil
	default:
		return logging.LevelInfo, nil
	}
}

func run(configPath string, silent, withoutLogs bool, args []string) error {
	// A .env file is optional; missing is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg.LogDir, silent, withoutLogs)
	if err != nil {
		return err
	}
	defer closeLog()

	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("command required")
	}

	switch args[0] {
	case "strategy":
		if len(args) < 2 {
			return fmt.Errorf("strategy name required (main or parse)")
		}
		deps := pipeline.Deps{
			Config:  cfg,
			Scraper: scrape.New(cfg.ScraperURL, cfg.UserAgent),
			Repo:    storage.CSVRepository{},
			Charts:  chart.Renderer{Dir: cfg.PlotsDir},
			Out:     os.Stdout,
		}
		return pipeline.Run(context.Background(), deps, args[1])

	case "clean":
		return cleanDir(cfg.LogDir)

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// setupLogging directs the standard logger to the console and, unless
// disabled, to a timestamped file in the logs directory.
func setupLogging(logDir string, silent, withoutLogs bool) (func(), error) {
	noop := func() {}

	if silent {
		log.SetOutput(io.Discard)
		return noop, nil
	}

	writers := []io.Writer{os.Stderr}

	if !withoutLogs {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir %s: %w", logDir, err)
		}
		name := "analytics_" + time.Now().UTC().Format("20060102_150405") + ".log"
		f, err := os.Create(filepath.Join(logDir, name))
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		writers = append(writers, f)
		log.SetOutput(io.MultiWriter(writers...))
		return func() { f.Close() }, nil
	}

	log.SetOutput(io.MultiWriter(writers...))
	return noop, nil
}

// cleanDir removes regular files from dir, keeping the directory itself.
func cleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	logging.Infof("cleaned %s", dir)
	return nil
}
