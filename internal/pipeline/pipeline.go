// Package pipeline wires the components into runnable strategies.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"tdsk-analytics/internal/aggregate"
	"tdsk-analytics/internal/config"
	"tdsk-analytics/internal/feature"
	"tdsk-analytics/internal/logging"
	"tdsk-analytics/internal/model"
	"tdsk-analytics/internal/process"
	"tdsk-analytics/internal/report"
	"tdsk-analytics/internal/storage"
)

// ErrUnknownStrategy is returned before any work begins when the requested
// strategy name is not registered.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Scraper yields raw listing rows from the developer site.
type Scraper interface {
	ScrapeAll(ctx context.Context) ([]model.RawListing, error)
}

// Charts saves rendered charts to the plots directory.
type Charts interface {
	SaveComparison(rows []feature.ComparisonRow, title, xLabel, name string, stamp bool) (string, error)
	SaveMonthly(m feature.MonthlyMatrix, name string, stamp bool) (string, error)
}

// Deps are the explicitly constructed collaborators of a run. They are
// validated once at startup, not looked up per call.
type Deps struct {
	Config  config.Config
	Scraper Scraper
	Repo    storage.CSVRepository
	Charts  Charts

	// Out receives console tables; nil disables console rendering.
	Out io.Writer
}

// Validate checks the dependency set before a strategy starts.
func (d Deps) Validate() error {
	if d.Scraper == nil {
		return errors.New("pipeline: scraper is not configured")
	}
	if d.Charts == nil {
		return errors.New("pipeline: chart renderer is not configured")
	}
	return d.Config.Validate()
}

// Run executes the named strategy. "main" does the full analysis flow,
// "parse" only scrapes and persists a fresh snapshot.
func Run(ctx context.Context, d Deps, strategy string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	start := time.Now()
	logging.Infof("[pipeline] strategy %q: start", strategy)

	var err error
	switch strategy {
	case "main":
		err = runMain(ctx, d)
	case "parse":
		_, err = runParse(ctx, d)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	if err != nil {
		logging.Errorf("[pipeline] strategy %q: failed after %s: %v", strategy, time.Since(start).Round(time.Second), err)
		return err
	}
	logging.Infof("[pipeline] strategy %q: done in %s", strategy, time.Since(start).Round(time.Second))
	return nil
}

// step logs start, success with duration, and failure before re-raising.
func step(name string, fn func() error) error {
	logging.Infof("[pipeline] %s: start", name)
	start := time.Now()
	if err := fn(); err != nil {
		logging.Errorf("[pipeline] %s: failed after %s: %v", name, time.Since(start).Round(time.Millisecond), err)
		return fmt.Errorf("%s: %w", name, err)
	}
	logging.Infof("[pipeline] %s: done in %s", name, time.Since(start).Round(time.Millisecond))
	return nil
}

func runMain(ctx context.Context, d Deps) error {
	var prepared []model.Listing
	if err := step("prepare old data", func() error {
		raws, err := d.Repo.Load(d.Config.RawDataPath, d.Config.RawSep())
		if err != nil {
			return err
		}
		prepared, err = process.Normalize(raws)
		if err != nil {
			return err
		}
		_, err = d.Repo.SaveListings(prepared, d.Config.PreparedDataDir, "prepared_data", false)
		return err
	}); err != nil {
		return err
	}

	if err := step("activity pivot", func() error {
		start, end, err := d.Config.Window()
		if err != nil {
			return err
		}
		pivot := aggregate.ActiveObjectsPivot(prepared, aggregate.DateRange(start, end))
		if d.Out != nil {
			report.Activity(d.Out, pivot)
		}
		records := make([][]string, 0, len(pivot))
		for _, row := range pivot {
			records = append(records, []string{row.Date.Format("02.01.2006"), row.Group, strconv.Itoa(row.Count)})
		}
		_, err = d.Repo.SaveTable(
			[]string{"Дата", "Корпус", "Кол-во активных квартир"},
			records, d.Config.TablesDir, "pivot_table", false)
		return err
	}); err != nil {
		return err
	}

	if err := step("monthly activity", func() error {
		m := feature.MonthlyActivity(prepared)
		if d.Out != nil {
			report.Monthly(d.Out, m)
		}
		_, err := d.Charts.SaveMonthly(m, "plot_monthly_activity", false)
		return err
	}); err != nil {
		return err
	}

	parsed, err := runParse(ctx, d)
	if err != nil {
		return err
	}

	if err := step("reconcile snapshots", func() error {
		merged := aggregate.Reconcile(prepared, parsed)
		_, err := d.Repo.SaveListings(merged, d.Config.MergedDataDir, "merged_data", true)
		return err
	}); err != nil {
		return err
	}

	return d.compare(prepared, parsed)
}

// runParse scrapes the developer site, normalizes the result and persists
// it as a timestamped snapshot.
func runParse(ctx context.Context, d Deps) ([]model.Listing, error) {
	var parsed []model.Listing
	err := step("scrape developer site", func() error {
		raws, err := d.Scraper.ScrapeAll(ctx)
		if err != nil {
			return err
		}
		parsed, err = process.Normalize(raws)
		if err != nil {
			return err
		}
		_, err = d.Repo.SaveListings(parsed, d.Config.ParsedDataDir, "parsed_data", true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

// compare produces the three old-vs-new comparison tables and charts.
func (d Deps) compare(prepared, parsed []model.Listing) error {
	comparisons := []struct {
		stepName string
		valueCol string
		title    string
		xLabel   string
		artifact string
		build    func() ([]feature.ComparisonRow, error)
	}{
		{
			stepName: "room comparison",
			valueCol: "room_type",
			title:    "Сравнение комнатности между выборками",
			xLabel:   "Количество комнат",
			artifact: "room_comparison",
			build: func() ([]feature.ComparisonRow, error) {
				return feature.CompareRooms(prepared, parsed), nil
			},
		},
		{
			stepName: "area comparison",
			valueCol: "area_range",
			title:    "Сравнение распределения площадей между выборками",
			xLabel:   "Диапазон площади (м²)",
			artifact: "area_comparison",
			build: func() ([]feature.ComparisonRow, error) {
				bins := feature.Bins{Edges: d.Config.AreaEdges, Labels: d.Config.AreaLabels}
				return feature.CompareAreas(prepared, parsed, bins)
			},
		},
		{
			stepName: "price comparison",
			valueCol: "price_range",
			title:    "Сравнение распределения цен между выборками",
			xLabel:   "Диапазон цены (млн руб)",
			artifact: "price_comparison",
			build: func() ([]feature.ComparisonRow, error) {
				bins := feature.Bins{Edges: d.Config.PriceEdges, Labels: d.Config.PriceLabels}
				return feature.ComparePrices(prepared, parsed, bins)
			},
		},
	}

	for _, c := range comparisons {
		if err := step(c.stepName, func() error {
			rows, err := c.build()
			if err != nil {
				return err
			}
			if d.Out != nil {
				report.Comparison(d.Out, c.title, c.xLabel, rows)
			}
			records := make([][]string, 0, len(rows))
			for _, row := range rows {
				records = append(records, []string{row.Label, strconv.Itoa(row.OldCount), strconv.Itoa(row.NewCount)})
			}
			if _, err := d.Repo.SaveTable(
				[]string{c.valueCol, "old_count", "new_count"},
				records, d.Config.TablesDir, c.artifact, true); err != nil {
				return err
			}
			_, err = d.Charts.SaveComparison(rows, c.title, c.xLabel, c.artifact+"_plot", true)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}
