// Package chart draws comparison and activity charts as PNG files.
package chart

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"tdsk-analytics/internal/feature"
)

// Renderer writes charts into a fixed plots directory.
type Renderer struct {
	Dir string
}

// SaveComparison draws a grouped bar chart of old vs new counts and saves
// it as <name>.png, with the usual optional timestamp suffix.
func (r Renderer) SaveComparison(rows []feature.ComparisonRow, title, xLabel, name string, stamp bool) (string, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Количество объектов"

	oldVals := make(plotter.Values, len(rows))
	newVals := make(plotter.Values, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		oldVals[i] = float64(row.OldCount)
		newVals[i] = float64(row.NewCount)
		labels[i] = row.Label
	}

	w := vg.Points(16)

	oldBars, err := plotter.NewBarChart(oldVals, w)
	if err != nil {
		return "", fmt.Errorf("chart %s: %w", name, err)
	}
	oldBars.Color = plotutil.Color(0)
	oldBars.Offset = -w / 2

	newBars, err := plotter.NewBarChart(newVals, w)
	if err != nil {
		return "", fmt.Errorf("chart %s: %w", name, err)
	}
	newBars.Color = plotutil.Color(1)
	newBars.Offset = w / 2

	p.Add(oldBars, newBars)
	p.Legend.Add("Старая выборка", oldBars)
	p.Legend.Add("Новая выборка", newBars)
	p.Legend.Top = true
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.8

	return r.save(p, name, stamp)
}

// SaveMonthly draws the monthly activity matrix as one line per room
// category over the months axis.
func (r Renderer) SaveMonthly(m feature.MonthlyMatrix, name string, stamp bool) (string, error) {
	p := plot.New()
	p.Title.Text = "Месячное количество активных объектов по комнатности"
	p.X.Label.Text = "Месяц"
	p.Y.Label.Text = "Количество объектов"

	for j, room := range m.Rooms {
		pts := make(plotter.XYs, len(m.Months))
		for i := range m.Months {
			pts[i] = plotter.XY{X: float64(i), Y: float64(m.Counts[i][j])}
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return "", fmt.Errorf("chart %s: %w", name, err)
		}
		line.Color = plotutil.Color(j)
		points.Color = plotutil.Color(j)
		p.Add(line, points)
		p.Legend.Add(room, line, points)
	}

	p.Legend.Top = true
	p.NominalX(m.Months...)

	return r.save(p, name, stamp)
}

func (r Renderer) save(p *plot.Plot, name string, stamp bool) (string, error) {
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return "", fmt.Errorf("create dir %s: %w", r.Dir, err)
	}

	file := name + ".png"
	if stamp {
		file = name + "_" + time.Now().UTC().Format("2006-01-02_15-04-05.000000") + ".png"
	}
	path := filepath.Join(r.Dir, file)

	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		log.Printf("[chart] save %s: %v", path, err)
		return "", err
	}
	log.Printf("[chart] saved %s", path)
	return path, nil
}
