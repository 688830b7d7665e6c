// Package feature buckets listing dimensions into labeled ranges for
// old-vs-new comparison and summarizes monthly activity.
package feature

import (
	"fmt"
	"sort"

	"tdsk-analytics/internal/model"
)

// Bins is a fixed layout of left-closed ranges. Bin i spans
// [Edges[i], Edges[i+1]); the last bin is open-ended, so Edges and Labels
// have the same length.
type Bins struct {
	Edges  []float64
	Labels []string
}

// Label maps a value to its bin label. Values at or past the last edge land
// in the final open-ended bin. A value below the first edge is an input
// error: negatives are rejected by normalization and must not reach here.
func (b Bins) Label(v float64) (string, error) {
	if len(b.Edges) == 0 || len(b.Edges) != len(b.Labels) {
		return "", fmt.Errorf("invalid bin layout: %d edges, %d labels", len(b.Edges), len(b.Labels))
	}
	if v < b.Edges[0] {
		return "", fmt.Errorf("value %v below first bin edge %v", v, b.Edges[0])
	}
	for i := 0; i < len(b.Edges)-1; i++ {
		if v >= b.Edges[i] && v < b.Edges[i+1] {
			return b.Labels[i], nil
		}
	}
	return b.Labels[len(b.Labels)-1], nil
}

// ComparisonRow is one labeled bucket with counts from both datasets.
type ComparisonRow struct {
	Label    string
	OldCount int
	NewCount int
}

func compare(oldVals, newVals []float64, bins Bins) ([]ComparisonRow, error) {
	oldCounts := make(map[string]int)
	newCounts := make(map[string]int)

	for _, v := range oldVals {
		label, err := bins.Label(v)
		if err != nil {
			return nil, err
		}
		oldCounts[label]++
	}
	for _, v := range newVals {
		label, err := bins.Label(v)
		if err != nil {
			return nil, err
		}
		newCounts[label]++
	}

	// Rows follow bin-label order; labels absent from both datasets are
	// dropped, zero-filled where only one side has occurrences.
	var rows []ComparisonRow
	for _, label := range bins.Labels {
		o, n := oldCounts[label], newCounts[label]
		if o == 0 && n == 0 {
			continue
		}
		rows = append(rows, ComparisonRow{Label: label, OldCount: o, NewCount: n})
	}
	return rows, nil
}

// CompareAreas buckets floor areas of both datasets into the given bins.
func CompareAreas(old, new []model.Listing, bins Bins) ([]ComparisonRow, error) {
	return compare(areas(old), areas(new), bins)
}

// ComparePrices buckets prices of both datasets into the given bins.
func ComparePrices(old, new []model.Listing, bins Bins) ([]ComparisonRow, error) {
	return compare(prices(old), prices(new), bins)
}

func areas(listings []model.Listing) []float64 {
	vals := make([]float64, len(listings))
	for i, l := range listings {
		vals[i] = l.Area
	}
	return vals
}

func prices(listings []model.Listing) []float64 {
	vals := make([]float64, len(listings))
	for i, l := range listings {
		vals[i] = float64(l.Price)
	}
	return vals
}

// RoomLabel renders a room count as the dataset's category label.
func RoomLabel(rooms int) string {
	return fmt.Sprintf("%d-комн.", rooms)
}

// CompareRooms counts listings of both datasets by exact room count,
// ascending, zero-filled where only one dataset has a category.
func CompareRooms(old, new []model.Listing) []ComparisonRow {
	oldCounts := make(map[int]int)
	newCounts := make(map[int]int)
	for _, l := range old {
		oldCounts[l.RoomCount]++
	}
	for _, l := range new {
		newCounts[l.RoomCount]++
	}

	roomSet := make(map[int]bool)
	for r := range oldCounts {
		roomSet[r] = true
	}
	for r := range newCounts {
		roomSet[r] = true
	}
	rooms := make([]int, 0, len(roomSet))
	for r := range roomSet {
		rooms = append(rooms, r)
	}
	sort.Ints(rooms)

	rows := make([]ComparisonRow, 0, len(rooms))
	for _, r := range rooms {
		rows = append(rows, ComparisonRow{
			Label:    RoomLabel(r),
			OldCount: oldCounts[r],
			NewCount: newCounts[r],
		})
	}
	return rows
}

// MonthlyMatrix is a month-by-room-category count table. Counts is indexed
// [month][room] following the Months and Rooms orders; cells without data
// are zero.
type MonthlyMatrix struct {
	Months []string // "2006-01" keys, ascending, only months with data
	Rooms  []string // room labels present in the data, ascending
	Counts [][]int
}

// MonthlyActivity groups listings by calendar month of actualized_at and
// room-count category. Months without any data are not synthesized.
func MonthlyActivity(listings []model.Listing) MonthlyMatrix {
	type key struct {
		month string
		rooms int
	}

	counts := make(map[key]int)
	monthSet := make(map[string]bool)
	roomSet := make(map[int]bool)

	for _, l := range listings {
		month := l.ActualizedAt.UTC().Format("2006-01")
		counts[key{month, l.RoomCount}]++
		monthSet[month] = true
		roomSet[l.RoomCount] = true
	}

	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	rooms := make([]int, 0, len(roomSet))
	for r := range roomSet {
		rooms = append(rooms, r)
	}
	sort.Ints(rooms)

	matrix := MonthlyMatrix{Months: months}
	for _, r := range rooms {
		matrix.Rooms = append(matrix.Rooms, RoomLabel(r))
	}
	for _, m := range months {
		row := make([]int, len(rooms))
		for i, r := range rooms {
			row[i] = counts[key{m, r}]
		}
		matrix.Counts = append(matrix.Counts, row)
	}
	return matrix
}
