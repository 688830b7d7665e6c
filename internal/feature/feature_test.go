package feature

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tdsk-analytics/internal/model"
)

var areaBins = Bins{
	Edges:  []float64{0, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	Labels: []string{"<20", "20-30", "30-40", "40-50", "50-60", "60-70", "70-80", "80-90", "90-100", ">100"},
}

var priceBins = Bins{
	Edges:  []float64{0, 4e6, 5e6, 6e6, 7e6, 8e6},
	Labels: []string{"<4млн", "4-5млн", "5-6млн", "6-7млн", "7-8млн", ">8млн"},
}

func TestBinsLabel(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "<20"},
		{19.99, "<20"},
		{20, "20-30"}, // boundary belongs to the bin it opens
		{99.9, "90-100"},
		{100, ">100"},
		{254.3, ">100"},
	}

	for _, tt := range tests {
		got, err := areaBins.Label(tt.v)
		if err != nil {
			t.Errorf("Label(%v): %v", tt.v, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestBinsLabelBelowFirstEdge(t *testing.T) {
	if _, err := areaBins.Label(-1); err == nil {
		t.Fatal("expected error for value below the first edge")
	}
}

func withAreas(vals ...float64) []model.Listing {
	listings := make([]model.Listing, len(vals))
	for i, v := range vals {
		listings[i] = model.Listing{Area: v}
	}
	return listings
}

func TestCompareAreas(t *testing.T) {
	old := withAreas(18, 25, 42, 42.5)
	new := withAreas(25, 110)

	rows, err := CompareAreas(old, new, areaBins)
	if err != nil {
		t.Fatalf("CompareAreas: %v", err)
	}

	want := []ComparisonRow{
		{Label: "<20", OldCount: 1, NewCount: 0},
		{Label: "20-30", OldCount: 1, NewCount: 1},
		{Label: "40-50", OldCount: 2, NewCount: 0},
		{Label: ">100", OldCount: 0, NewCount: 1},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareCoverageLaw(t *testing.T) {
	old := withAreas(5, 20, 20, 35, 47, 63, 99.99, 100, 500)
	new := withAreas(12, 60, 71, 88)

	rows, err := CompareAreas(old, new, areaBins)
	if err != nil {
		t.Fatalf("CompareAreas: %v", err)
	}

	total := 0
	for _, r := range rows {
		total += r.OldCount + r.NewCount
	}
	if want := len(old) + len(new); total != want {
		t.Errorf("sum of counts = %d, want %d", total, want)
	}
}

func TestComparePrices(t *testing.T) {
	old := []model.Listing{{Price: 3_900_000}, {Price: 4_000_000}, {Price: 6_500_000}}
	new := []model.Listing{{Price: 9_200_000}}

	rows, err := ComparePrices(old, new, priceBins)
	if err != nil {
		t.Fatalf("ComparePrices: %v", err)
	}

	want := []ComparisonRow{
		{Label: "<4млн", OldCount: 1, NewCount: 0},
		{Label: "4-5млн", OldCount: 1, NewCount: 0},
		{Label: "6-7млн", OldCount: 1, NewCount: 0},
		{Label: ">8млн", OldCount: 0, NewCount: 1},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareRooms(t *testing.T) {
	old := []model.Listing{{RoomCount: 1}, {RoomCount: 2}, {RoomCount: 2}}
	new := []model.Listing{{RoomCount: 2}, {RoomCount: 3}}

	rows := CompareRooms(old, new)

	want := []ComparisonRow{
		{Label: "1-комн.", OldCount: 1, NewCount: 0},
		{Label: "2-комн.", OldCount: 2, NewCount: 1},
		{Label: "3-комн.", OldCount: 0, NewCount: 1},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestMonthlyActivity(t *testing.T) {
	listings := []model.Listing{
		{RoomCount: 1, ActualizedAt: at(2023, 7, 10)},
		{RoomCount: 2, ActualizedAt: at(2023, 7, 11)},
		{RoomCount: 2, ActualizedAt: at(2023, 9, 1)},
	}

	m := MonthlyActivity(listings)

	want := MonthlyMatrix{
		Months: []string{"2023-07", "2023-09"}, // no synthesized August
		Rooms:  []string{"1-комн.", "2-комн."},
		Counts: [][]int{
			{1, 1},
			{0, 1},
		},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestMonthlyActivityEmpty(t *testing.T) {
	m := MonthlyActivity(nil)
	if len(m.Months) != 0 || len(m.Rooms) != 0 || len(m.Counts) != 0 {
		t.Errorf("expected empty matrix, got %+v", m)
	}
}
