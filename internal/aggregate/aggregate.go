// Package aggregate reconciles dataset snapshots and builds the activity
// pivot over the analysis window.
package aggregate

import (
	"sort"
	"time"

	"tdsk-analytics/internal/model"
)

// Reconcile merges a historical snapshot with a freshly scraped one by
// advert_id. Rows of old that reappear in new get their actualized_at
// refreshed from new (every other field of the old row is kept); rows of
// new with an unseen advert_id are appended in scrape order. Nothing is
// ever deleted, so len(result) == len(old) + count of genuinely new ids.
func Reconcile(old, new []model.Listing) []model.Listing {
	actualized := make(map[int64]time.Time, len(new))
	for _, l := range new {
		actualized[l.AdvertID] = l.ActualizedAt
	}

	merged := make([]model.Listing, 0, len(old)+len(new))
	seen := make(map[int64]bool, len(old))

	for _, l := range old {
		if ts, ok := actualized[l.AdvertID]; ok {
			l.ActualizedAt = ts
		}
		seen[l.AdvertID] = true
		merged = append(merged, l)
	}

	for _, l := range new {
		if !seen[l.AdvertID] {
			merged = append(merged, l)
		}
	}

	return merged
}

// DateRange returns every calendar day from start through end inclusive,
// midnight UTC.
func DateRange(start, end time.Time) []time.Time {
	start = start.UTC().Truncate(24 * time.Hour)
	end = end.UTC().Truncate(24 * time.Hour)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ActivityRow is one cell of the sparse activity pivot.
type ActivityRow struct {
	Date  time.Time
	Group string
	Count int
}

// ActiveObjectsPivot counts, per calendar day and structural group, the
// listings whose actualized_at falls on that day of that month. The match
// deliberately ignores the year: a listing actualized on 2022-08-15 counts
// on every August 15 in the range. Days and groups without matches produce
// no row. Output is sorted by (date, group) ascending.
func ActiveObjectsPivot(listings []model.Listing, days []time.Time) []ActivityRow {
	type key struct {
		day   time.Time
		group string
	}

	counts := make(map[key]int)
	for _, day := range days {
		for _, l := range listings {
			ts := l.ActualizedAt.UTC()
			if ts.Month() == day.Month() && ts.Day() == day.Day() {
				counts[key{day, l.GP}]++
			}
		}
	}

	rows := make([]ActivityRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, ActivityRow{Date: k.day, Group: k.group, Count: n})
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].Group < rows[j].Group
	})

	return rows
}
