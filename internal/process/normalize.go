// Package process casts raw snapshot rows into typed listings.
package process

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tdsk-analytics/internal/model"
)

var (
	gpPattern    = regexp.MustCompile(`ГП-\d+(?:\.\d+)?`)
	housePattern = regexp.MustCompile(`д\.?\s*(\d+[а-я]?)`)
)

// ExtractGroup derives a structural group from a free-text address.
// A literal building code wins; otherwise the house number is turned into a
// synthesized label. Returns "" when neither pattern matches.
func ExtractGroup(address string) string {
	if m := gpPattern.FindString(address); m != "" {
		return m
	}
	if m := housePattern.FindStringSubmatch(address); m != nil {
		return "Дом " + m[1]
	}
	return ""
}

// timeFormats are tried in order. Snapshot files carry RFC 3339 stamps,
// older exports use space-separated or date-only forms.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse time %q", s)
}

// parseArea tolerates a decimal comma ("42,7").
func parseArea(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse area %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative area %q", s)
	}
	return v, nil
}

// parsePrice tolerates space and NBSP thousands separators ("4 250 000").
func parsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse price %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %q", s)
	}
	return v, nil
}

func parseSmallInt(field, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s %q", field, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative %s %q", field, s)
	}
	return v, nil
}

// Normalize turns raw rows into typed listings: it fills a missing
// structural group from the address, then casts date columns, then numeric
// columns. The whole batch fails on the first bad row. No partial rows are
// skipped, and already-normalized input passes through unchanged.
func Normalize(raws []model.RawListing) ([]model.Listing, error) {
	listings := make([]model.Listing, 0, len(raws))

	for i, raw := range raws {
		l, err := normalizeRow(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d (advert_id=%s): %w", i, raw.AdvertID, err)
		}
		listings = append(listings, l)
	}

	return listings, nil
}

func normalizeRow(raw model.RawListing) (model.Listing, error) {
	gp := raw.GP
	if gp == "" {
		gp = ExtractGroup(raw.Address)
	}
	if gp == "" {
		gp = model.GroupUnknown
	}

	publishedAt, err := parseTime(raw.PublishedAt)
	if err != nil {
		return model.Listing{}, fmt.Errorf("published_at: %w", err)
	}
	actualizedAt, err := parseTime(raw.ActualizedAt)
	if err != nil {
		return model.Listing{}, fmt.Errorf("actualized_at: %w", err)
	}

	advertID, err := strconv.ParseInt(strings.TrimSpace(raw.AdvertID), 10, 64)
	if err != nil {
		return model.Listing{}, fmt.Errorf("unable to parse advert_id %q", raw.AdvertID)
	}
	entrance, err := parseSmallInt("entrance_number", raw.EntranceNumber)
	if err != nil {
		return model.Listing{}, err
	}
	floor, err := parseSmallInt("floor", raw.Floor)
	if err != nil {
		return model.Listing{}, err
	}
	rooms, err := parseSmallInt("room_count", raw.RoomCount)
	if err != nil {
		return model.Listing{}, err
	}
	flat, err := parseSmallInt("flat_number", raw.FlatNumber)
	if err != nil {
		return model.Listing{}, err
	}
	area, err := parseArea(raw.Area)
	if err != nil {
		return model.Listing{}, err
	}
	price, err := parsePrice(raw.Price)
	if err != nil {
		return model.Listing{}, err
	}

	return model.Listing{
		ID:             raw.ID,
		AdvertID:       advertID,
		Domain:         raw.Domain,
		Developer:      raw.Developer,
		Address:        raw.Address,
		GP:             gp,
		Description:    raw.Description,
		EntranceNumber: entrance,
		Floor:          floor,
		Area:           area,
		RoomCount:      rooms,
		FlatNumber:     flat,
		Price:          price,
		PublishedAt:    publishedAt,
		ActualizedAt:   actualizedAt,
	}, nil
}
