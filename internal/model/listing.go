package model

import (
	"fmt"
	"strconv"
	"time"
)

// GroupUnknown is assigned when no structural group can be derived
// from the listing address.
const GroupUnknown = "Не определено"

// Columns is the fixed 15-column snapshot schema, in file order.
var Columns = []string{
	"id",
	"advert_id",
	"domain",
	"developer",
	"address",
	"gp",
	"description",
	"entrance_number",
	"floor",
	"area",
	"room_count",
	"flat_number",
	"price",
	"published_at",
	"actualized_at",
}

// RawListing is one untyped snapshot row: every field is the string
// exactly as it came from a CSV file or the scraper. The normalizer
// turns it into a Listing.
type RawListing struct {
	ID             string
	AdvertID       string
	Domain         string
	Developer      string
	Address        string
	GP             string
	Description    string
	EntranceNumber string
	Floor          string
	Area           string
	RoomCount      string
	FlatNumber     string
	Price          string
	PublishedAt    string
	ActualizedAt   string
}

// Listing is one typed apartment record of the working dataset.
type Listing struct {
	ID             string
	AdvertID       int64
	Domain         string
	Developer      string
	Address        string
	GP             string
	Description    string
	EntranceNumber int
	Floor          int
	Area           float64
	RoomCount      int
	FlatNumber     int
	Price          int64
	PublishedAt    time.Time
	ActualizedAt   time.Time
}

// RawFromRecord builds a RawListing from a CSV record in schema order.
func RawFromRecord(rec []string) (RawListing, error) {
	if len(rec) != len(Columns) {
		return RawListing{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(rec))
	}
	return RawListing{
		ID:             rec[0],
		AdvertID:       rec[1],
		Domain:         rec[2],
		Developer:      rec[3],
		Address:        rec[4],
		GP:             rec[5],
		Description:    rec[6],
		EntranceNumber: rec[7],
		Floor:          rec[8],
		Area:           rec[9],
		RoomCount:      rec[10],
		FlatNumber:     rec[11],
		Price:          rec[12],
		PublishedAt:    rec[13],
		ActualizedAt:   rec[14],
	}, nil
}

// Record returns the raw row as a CSV record in schema order.
func (r RawListing) Record() []string {
	return []string{
		r.ID,
		r.AdvertID,
		r.Domain,
		r.Developer,
		r.Address,
		r.GP,
		r.Description,
		r.EntranceNumber,
		r.Floor,
		r.Area,
		r.RoomCount,
		r.FlatNumber,
		r.Price,
		r.PublishedAt,
		r.ActualizedAt,
	}
}

// Record returns the typed listing as a CSV record in schema order.
// Timestamps are RFC 3339 UTC, area uses a decimal point.
func (l Listing) Record() []string {
	return []string{
		l.ID,
		strconv.FormatInt(l.AdvertID, 10),
		l.Domain,
		l.Developer,
		l.Address,
		l.GP,
		l.Description,
		strconv.Itoa(l.EntranceNumber),
		strconv.Itoa(l.Floor),
		strconv.FormatFloat(l.Area, 'f', -1, 64),
		strconv.Itoa(l.RoomCount),
		strconv.Itoa(l.FlatNumber),
		strconv.FormatInt(l.Price, 10),
		l.PublishedAt.UTC().Format(time.RFC3339Nano),
		l.ActualizedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Raw converts a typed listing back to its string form. Re-normalizing
// the result yields an identical Listing.
func (l Listing) Raw() RawListing {
	raw, _ := RawFromRecord(l.Record())
	return raw
}
