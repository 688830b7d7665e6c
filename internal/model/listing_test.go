package model

import (
	"testing"
	"time"
)

func TestRecordKeepsSubSecondStamps(t *testing.T) {
	l := Listing{
		ID:           "a1",
		AdvertID:     320298,
		Domain:       "t-dsk.ru",
		Developer:    "ТДСК",
		Address:      "ул. Петра Ершова, д. 9, ГП-7.4",
		GP:           "ГП-7.4",
		Description:  "2-комнатная квартира",
		Floor:        3,
		Area:         42.7,
		RoomCount:    2,
		FlatNumber:   15,
		Price:        5250000,
		PublishedAt:  time.Date(2023, 8, 1, 10, 30, 0, 123456000, time.UTC),
		ActualizedAt: time.Date(2023, 9, 1, 12, 0, 0, 987654000, time.UTC),
	}

	rec := l.Record()
	if got, want := rec[13], "2023-08-01T10:30:00.123456Z"; got != want {
		t.Errorf("published_at = %q, want %q", got, want)
	}
	if got, want := rec[14], "2023-09-01T12:00:00.987654Z"; got != want {
		t.Errorf("actualized_at = %q, want %q", got, want)
	}
}

func TestRawRoundTrip(t *testing.T) {
	l := Listing{
		ID:           "a1",
		AdvertID:     330489,
		PublishedAt:  time.Date(2023, 8, 1, 10, 30, 0, 500000000, time.UTC),
		ActualizedAt: time.Date(2023, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	raw := l.Raw()
	back, err := RawFromRecord(raw.Record())
	if err != nil {
		t.Fatalf("RawFromRecord: %v", err)
	}
	if back != raw {
		t.Errorf("round trip changed the row: %+v != %+v", back, raw)
	}
	if back.PublishedAt != "2023-08-01T10:30:00.5Z" {
		t.Errorf("published_at = %q, sub-second part lost", back.PublishedAt)
	}
}
