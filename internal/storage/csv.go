// Package storage persists snapshots and result tables as delimited files.
package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tdsk-analytics/internal/logging"
	"tdsk-analytics/internal/model"
)

// CSVRepository reads and writes delimited snapshot files. The historical
// snapshot is tab-separated, everything written here is comma-separated;
// the caller supplies the read separator, nothing is auto-detected.
type CSVRepository struct{}

// Load reads a snapshot file with the given separator and validates the
// 15-column header.
func (CSVRepository) Load(path string, sep rune) ([]model.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		logging.Errorf("[storage] load %s: %v", path, err)
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = sep
	r.FieldsPerRecord = len(model.Columns)

	records, err := r.ReadAll()
	if err != nil {
		logging.Errorf("[storage] load %s: %v", path, err)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: empty file", path)
	}

	for i, col := range model.Columns {
		if records[0][i] != col {
			return nil, fmt.Errorf("read %s: column %d is %q, want %q", path, i, records[0][i], col)
		}
	}

	rows := make([]model.RawListing, 0, len(records)-1)
	for i, rec := range records[1:] {
		raw, err := model.RawFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", path, i+1, err)
		}
		rows = append(rows, raw)
	}

	logging.Debugf("[storage] loaded %d rows from %s", len(rows), path)
	return rows, nil
}

// SaveListings writes a typed snapshot with the schema header. When stamp
// is set, a UTC timestamp suffix keeps successive runs apart. Returns the
// written path.
func (r CSVRepository) SaveListings(listings []model.Listing, dir, name string, stamp bool) (string, error) {
	records := make([][]string, 0, len(listings))
	for _, l := range listings {
		records = append(records, l.Record())
	}
	return r.SaveTable(model.Columns, records, dir, name, stamp)
}

// SaveTable writes an arbitrary result table (pivot, comparison) as a
// comma-separated file with the given header.
func (CSVRepository) SaveTable(header []string, records [][]string, dir, name string, stamp bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.Errorf("[storage] save %s: %v", name, err)
		return "", fmt.Errorf("create dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, fileName(name, stamp))
	f, err := os.Create(path)
	if err != nil {
		logging.Errorf("[storage] save %s: %v", path, err)
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write header to %s: %w", path, err)
	}
	if err := w.WriteAll(records); err != nil {
		logging.Errorf("[storage] save %s: %v", path, err)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	logging.Debugf("[storage] saved %d rows to %s", len(records), path)
	return path, nil
}

func fileName(name string, stamp bool) string {
	if !stamp {
		return name + ".csv"
	}
	return name + "_" + time.Now().UTC().Format("2006-01-02_15-04-05.000000") + ".csv"
}
