// Package source loads the raw sensor export from disk.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/thesibtainrazza/smart-city-dashboard/internal/domain"
)

// ErrSourceMissing reports that the raw export file does not exist. This is
// the one fatal condition in the ingest path: without a source there is
// nothing to compute, so startup surfaces it to the user and stops.
var ErrSourceMissing = errors.New("raw data source missing")

// CSVFile reads a raw table from a CSV export on disk.
type CSVFile struct {
	Path string
}

// Load returns the raw file bytes and the parsed table. A nonexistent file
// wraps ErrSourceMissing; malformed cell content never fails here, it is the
// pipeline's job to degrade it.
func (f CSVFile) Load() ([]byte, domain.Table, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.Table{}, fmt.Errorf("%w: %s", ErrSourceMissing, f.Path)
		}
		return nil, domain.Table{}, fmt.Errorf("read source: %w", err)
	}

	table, err := ParseCSV(raw)
	if err != nil {
		return nil, domain.Table{}, err
	}
	return raw, table, nil
}

// ParseCSV decodes CSV bytes into a raw table of text cells. The first row
// is the header; empty cells become missing. Ragged rows are tolerated:
// short rows leave their trailing columns missing, long rows drop the
// overflow.
func ParseCSV(raw []byte) (domain.Table, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return domain.Table{}, errors.New("parse csv: no header row")
	}

	table := domain.Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		rec := make(domain.Record, len(table.Columns))
		for i, col := range table.Columns {
			if i >= len(row) || row[i] == "" {
				rec[col] = domain.Missing()
				continue
			}
			rec[col] = domain.Text(row[i])
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}
