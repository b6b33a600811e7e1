package domain

import (
	"sort"
	"time"
)

// ColumnStats summarizes the numeric cells of one column. Columns with no
// numeric cells are omitted from summaries entirely.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes per-column numeric statistics over the table, in column
// order. Non-numeric and missing cells are skipped, never counted.
func Summarize(t Table) []ColumnStats {
	var out []ColumnStats
	for _, col := range t.Columns {
		var (
			count    int
			sum      float64
			minV     float64
			maxV     float64
		)
		for _, row := range t.Rows {
			v, ok := row[col].Float()
			if !ok {
				continue
			}
			if count == 0 {
				minV, maxV = v, v
			} else {
				if v < minV {
					minV = v
				}
				if v > maxV {
					maxV = v
				}
			}
			sum += v
			count++
		}
		if count == 0 {
			continue
		}
		out = append(out, ColumnStats{
			Column: col,
			Count:  count,
			Mean:   sum / float64(count),
			Min:    minV,
			Max:    maxV,
		})
	}
	return out
}

// ColumnMean returns the mean of the column's numeric cells, false when the
// column has none.
func ColumnMean(t Table, column string) (float64, bool) {
	var sum float64
	var count int
	for _, row := range t.Rows {
		if v, ok := row[column].Float(); ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// CurrentAQI returns the last numeric AQI value in the table's row order,
// false when the AQI field is unbound or no row carries a numeric AQI.
func CurrentAQI(t Table, schema Schema) (float64, bool) {
	col, ok := schema.Column(FieldAQI)
	if !ok {
		return 0, false
	}
	for i := len(t.Rows) - 1; i >= 0; i-- {
		if v, ok := t.Rows[i].Float(col); ok {
			return v, true
		}
	}
	return 0, false
}

// Float reads a numeric cell from the record.
func (r Record) Float(column string) (float64, bool) {
	return r[column].Float()
}

// DistinctText returns the distinct text values of a column in first-seen
// order. Missing and non-text cells are skipped.
func DistinctText(t Table, column string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		v, ok := row[column].Text()
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// TimeBounds returns the earliest and latest time cells of a column, false
// when the column has no time cells.
func TimeBounds(t Table, column string) (time.Time, time.Time, bool) {
	var minT, maxT time.Time
	found := false
	for _, row := range t.Rows {
		ts, ok := row[column].Time()
		if !ok {
			continue
		}
		if !found {
			minT, maxT = ts, ts
			found = true
			continue
		}
		if ts.Before(minT) {
			minT = ts
		}
		if ts.After(maxT) {
			maxT = ts
		}
	}
	return minT, maxT, found
}

// LatestRows returns the last n rows ordered by the timestamp column
// ascending, mirroring the portal's "latest readings" panel. Rows without a
// time cell sort first and fall away when n is smaller than the row count.
// When the timestamp column is empty the tail of the table's own order is
// returned instead.
func LatestRows(t Table, schema Schema, n int) Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	if n <= 0 {
		return out
	}

	rows := make([]Record, len(t.Rows))
	copy(rows, t.Rows)

	if col, ok := schema.Column(FieldTimestamp); ok {
		stableSortByTime(rows, col)
	}
	if len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	for _, row := range rows {
		out.Rows = append(out.Rows, row.Clone())
	}
	return out
}

// stableSortByTime orders rows by their time cell ascending, missing
// timestamps first, keeping the original order for ties.
func stableSortByTime(rows []Record, col string) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := rows[i][col].Time()
		b, bok := rows[j][col].Time()
		if !aok || !bok {
			return !aok && bok
		}
		return a.Before(b)
	})
}
