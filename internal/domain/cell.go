package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// CellKind discriminates the variants of a Cell.
type CellKind int

const (
	KindMissing CellKind = iota
	KindNumeric
	KindText
	KindTime
)

// Cell is a single table value: exactly one of numeric, text, time, or
// missing. Missing is the zero value, so an absent map entry reads as a
// missing cell.
type Cell struct {
	kind CellKind
	num  float64
	text string
	ts   time.Time
}

// Numeric returns a numeric cell.
func Numeric(v float64) Cell { return Cell{kind: KindNumeric, num: v} }

// Text returns a text cell.
func Text(s string) Cell { return Cell{kind: KindText, text: s} }

// Time returns a time cell.
func Time(t time.Time) Cell { return Cell{kind: KindTime, ts: t} }

// Missing returns the missing cell.
func Missing() Cell { return Cell{} }

// Kind reports which variant the cell holds.
func (c Cell) Kind() CellKind { return c.kind }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.kind == KindMissing }

// Float returns the numeric value and true when the cell is numeric.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumeric {
		return 0, false
	}
	return c.num, true
}

// Text returns the text value and true when the cell is text.
func (c Cell) Text() (string, bool) {
	if c.kind != KindText {
		return "", false
	}
	return c.text, true
}

// Time returns the time value and true when the cell is a time.
func (c Cell) Time() (time.Time, bool) {
	if c.kind != KindTime {
		return time.Time{}, false
	}
	return c.ts, true
}

// String renders the cell for display. Missing cells render empty.
func (c Cell) String() string {
	switch c.kind {
	case KindNumeric:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindText:
		return c.text
	case KindTime:
		return c.ts.Format(time.RFC3339)
	default:
		return ""
	}
}

// MarshalJSON renders numeric cells as numbers, text as strings, times as
// RFC 3339 strings, and missing cells as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindNumeric:
		return json.Marshal(c.num)
	case KindText:
		return json.Marshal(c.text)
	case KindTime:
		return json.Marshal(c.ts.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// Record is one table row, keyed by column name.
type Record map[string]Cell

// Clone returns a copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered tabular dataset. Columns preserves the source column
// order; every record is keyed by those names.
type Table struct {
	Columns []string
	Rows    []Record
}

// NumRows returns the row count.
func (t Table) NumRows() int { return len(t.Rows) }

// HasColumn reports whether the table carries the named column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the table. Mutating the copy never touches
// the original.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}
