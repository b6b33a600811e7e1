package domain

import (
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing timestamp cells.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Coerce converts cells to their semantic types, best effort, without ever
// dropping a row.
//
// The bound timestamp column is parsed cell by cell; cells that do not parse
// become missing. If not one cell in the column parses, the timestamp field
// is unbound in the returned schema so time-based features disable cleanly.
//
// Every other column gets numeric promotion: text cells that parse as a
// number become numeric cells, the rest keep their original text. Columns
// may end up mixed-kind; that mirrors the lenient typing of the source.
//
// Coercion is idempotent: numeric, time, and missing cells pass through
// untouched, so re-running it on an already coerced table is a no-op.
func Coerce(t Table, schema Schema) (Table, Schema) {
	out := t.Clone()
	schema = schema.clone()

	tsCol, tsBound := schema.Column(FieldTimestamp)
	if tsBound {
		parsed := 0
		candidates := 0
		for _, row := range out.Rows {
			cell := row[tsCol]
			switch cell.Kind() {
			case KindTime:
				parsed++
			case KindText:
				candidates++
				txt, _ := cell.Text()
				if ts, ok := parseTimestamp(txt); ok {
					row[tsCol] = Time(ts)
					parsed++
				} else {
					row[tsCol] = Missing()
				}
			case KindNumeric:
				// Numbers in a timestamp column are junk, not epochs:
				// the portal export never emits epoch timestamps.
				candidates++
				row[tsCol] = Missing()
			}
		}
		if parsed == 0 && candidates > 0 {
			schema.unbind(FieldTimestamp)
		}
	}

	for _, col := range out.Columns {
		if tsBound && col == tsCol {
			continue
		}
		for _, row := range out.Rows {
			cell := row[col]
			txt, isText := cell.Text()
			if !isText {
				continue
			}
			if v, err := strconv.ParseFloat(strings.TrimSpace(txt), 64); err == nil {
				row[col] = Numeric(v)
			}
		}
	}

	return out, schema
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
