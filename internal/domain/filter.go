package domain

import "time"

// AllCities is the city criterion value meaning no city restriction.
const AllCities = "All"

// FilterCriteria is one snapshot of the user's filter controls. The zero
// value restricts nothing. Each criterion has an explicit no-restriction
// default:
//
//   - City: "" or AllCities
//   - Weather: nil (a non-nil empty selection matches no rows)
//   - From/To: zero times
//   - AQIMin/AQIMax: nil
type FilterCriteria struct {
	City    string
	Weather []string
	From    time.Time
	To      time.Time
	AQIMin  *float64
	AQIMax  *float64
}

// Filter narrows a canonical dataset to the rows matching the criteria. It
// applies the predicates as a conjunction, in a fixed order: city equality,
// weather membership, timestamp window, AQI range. A predicate is skipped
// entirely when its governing field is unbound or its criterion is the
// no-restriction default, so filters never fail on degraded schemas.
//
// The timestamp window is inclusive on both ends and widened to whole days:
// From is truncated to the start of its day, To extended to the last instant
// of its day.
//
// Filter is pure: the input table is never modified, relative row order is
// preserved, and identical inputs yield identical output. An empty result is
// a valid outcome, not an error.
func Filter(t Table, schema Schema, c FilterCriteria) Table {
	preds := buildPredicates(schema, c)

	out := Table{Columns: append([]string(nil), t.Columns...)}
	for _, row := range t.Rows {
		if matchesAll(row, preds) {
			out.Rows = append(out.Rows, row.Clone())
		}
	}
	return out
}

type predicate func(Record) bool

func matchesAll(row Record, preds []predicate) bool {
	for _, p := range preds {
		if !p(row) {
			return false
		}
	}
	return true
}

func buildPredicates(schema Schema, c FilterCriteria) []predicate {
	var preds []predicate

	if col, ok := schema.Column(FieldCity); ok && c.City != "" && c.City != AllCities {
		want := c.City
		preds = append(preds, func(row Record) bool {
			city, ok := row[col].Text()
			return ok && city == want
		})
	}

	if col, ok := schema.Column(FieldWeather); ok && c.Weather != nil {
		allowed := make(map[string]bool, len(c.Weather))
		for _, w := range c.Weather {
			allowed[w] = true
		}
		preds = append(preds, func(row Record) bool {
			w, ok := row[col].Text()
			return ok && allowed[w]
		})
	}

	if col, ok := schema.Column(FieldTimestamp); ok && (!c.From.IsZero() || !c.To.IsZero()) {
		var start, end time.Time
		if !c.From.IsZero() {
			start = startOfDay(c.From)
		}
		if !c.To.IsZero() {
			end = endOfDay(c.To)
		}
		preds = append(preds, func(row Record) bool {
			ts, ok := row[col].Time()
			if !ok {
				return false
			}
			if !start.IsZero() && ts.Before(start) {
				return false
			}
			if !end.IsZero() && ts.After(end) {
				return false
			}
			return true
		})
	}

	if col, ok := schema.Column(FieldAQI); ok && (c.AQIMin != nil || c.AQIMax != nil) {
		minV, maxV := c.AQIMin, c.AQIMax
		preds = append(preds, func(row Record) bool {
			aqi, ok := row[col].Float()
			if !ok {
				return false
			}
			if minV != nil && aqi < *minV {
				return false
			}
			if maxV != nil && aqi > *maxV {
				return false
			}
			return true
		})
	}

	return preds
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns the last whole second of t's day, matching the source
// convention of day+1 minus one second.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Second)
}
