package domain

import (
	"fmt"
	"strings"
)

// Field names a semantic sensor attribute, independent of how the raw export
// spells its column.
type Field string

const (
	FieldTimestamp   Field = "timestamp"
	FieldCity        Field = "city"
	FieldTemperature Field = "temperature"
	FieldHumidity    Field = "humidity"
	FieldAQI         Field = "aqi"
	FieldPM25        Field = "pm2.5"
	FieldPM10        Field = "pm10"
	FieldCO          Field = "co"
	FieldNO2         Field = "no2"
	FieldWindSpeed   Field = "wind_speed"
	FieldWeather     Field = "weather"
	FieldLat         Field = "lat"
	FieldLon         Field = "lon"
)

// fieldAliases maps each semantic field to its acceptable cleaned spellings,
// in priority order. Spellings are matched after CleanColumnName, so entries
// never contain spaces or the known encoding artifacts.
var fieldAliases = map[Field][]string{
	FieldTimestamp:   {"Timestamp", "timestamp", "Time", "Datetime"},
	FieldCity:        {"City", "city"},
	FieldTemperature: {"Temperature(°C)", "Temperature"},
	FieldHumidity:    {"Humidity(%)", "Humidity"},
	FieldAQI:         {"AQI", "Aqi", "aqi"},
	FieldPM25:        {"PM2.5(ug/m3)", "PM25", "PM2_5"},
	FieldPM10:        {"PM10(ug/m3)", "PM10"},
	FieldCO:          {"CO(ppm)", "CO"},
	FieldNO2:         {"NO2(ppm)", "NO2"},
	FieldWindSpeed:   {"WindSpeed(km/h)", "WindSpeed", "Wind"},
	FieldWeather:     {"Weather", "weather"},
	FieldLat:         {"lat", "Lat", "Latitude"},
	FieldLon:         {"lon", "Lon", "Longitude"},
}

// resolveOrder fixes the iteration order over fields so resolution output is
// deterministic across runs.
var resolveOrder = []Field{
	FieldTimestamp, FieldCity, FieldTemperature, FieldHumidity, FieldAQI,
	FieldPM25, FieldPM10, FieldCO, FieldNO2, FieldWindSpeed, FieldWeather,
	FieldLat, FieldLon,
}

// AllFields returns every semantic field in resolution order. The slice is a
// copy; callers may keep it.
func AllFields() []Field {
	out := make([]Field, len(resolveOrder))
	copy(out, resolveOrder)
	return out
}

// columnCleaner strips the known mis-encoding artifacts from portal export
// headers and removes internal whitespace.
var columnCleaner = strings.NewReplacer(
	"Â", "",
	"µ", "u",
	"³", "3",
	" ", "",
)

// CleanColumnName normalizes a raw column name: drops stray "Â" bytes, maps
// the micro sign to "u" and superscript three to "3", and removes all
// whitespace. Cleaning is idempotent.
func CleanColumnName(name string) string {
	return columnCleaner.Replace(strings.TrimSpace(name))
}

// ErrColumnCollision reports that cleaning mapped two distinct raw column
// names onto the same cleaned name. Resolution refuses to guess which column
// a semantic field should bind to in that case.
type ErrColumnCollision struct {
	Cleaned string
	First   string
	Second  string
}

func (e *ErrColumnCollision) Error() string {
	return fmt.Sprintf("column collision: %q and %q both clean to %q", e.First, e.Second, e.Cleaned)
}

// Schema holds the semantic field bindings resolved against a cleaned table.
// A field is either bound to exactly one physical column or unbound.
type Schema struct {
	columns map[Field]string
}

// Column returns the physical column bound to the field, and whether the
// field is bound at all. Callers must branch on ok: an unbound field means
// the feature that needs it is disabled, not that anything failed.
func (s Schema) Column(f Field) (string, bool) {
	name, ok := s.columns[f]
	return name, ok
}

// Bound reports whether the field resolved to a column.
func (s Schema) Bound(f Field) bool {
	_, ok := s.columns[f]
	return ok
}

// clone returns a Schema with its own binding map. Transforms that rebind
// fields must clone first: Schema is passed by value, but the map inside is
// shared, and writing through it would mutate the caller's copy.
func (s Schema) clone() Schema {
	if s.columns == nil {
		return Schema{}
	}
	columns := make(map[Field]string, len(s.columns))
	for f, c := range s.columns {
		columns[f] = c
	}
	return Schema{columns: columns}
}

// bind attaches a field to a physical column.
func (s *Schema) bind(f Field, column string) {
	if s.columns == nil {
		s.columns = make(map[Field]string)
	}
	s.columns[f] = column
}

// unbind detaches a field. Used when coercion discovers a bound column is
// unusable (e.g. a timestamp column with no parseable values).
func (s *Schema) unbind(f Field) {
	delete(s.columns, f)
}

// Fields returns the bound fields in resolution order.
func (s Schema) Fields() []Field {
	out := make([]Field, 0, len(s.columns))
	for _, f := range resolveOrder {
		if _, ok := s.columns[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// ResolveSchema cleans every column name in the raw table and binds each
// semantic field to the first of its aliases present among the cleaned
// names. The returned table has cleaned column names with records rekeyed to
// match; the input table is not modified. Fields with no matching alias stay
// unbound.
//
// The only failure mode is a cleaning collision: two distinct raw names that
// clean to the same string. That is reported, never silently merged.
func ResolveSchema(raw Table) (Table, Schema, error) {
	cleaned := Table{
		Columns: make([]string, len(raw.Columns)),
		Rows:    make([]Record, len(raw.Rows)),
	}

	seen := make(map[string]string, len(raw.Columns))
	for i, col := range raw.Columns {
		c := CleanColumnName(col)
		if first, dup := seen[c]; dup && first != col {
			return Table{}, Schema{}, &ErrColumnCollision{Cleaned: c, First: first, Second: col}
		}
		seen[c] = col
		cleaned.Columns[i] = c
	}

	for i, row := range raw.Rows {
		rekeyed := make(Record, len(row))
		for rawName, cell := range row {
			rekeyed[CleanColumnName(rawName)] = cell
		}
		cleaned.Rows[i] = rekeyed
	}

	present := make(map[string]bool, len(cleaned.Columns))
	for _, c := range cleaned.Columns {
		present[c] = true
	}

	var schema Schema
	for _, f := range resolveOrder {
		for _, alias := range fieldAliases[f] {
			if present[alias] {
				schema.bind(f, alias)
				break
			}
		}
	}

	return cleaned, schema, nil
}
