// Package domain models city air-quality sensor exports.
//
// # Data Source
//
// Readings arrive as a single tabular CSV export produced by the municipal
// sensor aggregation portal. The portal is inconsistent about column naming
// across export batches, and the files frequently carry Latin-1/UTF-8
// double-encoding artifacts in the headers:
//
//	"Temperature(Â°C)"   →  stray "Â" bytes before degree signs
//	"PM2.5 (µg/m³)"      →  micro sign and superscript-three glyphs
//	"Wind Speed(km/h)"   →  internal whitespace that varies per batch
//
// Column cleaning (see [CleanColumnName]) strips the "Â" artifact, maps "µ"
// to "u" and "³" to "3", and removes internal whitespace, so that alias
// resolution can match on a stable spelling. Cleaning is idempotent.
//
// # Semantic Fields
//
// A semantic field is a logical sensor attribute (timestamp, city, AQI, ...)
// independent of its raw column spelling. Each field carries an ordered alias
// list; resolution binds the field to the first cleaned column name present
// in the export, or leaves it unbound when no alias matches. An unbound field
// disables the features that need it; it is never an error.
//
// # Cell Values
//
// Every value in a table is a [Cell]: a tagged variant that is exactly one of
// numeric, text, time, or missing. Best-effort coercion promotes text cells
// to numeric or time cells where they parse; cells that do not parse stay as
// they are (numeric promotion) or become missing (timestamp parsing). A
// column may therefore hold mixed cell kinds, mirroring the lenient typing
// of the upstream export rather than enforcing a strict schema.
//
// # AQI Classification
//
// The AQI severity bands follow the portal's five-level scale with inclusive
// upper bounds 50/100/200/300 and an unbounded top band:
//
//	Good | Moderate | Unhealthy | Very Unhealthy | Hazardous
//
// Classification is monotonic in the input and clamps negative inputs to 0.
//
// # Coordinates
//
// Exports usually omit coordinates. When a city field is bound and no lat/lon
// columns exist, enrichment synthesizes approximate coordinates from a fixed
// reference table of known cities, with a small uniform jitter per record so
// co-located sensors render as distinct map points. Unknown cities get
// missing coordinates, never a (0,0) sentinel.
package domain
