package domain

import (
	"math/rand"
	"strings"
)

// Geo is a WGS-84 latitude/longitude pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DefaultJitterRadius is the symmetric bound, in degrees, of the random
// offset applied to synthesized coordinates.
const DefaultJitterRadius = 0.02

// cityCoords maps known city names to reference coordinates. Lookup uses the
// first whitespace-delimited token of the city value, so "Delhi NCR" and
// "Delhi" share a reference point.
var cityCoords = map[string]Geo{
	"Delhi":     {Lat: 28.7041, Lon: 77.1025},
	"Bangalore": {Lat: 12.9716, Lon: 77.5946},
	"Mumbai":    {Lat: 19.0760, Lon: 72.8777},
	"Chennai":   {Lat: 13.0827, Lon: 80.2707},
	"Kolkata":   {Lat: 22.5726, Lon: 88.3639},
}

// CityCoordinate returns the reference coordinate for a city value, matching
// on its first whitespace token.
func CityCoordinate(city string) (Geo, bool) {
	token, _, _ := strings.Cut(strings.TrimSpace(city), " ")
	g, ok := cityCoords[token]
	return g, ok
}

// KnownCities returns the names in the coordinate reference table.
func KnownCities() []string {
	out := make([]string, 0, len(cityCoords))
	for name := range cityCoords {
		out = append(out, name)
	}
	return out
}

// EnrichCoordinates synthesizes per-record lat/lon columns when the source
// supplies none. It is a no-op unless the city field is bound and neither
// coordinate field is: exports that already carry coordinates are left alone.
//
// For each record the city's reference coordinate gets an independent uniform
// jitter in [-radius, radius] on both axes, drawn from rng, so co-located
// sensors render as distinct points. Records whose city is unknown get
// missing coordinates on both axes; a fabricated (0,0) would read as a real
// position off the coast of West Africa.
//
// The enriched table binds FieldLat and FieldLon to the synthesized columns
// in the returned schema. Neither the input table nor the input schema is
// modified.
func EnrichCoordinates(t Table, schema Schema, rng *rand.Rand, radius float64) (Table, Schema) {
	if schema.Bound(FieldLat) || schema.Bound(FieldLon) {
		return t, schema
	}
	cityCol, ok := schema.Column(FieldCity)
	if !ok {
		return t, schema
	}
	if radius <= 0 {
		radius = DefaultJitterRadius
	}

	out := t.Clone()
	schema = schema.clone()
	out.Columns = append(out.Columns, "lat", "lon")
	for _, row := range out.Rows {
		base, known := lookupCity(row[cityCol])
		if !known {
			row["lat"] = Missing()
			row["lon"] = Missing()
			continue
		}
		row["lat"] = Numeric(base.Lat + jitter(rng, radius))
		row["lon"] = Numeric(base.Lon + jitter(rng, radius))
	}

	schema.bind(FieldLat, "lat")
	schema.bind(FieldLon, "lon")
	return out, schema
}

func lookupCity(cell Cell) (Geo, bool) {
	city, ok := cell.Text()
	if !ok {
		return Geo{}, false
	}
	return CityCoordinate(city)
}

// jitter draws a uniform offset in [-radius, radius].
func jitter(rng *rand.Rand, radius float64) float64 {
	return (rng.Float64()*2 - 1) * radius
}
