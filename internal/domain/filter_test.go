package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixture(t *testing.T) (Table, Schema) {
	t.Helper()
	raw := Table{
		Columns: []string{"Timestamp", "City", "AQI", "Weather"},
		Rows: []Record{
			{"Timestamp": Text("2024-01-01T00:00"), "City": Text("Delhi"), "AQI": Text("45"), "Weather": Text("Clear")},
			{"Timestamp": Text("2024-01-02T00:00"), "City": Text("Mumbai"), "AQI": Text("220"), "Weather": Text("Haze")},
			{"Timestamp": Text("2024-01-03T12:30"), "City": Text("Delhi"), "AQI": Text("180"), "Weather": Text("Rain")},
		},
	}
	cleaned, schema, err := ResolveSchema(raw)
	require.NoError(t, err)
	coerced, schema := Coerce(cleaned, schema)
	return coerced, schema
}

func floatPtr(v float64) *float64 { return &v }

func TestFilter(t *testing.T) {
	t.Run("city equality", func(t *testing.T) {
		table, schema := filterFixture(t)
		got := Filter(table, schema, FilterCriteria{City: "Delhi"})

		require.Equal(t, 2, got.NumRows())
		city, _ := got.Rows[0]["City"].Text()
		assert.Equal(t, "Delhi", city)
		aqi, _ := got.Rows[0]["AQI"].Float()
		assert.Equal(t, 45.0, aqi)
	})

	t.Run("single-city scenario", func(t *testing.T) {
		raw := Table{
			Columns: []string{"Timestamp", "City", "AQI"},
			Rows: []Record{
				{"Timestamp": Text("2024-01-01T00:00"), "City": Text("Delhi"), "AQI": Text("45")},
				{"Timestamp": Text("2024-01-02T00:00"), "City": Text("Mumbai"), "AQI": Text("220")},
			},
		}
		cleaned, schema, err := ResolveSchema(raw)
		require.NoError(t, err)
		coerced, schema := Coerce(cleaned, schema)

		got := Filter(coerced, schema, FilterCriteria{City: "Delhi"})
		require.Equal(t, 1, got.NumRows())
		aqi, ok := got.Rows[0]["AQI"].Float()
		require.True(t, ok)
		assert.Equal(t, 45.0, aqi)
		assert.Equal(t, "Good", ClassifyAQI(45).Label)
		assert.Equal(t, "Very Unhealthy", ClassifyAQI(220).Label)
	})

	t.Run("all-cities value restricts nothing", func(t *testing.T) {
		table, schema := filterFixture(t)
		got := Filter(table, schema, FilterCriteria{City: AllCities})
		assert.Equal(t, table.NumRows(), got.NumRows())
	})

	t.Run("weather membership", func(t *testing.T) {
		table, schema := filterFixture(t)
		got := Filter(table, schema, FilterCriteria{Weather: []string{"Clear", "Rain"}})
		assert.Equal(t, 2, got.NumRows())
	})

	t.Run("empty weather selection matches no rows", func(t *testing.T) {
		table, schema := filterFixture(t)
		got := Filter(table, schema, FilterCriteria{Weather: []string{}})
		assert.Equal(t, 0, got.NumRows())
	})

	t.Run("date window is inclusive of whole days", func(t *testing.T) {
		table, schema := filterFixture(t)
		criteria := FilterCriteria{
			From: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
		}
		got := Filter(table, schema, criteria)

		// From is widened back to 2024-01-02T00:00 and To forward to the end
		// of Jan 3, so both remaining rows match.
		require.Equal(t, 2, got.NumRows())
		city, _ := got.Rows[0]["City"].Text()
		assert.Equal(t, "Mumbai", city)
	})

	t.Run("aqi range inclusive both ends", func(t *testing.T) {
		table, schema := filterFixture(t)
		got := Filter(table, schema, FilterCriteria{AQIMin: floatPtr(45), AQIMax: floatPtr(180)})
		assert.Equal(t, 2, got.NumRows())
	})

	t.Run("wide aqi range returns the dataset unchanged", func(t *testing.T) {
		table, schema := filterFixture(t)
		got := Filter(table, schema, FilterCriteria{AQIMin: floatPtr(0), AQIMax: floatPtr(500)})
		assert.Empty(t, cmp.Diff(table, got, cellComparer()))
	})

	t.Run("unbound fields make predicates no-ops", func(t *testing.T) {
		table := Table{
			Columns: []string{"Reading"},
			Rows:    []Record{{"Reading": Numeric(1)}, {"Reading": Numeric(2)}},
		}
		_, schema, err := ResolveSchema(table)
		require.NoError(t, err)

		criteria := FilterCriteria{
			City:    "Delhi",
			Weather: []string{"Clear"},
			From:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			AQIMin:  floatPtr(0),
			AQIMax:  floatPtr(10),
		}
		got := Filter(table, schema, criteria)
		assert.Equal(t, 2, got.NumRows())
	})

	t.Run("pure and order-preserving", func(t *testing.T) {
		table, schema := filterFixture(t)
		criteria := FilterCriteria{City: "Delhi", AQIMin: floatPtr(0), AQIMax: floatPtr(500)}

		first := Filter(table, schema, criteria)
		second := Filter(table, schema, criteria)
		assert.Empty(t, cmp.Diff(first, second, cellComparer()))

		// Relative order follows the canonical dataset.
		a, _ := first.Rows[0]["AQI"].Float()
		b, _ := first.Rows[1]["AQI"].Float()
		assert.Equal(t, 45.0, a)
		assert.Equal(t, 180.0, b)

		// The input was not touched.
		assert.Equal(t, 3, table.NumRows())
	})

	t.Run("empty result is a valid outcome", func(t *testing.T) {
		table, schema := filterFixture(t)
		got := Filter(table, schema, FilterCriteria{City: "Chennai"})
		assert.Equal(t, 0, got.NumRows())
		assert.Equal(t, table.Columns, got.Columns)
	})
}
