package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanColumnName(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"encoding artifact", "Temperature(Â°C)", "Temperature(°C)"},
		{"micro and cubic glyphs", "PM2.5 (µg/m³)", "PM2.5(ug/m3)"},
		{"internal whitespace", "Wind Speed(km/h)", "WindSpeed(km/h)"},
		{"already clean", "AQI", "AQI"},
		{"surrounding whitespace", "  City  ", "City"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanColumnName(tt.raw))
		})
	}
}

func TestCleanColumnName_Idempotent(t *testing.T) {
	inputs := []string{"Temperature(Â°C)", "PM2.5 (µg/m³)", "Wind Speed(km/h)", "Humidity(%)"}
	for _, raw := range inputs {
		once := CleanColumnName(raw)
		assert.Equal(t, once, CleanColumnName(once), "cleaning %q twice diverged", raw)
	}
}

func TestResolveSchema(t *testing.T) {
	t.Run("binds fields through messy headers", func(t *testing.T) {
		raw := Table{
			Columns: []string{"Timestamp", "City", "Temperature(Â°C)", "PM2.5 (µg/m³)", "AQI", "Weather"},
			Rows: []Record{{
				"Timestamp":        Text("2024-01-01T00:00"),
				"City":             Text("Delhi"),
				"Temperature(Â°C)": Text("24.5"),
				"PM2.5 (µg/m³)":    Text("80"),
				"AQI":              Text("45"),
				"Weather":          Text("Clear"),
			}},
		}

		cleaned, schema, err := ResolveSchema(raw)
		require.NoError(t, err)

		col, ok := schema.Column(FieldTemperature)
		require.True(t, ok)
		assert.Equal(t, "Temperature(°C)", col)

		col, ok = schema.Column(FieldPM25)
		require.True(t, ok)
		assert.Equal(t, "PM2.5(ug/m3)", col)

		assert.True(t, schema.Bound(FieldTimestamp))
		assert.True(t, schema.Bound(FieldCity))
		assert.True(t, schema.Bound(FieldAQI))
		assert.True(t, schema.Bound(FieldWeather))
		assert.False(t, schema.Bound(FieldHumidity))
		assert.False(t, schema.Bound(FieldLat))

		// Records are rekeyed to the cleaned names.
		require.Len(t, cleaned.Rows, 1)
		v, ok := cleaned.Rows[0]["PM2.5(ug/m3)"].Text()
		require.True(t, ok)
		assert.Equal(t, "80", v)
	})

	t.Run("alias priority is order-stable", func(t *testing.T) {
		// Both "Timestamp" and "Time" are present; "Timestamp" is first in
		// the alias list and must win on every run.
		raw := Table{Columns: []string{"Time", "Timestamp", "City"}}
		for range 20 {
			_, schema, err := ResolveSchema(raw)
			require.NoError(t, err)
			col, ok := schema.Column(FieldTimestamp)
			require.True(t, ok)
			assert.Equal(t, "Timestamp", col)
		}
	})

	t.Run("no alias match leaves field unbound", func(t *testing.T) {
		raw := Table{Columns: []string{"SensorID", "Reading"}}
		_, schema, err := ResolveSchema(raw)
		require.NoError(t, err)
		assert.Empty(t, schema.Fields())
	})

	t.Run("cleaning collision is flagged", func(t *testing.T) {
		raw := Table{Columns: []string{"Wind Speed(km/h)", "WindSpeed(km/h)"}}
		_, _, err := ResolveSchema(raw)
		require.Error(t, err)
		var collision *ErrColumnCollision
		require.ErrorAs(t, err, &collision)
		assert.Equal(t, "WindSpeed(km/h)", collision.Cleaned)
	})

	t.Run("does not modify the input table", func(t *testing.T) {
		raw := Table{
			Columns: []string{"Wind Speed(km/h)"},
			Rows:    []Record{{"Wind Speed(km/h)": Text("12")}},
		}
		_, _, err := ResolveSchema(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"Wind Speed(km/h)"}, raw.Columns)
		_, ok := raw.Rows[0]["Wind Speed(km/h)"].Text()
		assert.True(t, ok)
	})
}

func TestAllFields(t *testing.T) {
	fields := AllFields()
	assert.Equal(t, FieldTimestamp, fields[0])
	assert.Len(t, fields, len(fieldAliases))

	// Callers get their own copy.
	fields[0] = Field("scribbled")
	assert.Equal(t, FieldTimestamp, AllFields()[0])
}
