package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAQI(t *testing.T) {
	tests := []struct {
		name  string
		aqi   float64
		label string
		color string
	}{
		{"well within good", 10, "Good", "#2ECC71"},
		{"good upper bound inclusive", 50, "Good", "#2ECC71"},
		{"moderate", 51, "Moderate", "#F1C40F"},
		{"moderate upper bound inclusive", 100, "Moderate", "#F1C40F"},
		{"unhealthy", 150, "Unhealthy", "#E67E22"},
		{"unhealthy upper bound inclusive", 200, "Unhealthy", "#E67E22"},
		{"very unhealthy", 220, "Very Unhealthy", "#E74C3C"},
		{"very unhealthy upper bound inclusive", 300, "Very Unhealthy", "#E74C3C"},
		{"hazardous", 301, "Hazardous", "#8E44AD"},
		{"extreme", 999, "Hazardous", "#8E44AD"},
		{"negative clamps to good", -5, "Good", "#2ECC71"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := ClassifyAQI(tt.aqi)
			assert.Equal(t, tt.label, status.Label)
			assert.Equal(t, tt.color, status.Color)
		})
	}
}

func TestClassifyAQI_Monotonic(t *testing.T) {
	prev := ClassifyAQI(0)
	for aqi := 1.0; aqi <= 500; aqi++ {
		cur := ClassifyAQI(aqi)
		assert.GreaterOrEqual(t, cur.Rank, prev.Rank, "rank decreased at AQI %v", aqi)
		prev = cur
	}
}
