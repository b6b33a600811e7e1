package domain

// AQIStatus is the classification result for a numeric air-quality index:
// a severity band label, its rank (0 = Good through 4 = Hazardous), and the
// color token the presentation layer renders it with.
type AQIStatus struct {
	Label string `json:"label"`
	Rank  int    `json:"rank"`
	Color string `json:"color"`
}

// aqiBands lists the severity bands in ascending order. Upper bounds are
// inclusive; the top band is unbounded.
var aqiBands = []struct {
	upper  float64
	status AQIStatus
}{
	{50, AQIStatus{Label: "Good", Rank: 0, Color: "#2ECC71"}},
	{100, AQIStatus{Label: "Moderate", Rank: 1, Color: "#F1C40F"}},
	{200, AQIStatus{Label: "Unhealthy", Rank: 2, Color: "#E67E22"}},
	{300, AQIStatus{Label: "Very Unhealthy", Rank: 3, Color: "#E74C3C"}},
}

var aqiHazardous = AQIStatus{Label: "Hazardous", Rank: 4, Color: "#8E44AD"}

// HazardousThreshold is the exclusive AQI bound above which the summary
// raises an alert.
const HazardousThreshold = 200

// ClassifyAQI maps a numeric AQI to its severity band. Band upper bounds
// (50, 100, 200, 300) are inclusive, so 50 is still Good. Negative inputs
// are clamped to 0. Classification is monotonic: a larger AQI never maps to
// a lower rank.
func ClassifyAQI(aqi float64) AQIStatus {
	if aqi < 0 {
		aqi = 0
	}
	for _, band := range aqiBands {
		if aqi <= band.upper {
			return band.status
		}
	}
	return aqiHazardous
}
