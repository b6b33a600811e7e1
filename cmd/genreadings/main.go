// Command genreadings writes a synthetic sensor export in the portal's CSV
// format, messy headers included, so the dashboard has realistic input to
// normalize.
//
// Usage:
//
//	go run ./cmd/genreadings -out data.csv -rows 500 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/thesibtainrazza/smart-city-dashboard/internal/domain"
)

// header uses the raw portal spellings on purpose: the generated file must
// exercise column cleaning and alias resolution, not bypass them.
var header = []string{
	"Timestamp", "City", "Temperature(Â°C)", "Humidity(%)", "AQI",
	"PM2.5 (µg/m³)", "PM10 (µg/m³)", "CO(ppm)", "NO2(ppm)",
	"Wind Speed(km/h)", "Weather",
}

var weathers = []string{"Clear", "Haze", "Rain", "Fog", "Cloudy"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data.csv", "output CSV path")
	rows := flag.Int("rows", 500, "number of reading rows")
	seed := flag.Int64("seed", 0, "rng seed, 0 = time-based")
	start := flag.String("start", "2024-01-01", "first reading date (YYYY-MM-DD)")
	flag.Parse()

	if *rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", *rows)
	}
	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		return fmt.Errorf("parse start date: %w", err)
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	cities := domain.KnownCities()
	for i := 0; i < *rows; i++ {
		ts := startDate.Add(time.Duration(i) * time.Hour)
		if err := w.Write(generateRow(rng, ts, cities)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	log.Printf("wrote %d readings to %s (seed %d)", *rows, *out, s)
	return nil
}

func generateRow(rng *rand.Rand, ts time.Time, cities []string) []string {
	aqi := 20 + rng.Intn(380)

	row := []string{
		ts.Format("2006-01-02T15:04"),
		cities[rng.Intn(len(cities))],
		fmt.Sprintf("%.1f", 16+rng.Float64()*22),
		strconv.Itoa(25 + rng.Intn(70)),
		strconv.Itoa(aqi),
		strconv.Itoa(10 + rng.Intn(240)),
		strconv.Itoa(20 + rng.Intn(330)),
		fmt.Sprintf("%.2f", rng.Float64()*4),
		fmt.Sprintf("%.3f", rng.Float64()*0.2),
		fmt.Sprintf("%.1f", rng.Float64()*28),
		weathers[rng.Intn(len(weathers))],
	}

	// The real export has holes; leave roughly one cell in forty empty so
	// coercion's missing-value path stays exercised.
	if rng.Intn(40) == 0 {
		row[2+rng.Intn(len(row)-2)] = ""
	}
	return row
}
