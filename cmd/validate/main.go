// Command validate runs integrity checks over a sensor CSV export: it
// normalizes the file the same way the dashboard does and reports on schema
// resolution, value coercion, coordinate coverage, and AQI coverage.
//
// Usage:
//
//	go run ./cmd/validate -file data.csv
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/thesibtainrazza/smart-city-dashboard/internal/domain"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/observability"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/pipeline"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/source"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "data.csv", "sensor CSV export to validate")
	seed := flag.Int64("seed", 1, "rng seed for coordinate jitter")
	flag.Parse()

	if code := run(*file, *seed); code != 0 {
		os.Exit(code)
	}
}

func run(path string, seed int64) int {
	fmt.Printf("=== Sensor Export Validation: %s ===\n\n", path)

	raw, table, err := source.CSVFile{Path: path}.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load export: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	n := pipeline.NewNormalizer(
		rand.New(rand.NewSource(seed)),
		domain.DefaultJitterRadius,
		logger,
		observability.NewMetricsForTesting(),
	)
	res, err := n.Normalize(table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: normalize: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSchema(res),
		validateCoercion(res),
		validateCoordinates(res),
		validateAQI(res),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Printf("\nRows: %d (%d bytes raw), columns: %d\n",
		res.Dataset.NumRows(), len(raw), len(res.Dataset.Columns))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateSchema checks that the fields the dashboard depends on resolved to
// a column.
func validateSchema(res pipeline.Result) *phase {
	p := &phase{name: "Phase 1: Schema Resolution"}

	required := []domain.Field{
		domain.FieldTimestamp, domain.FieldCity, domain.FieldAQI,
	}
	for _, f := range required {
		if _, ok := res.Schema.Column(f); !ok {
			p.errorf("required field %s did not resolve to any column", f)
		}
	}

	recommended := []domain.Field{
		domain.FieldPM25, domain.FieldPM10, domain.FieldTemperature,
		domain.FieldHumidity, domain.FieldWeather,
	}
	for _, f := range recommended {
		if _, ok := res.Schema.Column(f); !ok {
			p.errorf("recommended field %s did not resolve (dashboard panels will be empty)", f)
		}
	}
	return p
}

// validateCoercion checks that resolved numeric fields actually carry numbers.
func validateCoercion(res pipeline.Result) *phase {
	p := &phase{name: "Phase 2: Value Coercion"}

	numericFields := []domain.Field{
		domain.FieldAQI, domain.FieldPM25, domain.FieldPM10,
		domain.FieldTemperature, domain.FieldHumidity,
	}
	for _, f := range numericFields {
		col, ok := res.Schema.Column(f)
		if !ok {
			continue
		}
		var missing, text int
		for _, row := range res.Dataset.Rows {
			cell := row[col]
			if cell.IsMissing() {
				missing++
			} else if _, isNum := cell.Float(); !isNum {
				text++
			}
		}
		if text > 0 {
			p.errorf("%s (%s): %d cells survived coercion as text", f, col, text)
		}
		if n := res.Dataset.NumRows(); n > 0 && missing == n {
			p.errorf("%s (%s): every cell is missing", f, col)
		}
	}
	return p
}

// validateCoordinates checks that enrichment produced usable map points.
func validateCoordinates(res pipeline.Result) *phase {
	p := &phase{name: "Phase 3: Coordinate Coverage"}

	latCol, latOK := res.Schema.Column(domain.FieldLat)
	lonCol, lonOK := res.Schema.Column(domain.FieldLon)
	if !latOK || !lonOK {
		p.errorf("no coordinate columns after enrichment (city column unresolved?)")
		return p
	}

	var unresolved int
	for _, row := range res.Dataset.Rows {
		_, latN := row[latCol].Float()
		_, lonN := row[lonCol].Float()
		if !latN || !lonN {
			unresolved++
		}
	}
	if n := res.Dataset.NumRows(); n > 0 && unresolved > 0 {
		p.errorf("%d of %d rows have no coordinates (cities outside %v)",
			unresolved, n, domain.KnownCities())
	}
	return p
}

// validateAQI checks that AQI values classify and stay in a plausible band.
func validateAQI(res pipeline.Result) *phase {
	p := &phase{name: "Phase 4: AQI Coverage"}

	col, ok := res.Schema.Column(domain.FieldAQI)
	if !ok {
		p.errorf("AQI column unresolved, nothing to classify")
		return p
	}

	for i, row := range res.Dataset.Rows {
		v, isNum := row[col].Float()
		if !isNum {
			continue
		}
		if v < 0 {
			p.errorf("row %d: negative AQI %g", i, v)
		}
		if v > 1000 {
			p.errorf("row %d: implausible AQI %g", i, v)
		}
	}
	return p
}
