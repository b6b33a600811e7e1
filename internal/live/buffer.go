// Package live simulates a streaming sensor feed from the filtered dataset.
package live

import (
	"github.com/thesibtainrazza/smart-city-dashboard/internal/domain"
)

// State tracks a buffer's lifecycle.
type State int

const (
	StateEmpty State = iota
	StateSeeded
	StateStreaming
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateSeeded:
		return "seeded"
	case StateStreaming:
		return "streaming"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Reading is one buffer entry. AQI, PM2.5, and temperature are cells so a
// reading seeded from a degraded dataset can carry missing values without
// that being an error.
type Reading struct {
	Time        domain.Cell `json:"time"`
	AQI         domain.Cell `json:"aqi"`
	PM25        domain.Cell `json:"pm25"`
	Temperature domain.Cell `json:"temperature"`
}

// DefaultSeedRows is how many tail rows of the filtered view seed a buffer.
const DefaultSeedRows = 10

// Buffer is an append-only sequence of readings owned by exactly one
// simulation run. It is not safe for concurrent mutation; the runner is its
// sole writer.
type Buffer struct {
	readings []Reading
	state    State
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// State returns the buffer's lifecycle state.
func (b *Buffer) State() State { return b.state }

// Len returns the number of buffered readings.
func (b *Buffer) Len() int { return len(b.readings) }

// Seed copies the last k rows of a filtered view into the buffer, mapping
// the bound timestamp, AQI, PM2.5, and temperature fields into the buffer
// schema. Unbound fields map to missing cells. Seeding an empty view is
// fine; the buffer just starts empty but Seeded.
func (b *Buffer) Seed(view domain.Table, schema domain.Schema, k int) {
	if k <= 0 {
		k = DefaultSeedRows
	}
	tail := domain.LatestRows(view, schema, k)
	for _, row := range tail.Rows {
		b.readings = append(b.readings, Reading{
			Time:        fieldCell(row, schema, domain.FieldTimestamp),
			AQI:         fieldCell(row, schema, domain.FieldAQI),
			PM25:        fieldCell(row, schema, domain.FieldPM25),
			Temperature: fieldCell(row, schema, domain.FieldTemperature),
		})
	}
	b.state = StateSeeded
}

// Append adds one reading. No-op once the buffer is finished.
func (b *Buffer) Append(r Reading) {
	if b.state == StateFinished {
		return
	}
	b.readings = append(b.readings, r)
	b.state = StateStreaming
}

// Finish seals the buffer against further mutation.
func (b *Buffer) Finish() {
	b.state = StateFinished
}

// Snapshot returns a copy of the buffered readings, safe to hand to the
// presentation layer while the run keeps appending.
func (b *Buffer) Snapshot() []Reading {
	out := make([]Reading, len(b.readings))
	copy(out, b.readings)
	return out
}

func fieldCell(row domain.Record, schema domain.Schema, f domain.Field) domain.Cell {
	col, ok := schema.Column(f)
	if !ok {
		return domain.Missing()
	}
	return row[col]
}
