// Package pipeline normalizes raw sensor exports into the canonical dataset
// and caches the result keyed by the raw source content.
package pipeline

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/thesibtainrazza/smart-city-dashboard/internal/domain"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/observability"
)

// Result is one canonical dataset build: the cleaned, coerced, enriched
// table plus its resolved schema. It is immutable after construction; every
// consumer reads it, nobody writes it back.
type Result struct {
	Dataset      domain.Table
	Schema       domain.Schema
	NormalizedAt time.Time
}

// Normalizer runs the resolve → coerce → enrich pipeline. It is a pure
// function of its input apart from the injected jitter randomness, so
// results may be memoized (see Store).
type Normalizer struct {
	rng     *rand.Rand
	jitter  float64
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewNormalizer creates a Normalizer. rng seeds the coordinate jitter; pass
// a seeded source for reproducible output.
func NewNormalizer(rng *rand.Rand, jitter float64, logger *slog.Logger, metrics *observability.Metrics) *Normalizer {
	return &Normalizer{
		rng:     rng,
		jitter:  jitter,
		logger:  logger,
		metrics: metrics,
	}
}

// Normalize builds a canonical dataset from a raw table: clean and resolve
// the schema, coerce cell types, synthesize coordinates. The raw table is
// never modified, rows are never dropped, and unbound fields only disable
// their features. The single hard failure is a column-name collision after
// cleaning.
func (n *Normalizer) Normalize(raw domain.Table) (Result, error) {
	cleaned, schema, err := domain.ResolveSchema(raw)
	if err != nil {
		return Result{}, fmt.Errorf("resolve schema: %w", err)
	}

	coerced, schema := domain.Coerce(cleaned, schema)
	n.observeCoercion(cleaned, coerced)

	enriched, schema := domain.EnrichCoordinates(coerced, schema, n.rng, n.jitter)

	n.observe(raw, enriched, schema)

	return Result{
		Dataset:      enriched,
		Schema:       schema,
		NormalizedAt: clock.Now(),
	}, nil
}

// observeCoercion counts how many text cells coercion promoted to typed
// values and how many degraded to missing.
func (n *Normalizer) observeCoercion(before, after domain.Table) {
	var promoted, degraded int
	for i, row := range after.Rows {
		for _, col := range after.Columns {
			prev := before.Rows[i][col]
			cur := row[col]
			if prev.Kind() == cur.Kind() {
				continue
			}
			if cur.IsMissing() {
				degraded++
			} else {
				promoted++
			}
		}
	}
	n.metrics.CellsPromoted.Add(float64(promoted))
	n.metrics.CellsDegraded.Add(float64(degraded))
	if degraded > 0 {
		n.logger.Warn("cells failed coercion and became missing", "cells", degraded)
	}
}

func (n *Normalizer) observe(raw, enriched domain.Table, schema domain.Schema) {
	bound := schema.Fields()
	unbound := unboundFields(schema)

	n.metrics.RowsIngested.Add(float64(raw.NumRows()))
	n.metrics.DatasetsNormalized.Inc()
	n.metrics.FieldsUnbound.Set(float64(len(unbound)))

	n.logger.Info("dataset normalized",
		"rows", enriched.NumRows(),
		"columns", len(enriched.Columns),
		"bound_fields", len(bound),
	)
	for _, f := range unbound {
		n.logger.Warn("semantic field unbound, dependent features disabled", "field", string(f))
	}
}

func unboundFields(schema domain.Schema) []domain.Field {
	var out []domain.Field
	for _, f := range domain.AllFields() {
		if !schema.Bound(f) {
			out = append(out, f)
		}
	}
	return out
}
