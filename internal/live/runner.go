package live

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/thesibtainrazza/smart-city-dashboard/internal/domain"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/observability"
)

// Synthetic reading bounds, matching the portal's simulation ranges.
const (
	aqiMin, aqiMax   = 40, 320
	pm25Min, pm25Max = 10, 200
	tempMin, tempMax = 18.0, 34.0
)

// EmitFunc receives a buffer snapshot after every tick. Returning an error
// stops the run; the usual cause is the presentation side going away.
type EmitFunc func(snapshot []Reading) error

// Runner drives one simulation run over a buffer: one synthetic reading per
// tick, a snapshot emit after each append, and a cooperative inter-tick
// delay on the injected clock. Cancellation is polled at every tick
// boundary, so toggling the run off stops it promptly instead of completing
// the full tick count.
type Runner struct {
	clock   clockwork.Clock
	rng     *rand.Rand
	ticks   int
	delay   time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRunner creates a Runner. clock and rng are injected so tests can drive
// ticks and assert deterministic readings.
func NewRunner(clock clockwork.Clock, rng *rand.Rand, ticks int, delay time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		clock:   clock,
		rng:     rng,
		ticks:   ticks,
		delay:   delay,
		logger:  logger,
		metrics: metrics,
	}
}

// Run streams the fixed number of ticks into buf, emitting a snapshot to
// emit after every append. The buffer must be owned exclusively by this
// run. Run returns nil after the final tick or on cancellation; only emit
// failures are errors. The buffer is Finished on every exit path.
func (r *Runner) Run(ctx context.Context, buf *Buffer, emit EmitFunc) error {
	if emit == nil {
		emit = func([]Reading) error { return nil }
	}

	run := uuid.NewString()
	r.logger.Info("simulation run starting", "run_id", run, "ticks", r.ticks, "delay", r.delay, "seeded", buf.Len())

	r.metrics.LiveRunsActive.Inc()
	defer r.metrics.LiveRunsActive.Dec()
	defer buf.Finish()

	for i := 0; i < r.ticks; i++ {
		if ctx.Err() != nil {
			r.logger.Info("simulation run cancelled", "run_id", run, "ticks_done", i)
			return nil
		}

		buf.Append(r.generate())
		r.metrics.LiveTicks.Inc()

		if err := emit(buf.Snapshot()); err != nil {
			r.logger.Warn("simulation emit failed, stopping run", "run_id", run, "error", err)
			return fmt.Errorf("emit snapshot: %w", err)
		}

		if i < r.ticks-1 && !r.sleep(ctx) {
			r.logger.Info("simulation run cancelled", "run_id", run, "ticks_done", i+1)
			return nil
		}
	}

	r.logger.Info("simulation run finished", "run_id", run, "readings", buf.Len())
	return nil
}

// generate draws one synthetic reading: AQI and PM2.5 as bounded uniform
// integers, temperature uniform with two-decimal rounding, timestamp from
// the run's clock.
func (r *Runner) generate() Reading {
	temp := tempMin + r.rng.Float64()*(tempMax-tempMin)
	return Reading{
		Time:        domain.Time(r.clock.Now()),
		AQI:         domain.Numeric(float64(aqiMin + r.rng.Intn(aqiMax-aqiMin+1))),
		PM25:        domain.Numeric(float64(pm25Min + r.rng.Intn(pm25Max-pm25Min+1))),
		Temperature: domain.Numeric(math.Round(temp*100) / 100),
	}
}

// sleep waits out the inter-tick delay. Returns false when the context was
// cancelled first.
func (r *Runner) sleep(ctx context.Context) bool {
	if r.delay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-r.clock.After(r.delay):
		return true
	}
}
