package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/thesibtainrazza/smart-city-dashboard/internal/adapter/httpapi"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/config"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/domain"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/live"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/observability"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/pipeline"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	normalizer := pipeline.NewNormalizer(rng, cfg.JitterRadius, logger, metrics)
	store := pipeline.NewStore(source.CSVFile{Path: cfg.DataFile}, normalizer, logger, metrics)

	// Build the canonical dataset up front: a missing source is fatal and
	// must surface before the service starts answering.
	res, err := store.Get()
	if err != nil {
		if errors.Is(err, source.ErrSourceMissing) {
			logger.Error("raw data source not found, nothing to serve", "path", cfg.DataFile)
		} else {
			logger.Error("initial dataset build failed", "error", err)
		}
		os.Exit(1)
	}
	logger.Info("canonical dataset ready",
		"rows", res.Dataset.NumRows(),
		"bound_fields", len(res.Schema.Fields()),
	)
	if _, ok := domain.CurrentAQI(res.Dataset, res.Schema); !ok {
		logger.Warn("no usable AQI readings in source, summary will be degraded")
	}

	newRunner := func() *live.Runner {
		// Each live run owns its rng: rand.Rand is not safe for the
		// concurrent use two parallel streams would otherwise get.
		runRNG := rand.New(rand.NewSource(time.Now().UnixNano()))
		return live.NewRunner(clockwork.NewRealClock(), runRNG, cfg.LiveTicks, cfg.LiveDelay, logger, metrics)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, store, newRunner, cfg.LiveSeedRows, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
