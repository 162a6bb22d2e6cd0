package itinerary

import (
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	metricsOnce        sync.Once
	placesQueries      otelmetric.Int64Counter
	backfillAccepted   otelmetric.Int64Counter
	generations        otelmetric.Int64Counter
	generationDuration otelmetric.Float64Histogram
)

func initMetrics() {
	meter := otel.Meter("wayfarer/itinerary")
	var err error
	placesQueries, err = meter.Int64Counter(
		"wayfarer_places_queries_total",
		otelmetric.WithDescription("Places provider queries issued during backfill, by tier and outcome"),
	)
	if err != nil {
		slog.Warn("itinerary metrics init", "instrument", "wayfarer_places_queries_total", "err", err)
		placesQueries = noop.Int64Counter{}
	}
	backfillAccepted, err = meter.Int64Counter(
		"wayfarer_backfill_accepted_total",
		otelmetric.WithDescription("Candidates accepted into a pool, by category and tier"),
	)
	if err != nil {
		slog.Warn("itinerary metrics init", "instrument", "wayfarer_backfill_accepted_total", "err", err)
		backfillAccepted = noop.Int64Counter{}
	}
	generations, err = meter.Int64Counter(
		"wayfarer_generations_total",
		otelmetric.WithDescription("Itinerary generations, by outcome"),
	)
	if err != nil {
		slog.Warn("itinerary metrics init", "instrument", "wayfarer_generations_total", "err", err)
		generations = noop.Int64Counter{}
	}
	generationDuration, err = meter.Float64Histogram(
		"wayfarer_generation_duration_seconds",
		otelmetric.WithDescription("Wall time of one itinerary generation"),
		otelmetric.WithUnit("s"),
	)
	if err != nil {
		slog.Warn("itinerary metrics init", "instrument", "wayfarer_generation_duration_seconds", "err", err)
		generationDuration = noop.Float64Histogram{}
	}
}
