// README: Candidate pool backfill: tiered places search with validity filtering and incremental dedup.
package itinerary

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"wayfarer/internal/maps"
	"wayfarer/internal/types"
)

const (
	DefaultSearchRadiusM = 3000
	DefaultMaxResults    = 20
)

var tracer = otel.Tracer("wayfarer/itinerary")

// PlaceSearcher is the places provider used for backfill.
type PlaceSearcher interface {
	SearchNearby(ctx context.Context, q maps.NearbyQuery) ([]maps.Place, error)
	SearchText(ctx context.Context, q maps.TextQuery) ([]maps.Place, error)
}

// Tier names a backfill search stage.
type Tier string

const (
	TierPreference Tier = "preference"
	TierGeneric    Tier = "generic"
	TierBackup     Tier = "backup"
	TierText       Tier = "text"
)

// ProviderQueryError is a failed places query. The balancer logs it and
// treats it as an empty result.
type ProviderQueryError struct {
	Category Category
	Tier     Tier
	Query    string
	Err      error
}

func (e *ProviderQueryError) Error() string {
	return fmt.Sprintf("places query %s/%s %q: %v", e.Category, e.Tier, e.Query, e.Err)
}

func (e *ProviderQueryError) Unwrap() error { return e.Err }

type BalancerConfig struct {
	RadiusM    uint
	MaxResults int
}

type Balancer struct {
	places     PlaceSearcher
	radiusM    uint
	maxResults int
	log        *slog.Logger
}

func NewBalancer(places PlaceSearcher, cfg BalancerConfig, log *slog.Logger) *Balancer {
	metricsOnce.Do(initMetrics)
	if cfg.RadiusM == 0 {
		cfg.RadiusM = DefaultSearchRadiusM
	}
	if cfg.MaxResults <= 0 || cfg.MaxResults > maps.MaxResultsLimit {
		cfg.MaxResults = DefaultMaxResults
	}
	return &Balancer{places: places, radiusM: cfg.RadiusM, maxResults: cfg.MaxResults, log: log}
}

// EnsureSufficient searches for up to needed new candidates of category that
// do not duplicate current or each other. It returns only the new candidates,
// possibly fewer than needed when every tier is exhausted or ctx ends.
func (b *Balancer) EnsureSufficient(ctx context.Context, current []PlaceCandidate, center types.Point, preferences []string, category Category, needed int) []PlaceCandidate {
	if needed <= 0 || !category.Valid() {
		return nil
	}
	ctx, span := tracer.Start(ctx, "itinerary.backfill")
	defer span.End()

	run := &backfillRun{
		b:        b,
		category: category,
		center:   center,
		needed:   needed,
		tracker:  newDedupTracker(current),
		queried:  map[string]bool{},
		accepted: make([]PlaceCandidate, 0, needed),
	}

	for _, t := range preferenceTypes(preferences, category) {
		if !run.nearby(ctx, TierPreference, t) {
			break
		}
	}
	if !run.done(ctx) {
		run.nearby(ctx, TierGeneric, genericTypes[category])
	}
	for _, t := range backupTypes[category] {
		if !run.nearby(ctx, TierBackup, t) {
			break
		}
	}
	if !run.done(ctx) {
		run.text(ctx, textQueries[category])
	}

	span.SetAttributes(
		attribute.String("category", string(category)),
		attribute.Int("needed", needed),
		attribute.Int("accepted", len(run.accepted)),
	)
	b.log.Debug("backfill finished",
		"category", category, "needed", needed, "accepted", len(run.accepted), "queries", len(run.queried))
	return run.accepted
}

// preferenceTypes expands preferences through the mapper, keeping each type
// once and only types that can yield candidates for category.
func preferenceTypes(preferences []string, category Category) []string {
	seen := map[string]bool{}
	var out []string
	for _, pref := range preferences {
		for _, t := range MapPreference(pref, category) {
			if seen[t] || !searchableFor(category, t) {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// backfillRun is the state of one EnsureSufficient call.
type backfillRun struct {
	b        *Balancer
	category Category
	center   types.Point
	needed   int
	tracker  *dedupTracker
	queried  map[string]bool
	accepted []PlaceCandidate
}

func (r *backfillRun) done(ctx context.Context) bool {
	return len(r.accepted) >= r.needed || ctx.Err() != nil
}

// nearby runs one typed search unless that type was already queried. It
// reports whether later searches should still run.
func (r *backfillRun) nearby(ctx context.Context, tier Tier, placeType string) bool {
	if r.done(ctx) {
		return false
	}
	if placeType == "" || r.queried[placeType] {
		return true
	}
	r.queried[placeType] = true

	places, err := r.b.places.SearchNearby(ctx, maps.NearbyQuery{
		Center:        r.center,
		RadiusM:       r.b.radiusM,
		IncludedType:  placeType,
		ExcludedTypes: ExclusionsFor(r.category),
		MaxResults:    r.b.maxResults,
	})
	r.consume(ctx, tier, placeType, places, err)
	return !r.done(ctx)
}

func (r *backfillRun) text(ctx context.Context, query string) {
	r.queried["text:"+query] = true
	places, err := r.b.places.SearchText(ctx, maps.TextQuery{
		Query:         query,
		Center:        r.center,
		RadiusM:       r.b.radiusM,
		ExcludedTypes: ExclusionsFor(r.category),
		MaxResults:    r.b.maxResults,
	})
	r.consume(ctx, TierText, query, places, err)
}

func (r *backfillRun) consume(ctx context.Context, tier Tier, query string, places []maps.Place, err error) {
	cat := attribute.String("category", string(r.category))
	tr := attribute.String("tier", string(tier))
	if err != nil {
		placesQueries.Add(ctx, 1, otelmetric.WithAttributes(cat, tr, attribute.String("outcome", "error")))
		r.b.log.Warn("places query failed",
			"err", &ProviderQueryError{Category: r.category, Tier: tier, Query: query, Err: err})
		return
	}
	placesQueries.Add(ctx, 1, otelmetric.WithAttributes(cat, tr, attribute.String("outcome", "ok")))

	before := len(r.accepted)
	for _, p := range places {
		if len(r.accepted) >= r.needed {
			break
		}
		if !IsValidFor(r.category, p.PrimaryType) {
			continue
		}
		if !r.tracker.accept(p.ID, p.Name, p.Location) {
			continue
		}
		r.accepted = append(r.accepted, PlaceCandidate{
			PlaceID:     p.ID,
			Name:        p.Name,
			Category:    r.category,
			Coordinates: p.Location,
		})
	}
	if n := len(r.accepted) - before; n > 0 {
		backfillAccepted.Add(ctx, int64(n), otelmetric.WithAttributes(cat, tr))
	}
	r.b.log.Debug("places query",
		"category", r.category, "tier", tier, "query", query, "results", len(places), "accepted", len(r.accepted)-before)
}
