package itinerary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/maps"
	"wayfarer/internal/types"
)

var lisbon = types.Point{Lat: 38.7223, Lng: -9.1393}

func newTestBalancer(f *fakeSearcher) *Balancer {
	return NewBalancer(f, BalancerConfig{}, discardLogger())
}

// TestEnsureSufficientSkipsUnmappedPreferenceTier verifies that an unmapped
// preference goes straight to the generic search, then the backups.
func TestEnsureSufficientSkipsUnmappedPreferenceTier(t *testing.T) {
	f := newFakeSearcher()
	f.results["nearby:meal_takeaway"] = []maps.Place{
		place("r1", "Bifanas", "meal_takeaway", 38.71, -9.13),
		place("r2", "Prego Bar", "meal_takeaway", 38.72, -9.14),
	}

	got := newTestBalancer(f).EnsureSufficient(context.Background(), nil, lisbon, []string{"Unknown cuisine"}, CategoryRestaurant, 2)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"nearby:restaurant", "nearby:meal_takeaway"}, f.Calls())
}

func TestEnsureSufficientPreferenceTierFirstAndBounded(t *testing.T) {
	f := newFakeSearcher()
	f.results["nearby:italian_restaurant"] = []maps.Place{
		place("i1", "Forno", "italian_restaurant", 38.71, -9.13),
		place("i2", "Trattoria", "italian_restaurant", 38.72, -9.14),
		place("i3", "Osteria", "italian_restaurant", 38.73, -9.15),
	}

	got := newTestBalancer(f).EnsureSufficient(context.Background(), nil, lisbon, []string{"Italian"}, CategoryRestaurant, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "i1", got[0].PlaceID)
	assert.Equal(t, CategoryRestaurant, got[0].Category)
	assert.Equal(t, []string{"nearby:italian_restaurant"}, f.Calls())
}

func TestEnsureSufficientDeduplicatesAgainstExistingAndAccepted(t *testing.T) {
	existing := []PlaceCandidate{{PlaceID: "c0", Name: "A Brasileira", Category: CategoryCafe, Coordinates: types.Point{Lat: 38.7107, Lng: -9.1424}}}
	f := newFakeSearcher()
	f.results["nearby:cafe"] = []maps.Place{
		place("c1", "  a brasileira ", "cafe", 38.70, -9.10), // same name
		place("c2", "Next Door", "cafe", 38.71072, -9.14238), // same rounded point
		place("c0", "Renamed", "cafe", 38.60, -9.20),         // same id
		place("c3", "Fábrica Coffee", "coffee_shop", 38.72, -9.14),
		place("c4", "Fabrica Coffee Bar", "cafe", 38.72004, -9.14), // dup of accepted c3 by point
		place("c5", "Manteigaria", "bakery", 38.7105, -9.1440),
	}

	got := newTestBalancer(f).EnsureSufficient(context.Background(), existing, lisbon, nil, CategoryCafe, 5)

	var ids []string
	for _, c := range got {
		ids = append(ids, c.PlaceID)
	}
	assert.Equal(t, []string{"c3", "c5"}, ids)
	assertNoDuplicates(t, append(existing, got...))
}

func TestEnsureSufficientAppliesValidity(t *testing.T) {
	f := newFakeSearcher()
	f.results["nearby:cafe"] = []maps.Place{
		place("x1", "Cervejaria", "restaurant", 38.71, -9.13),
		place("x2", "Padaria", "bakery", 38.72, -9.13),
	}
	f.results["nearby:restaurant"] = []maps.Place{
		place("y1", "Sushi Bar", "japanese_restaurant", 38.73, -9.13),
		place("y2", "Bean There", "coffee_shop", 38.74, -9.13),
	}
	b := newTestBalancer(f)

	cafes := b.EnsureSufficient(context.Background(), nil, lisbon, nil, CategoryCafe, 1)
	restaurants := b.EnsureSufficient(context.Background(), nil, lisbon, nil, CategoryRestaurant, 1)

	require.Len(t, cafes, 1)
	assert.Equal(t, "x2", cafes[0].PlaceID)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "y1", restaurants[0].PlaceID)
}

func TestEnsureSufficientSurvivesProviderErrors(t *testing.T) {
	f := newFakeSearcher()
	f.errs["nearby:cafe"] = errors.New("OVER_QUERY_LIMIT")
	f.errs["nearby:bakery"] = errors.New("timeout")
	f.results["text:cafe"] = []maps.Place{place("t1", "Cafe Janis", "cafe", 38.71, -9.14)}

	got := newTestBalancer(f).EnsureSufficient(context.Background(), nil, lisbon, []string{"Coffee"}, CategoryCafe, 1)

	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].PlaceID)
	assert.Equal(t, []string{
		"nearby:coffee_shop", "nearby:cafe", // preference tier
		"nearby:bakery", "nearby:tea_house", "nearby:cafeteria", // backups, coffee_shop and cafe already queried
		"text:cafe",
	}, f.Calls())
}

func TestEnsureSufficientReturnsPartialWhenExhausted(t *testing.T) {
	f := newFakeSearcher()
	f.results["nearby:tourist_attraction"] = []maps.Place{place("a1", "Belém Tower", "tourist_attraction", 38.69, -9.21)}

	got := newTestBalancer(f).EnsureSufficient(context.Background(), nil, lisbon, nil, CategoryAttraction, 3)

	assert.Len(t, got, 1)
	assert.Contains(t, f.Calls(), "text:tourist attraction")
}

func TestEnsureSufficientPassesSearchSettings(t *testing.T) {
	f := newFakeSearcher()
	NewBalancer(f, BalancerConfig{RadiusM: 1500, MaxResults: 10}, discardLogger()).
		EnsureSufficient(context.Background(), nil, lisbon, nil, CategoryCafe, 1)

	require.NotEmpty(t, f.nearby)
	q := f.nearby[0]
	assert.Equal(t, uint(1500), q.RadiusM)
	assert.Equal(t, 10, q.MaxResults)
	assert.Equal(t, lisbon, q.Center)
	assert.Contains(t, q.ExcludedTypes, "restaurant")
}

func TestEnsureSufficientStopsOnCancelledContext(t *testing.T) {
	f := newFakeSearcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := newTestBalancer(f).EnsureSufficient(ctx, nil, lisbon, []string{"Italian"}, CategoryRestaurant, 2)

	assert.Empty(t, got)
	assert.Empty(t, f.Calls())
}

func TestEnsureSufficientNothingNeeded(t *testing.T) {
	f := newFakeSearcher()
	assert.Nil(t, newTestBalancer(f).EnsureSufficient(context.Background(), nil, lisbon, nil, CategoryCafe, 0))
	assert.Empty(t, f.Calls())
}
