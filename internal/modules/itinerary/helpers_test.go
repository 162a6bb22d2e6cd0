package itinerary

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"wayfarer/internal/maps"
	"wayfarer/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func place(id, name, primary string, lat, lng float64) maps.Place {
	return maps.Place{ID: id, Name: name, PrimaryType: primary, Types: []string{primary}, Location: types.Point{Lat: lat, Lng: lng}}
}

// fakeSearcher serves canned results keyed "nearby:<type>" or "text:<query>".
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]maps.Place
	errs    map[string]error
	calls   []string
	nearby  []maps.NearbyQuery
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{results: map[string][]maps.Place{}, errs: map[string]error{}}
}

func (f *fakeSearcher) SearchNearby(_ context.Context, q maps.NearbyQuery) ([]maps.Place, error) {
	return f.serve("nearby:"+q.IncludedType, &q)
}

func (f *fakeSearcher) SearchText(_ context.Context, q maps.TextQuery) ([]maps.Place, error) {
	return f.serve("text:"+q.Query, nil)
}

func (f *fakeSearcher) serve(key string, q *maps.NearbyQuery) ([]maps.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	if q != nil {
		f.nearby = append(f.nearby, *q)
	}
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.results[key], nil
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// assertNoDuplicates checks the pool dedup invariant over names, rounded
// coordinates and ids.
func assertNoDuplicates(t *testing.T, pool []PlaceCandidate) {
	t.Helper()
	names := map[string]string{}
	coords := map[coordKey]string{}
	ids := map[string]bool{}
	for _, p := range pool {
		n := normalizeName(p.Name)
		if other, ok := names[n]; ok {
			assert.Failf(t, "duplicate name", "%s and %s share %q", other, p.PlaceID, n)
		}
		k := roundCoord(p.Coordinates)
		if other, ok := coords[k]; ok {
			assert.Failf(t, "duplicate coordinates", "%s and %s share %v", other, p.PlaceID, k)
		}
		assert.False(t, ids[p.PlaceID], "duplicate id %s", p.PlaceID)
		names[n], coords[k], ids[p.PlaceID] = p.PlaceID, p.PlaceID, true
	}
}
