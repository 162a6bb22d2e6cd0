package itinerary

import (
	"math"
	"strings"

	"wayfarer/internal/types"
)

type coordKey struct{ lat, lng int64 }

// dedupTracker remembers accepted candidates of one pool. A candidate is a
// duplicate when its normalized name, its coordinates rounded to 3 decimals
// or its place id has been seen.
type dedupTracker struct {
	names  map[string]struct{}
	coords map[coordKey]struct{}
	ids    map[string]struct{}
}

func newDedupTracker(seed []PlaceCandidate) *dedupTracker {
	t := &dedupTracker{
		names:  make(map[string]struct{}, len(seed)),
		coords: make(map[coordKey]struct{}, len(seed)),
		ids:    make(map[string]struct{}, len(seed)),
	}
	for _, c := range seed {
		t.add(c.PlaceID, c.Name, c.Coordinates)
	}
	return t
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// roundCoord keys a point at 3-decimal precision. Integers avoid -0 vs 0.
func roundCoord(p types.Point) coordKey {
	return coordKey{
		lat: int64(math.Round(p.Lat * 1000)),
		lng: int64(math.Round(p.Lng * 1000)),
	}
}

func (t *dedupTracker) seen(id, name string, p types.Point) bool {
	if _, ok := t.ids[id]; ok && id != "" {
		return true
	}
	if n := normalizeName(name); n != "" {
		if _, ok := t.names[n]; ok {
			return true
		}
	}
	_, ok := t.coords[roundCoord(p)]
	return ok
}

func (t *dedupTracker) add(id, name string, p types.Point) {
	if id != "" {
		t.ids[id] = struct{}{}
	}
	if n := normalizeName(name); n != "" {
		t.names[n] = struct{}{}
	}
	t.coords[roundCoord(p)] = struct{}{}
}

// accept records the candidate and reports whether it was new.
func (t *dedupTracker) accept(id, name string, p types.Point) bool {
	if t.seen(id, name, p) {
		return false
	}
	t.add(id, name, p)
	return true
}
