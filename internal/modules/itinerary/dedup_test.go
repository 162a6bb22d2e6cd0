package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wayfarer/internal/types"
)

func TestDedupTracker(t *testing.T) {
	tr := newDedupTracker([]PlaceCandidate{
		{PlaceID: "a", Name: "Time Out Market", Coordinates: types.Point{Lat: 38.7069, Lng: -9.1459}},
	})

	assert.False(t, tr.accept("b", "  time out MARKET ", types.Point{Lat: 1, Lng: 1}), "same normalized name")
	assert.False(t, tr.accept("c", "Other", types.Point{Lat: 38.70694, Lng: -9.14588}), "same rounded coordinates")
	assert.False(t, tr.accept("a", "Renamed", types.Point{Lat: 2, Lng: 2}), "same id")
	assert.True(t, tr.accept("d", "LX Factory", types.Point{Lat: 38.7036, Lng: -9.1787}))
	assert.False(t, tr.accept("e", "LX Factory", types.Point{Lat: 3, Lng: 3}), "accepted entries are tracked")
}

func TestRoundCoordTreatsNegativeZeroAsZero(t *testing.T) {
	assert.Equal(t, roundCoord(types.Point{Lat: 0, Lng: 0}), roundCoord(types.Point{Lat: -0.0001, Lng: 0.0004}))
	assert.NotEqual(t, roundCoord(types.Point{Lat: 0.0004}), roundCoord(types.Point{Lat: 0.0006}))
}
