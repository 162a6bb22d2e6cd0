package trips

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against the Firestore emulator when FIRESTORE_EMULATOR_HOST is set.
func TestStoreRoundTrip(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := firestore.NewClient(ctx, "wayfarer-test")
	require.NoError(t, err)
	defer client.Close()

	store := NewStore(client)
	lat, lng := 1.3, 103.8
	in := TripDetail{
		Trip: Trip{UserID: "u1", Title: "t", City: "Singapore", Days: 1, Itinerary: "{}", CreatedAt: time.Now().UTC()},
		ItineraryPOIs: []ItineraryPOI{
			{PlaceID: "p2", Day: 1, TimeSlot: "Evening", StartMinutes: 1140},
			{PlaceID: "p1", Day: 1, TimeSlot: "Morning", StartMinutes: 480, Lat: &lat, Lng: &lng},
		},
		UnusedPOIs: []UnusedPOI{{PlaceID: "p9", Name: "Zoo", Category: "attraction"}},
	}

	id, err := store.Create(ctx, in)
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Singapore", got.City)
	require.Len(t, got.ItineraryPOIs, 2)
	assert.Equal(t, "p1", got.ItineraryPOIs[0].PlaceID)
	require.NotNil(t, got.ItineraryPOIs[0].Lat)
	assert.Equal(t, in.UnusedPOIs, got.UnusedPOIs)

	_, err = store.Get(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}
