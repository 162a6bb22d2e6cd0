package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wayfarer/internal/types"
)

func TestDayCount(t *testing.T) {
	from := time.Date(2026, 5, 1, 22, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 3, 6, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, TripParameters{From: from, To: to, Days: 7}.DayCount(), "range wins over Days")
	assert.Equal(t, 1, TripParameters{From: from, To: from}.DayCount())
	assert.Equal(t, 4, TripParameters{Days: 4}.DayCount())
	assert.Equal(t, 4, TripParameters{From: from, Days: 4}.DayCount(), "half-open range falls back to Days")
}

func TestValidate(t *testing.T) {
	ok := TripParameters{City: "Lisbon", Center: types.Point{Lat: 38.7, Lng: -9.1}, Days: 2}
	assert.NoError(t, ok.Validate())

	cases := map[string]func(p *TripParameters){
		"no city":      func(p *TripParameters) { p.City = " " },
		"zero days":    func(p *TripParameters) { p.Days = 0 },
		"too long":     func(p *TripParameters) { p.Days = MaxTripDays + 1 },
		"bad latitude": func(p *TripParameters) { p.Center.Lat = 91 },
		"reversed": func(p *TripParameters) {
			p.From = time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
			p.To = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := ok
			mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidTrip)
		})
	}
}

func TestQuotaFor(t *testing.T) {
	assert.Equal(t, CategoryQuota{Category: CategoryAttraction, Required: 4, Existing: 1, Shortfall: 3}, QuotaFor(CategoryAttraction, 2, 1))
	assert.Equal(t, CategoryQuota{Category: CategoryRestaurant, Required: 4, Existing: 0, Shortfall: 4}, QuotaFor(CategoryRestaurant, 2, 0))
	assert.Equal(t, CategoryQuota{Category: CategoryCafe, Required: 2, Existing: 5, Shortfall: 0}, QuotaFor(CategoryCafe, 2, 5))
}

func TestPreferencesByCategory(t *testing.T) {
	p := TripParameters{Interests: []string{"Museums"}, FoodPreferences: []string{"Thai"}}
	assert.Equal(t, []string{"Museums"}, p.Preferences(CategoryAttraction))
	assert.Equal(t, []string{"Thai"}, p.Preferences(CategoryRestaurant))
	assert.Equal(t, []string{"Thai"}, p.Preferences(CategoryCafe))
}
