// README: Trip parameters, candidate places and per-category quotas for itinerary generation.
package itinerary

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wayfarer/internal/types"
)

// MaxTripDays bounds a single generation run.
const MaxTripDays = 30

var ErrInvalidTrip = errors.New("invalid trip parameters")

type Category string

const (
	CategoryAttraction Category = "attraction"
	CategoryRestaurant Category = "restaurant"
	CategoryCafe       Category = "cafe"
)

// Categories lists every pool in prompt order.
var Categories = []Category{CategoryAttraction, CategoryRestaurant, CategoryCafe}

func (c Category) Valid() bool {
	switch c {
	case CategoryAttraction, CategoryRestaurant, CategoryCafe:
		return true
	}
	return false
}

// Label is the human-readable singular used in prompts.
func (c Category) Label() string {
	switch c {
	case CategoryAttraction:
		return "Attraction"
	case CategoryRestaurant:
		return "Restaurant"
	case CategoryCafe:
		return "Cafe"
	}
	return string(c)
}

// UnusedKey is the key of this category's list in the itinerary's "Unused" section.
func (c Category) UnusedKey() string {
	switch c {
	case CategoryAttraction:
		return "Attractions"
	case CategoryRestaurant:
		return "Restaurants"
	case CategoryCafe:
		return "Cafes"
	}
	return string(c)
}

// PlaceCandidate is a place that may be scheduled into an itinerary.
type PlaceCandidate struct {
	PlaceID     string      `json:"place_id"`
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Coordinates types.Point `json:"coordinates"`
}

// TripParameters is the immutable input of one generation run. When From and
// To are both set the day count is derived from them, otherwise Days is used.
type TripParameters struct {
	City            string
	Country         string
	Center          types.Point
	From            time.Time
	To              time.Time
	Days            int
	Interests       []string
	FoodPreferences []string
}

// DayCount returns the inclusive number of calendar days of the trip.
func (p TripParameters) DayCount() int {
	if p.From.IsZero() || p.To.IsZero() {
		return p.Days
	}
	from := time.Date(p.From.Year(), p.From.Month(), p.From.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(p.To.Year(), p.To.Month(), p.To.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours()/24) + 1
}

func (p TripParameters) Validate() error {
	if strings.TrimSpace(p.City) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidTrip)
	}
	if p.Center.Lat < -90 || p.Center.Lat > 90 || p.Center.Lng < -180 || p.Center.Lng > 180 {
		return fmt.Errorf("%w: center %v out of range", ErrInvalidTrip, p.Center)
	}
	if !p.From.IsZero() && !p.To.IsZero() && p.To.Before(p.From) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidTrip)
	}
	if d := p.DayCount(); d < 1 || d > MaxTripDays {
		return fmt.Errorf("%w: day count %d not in 1..%d", ErrInvalidTrip, d, MaxTripDays)
	}
	return nil
}

// Preferences returns the tags that steer backfill for a category: interests
// for attractions, food preferences for restaurants and cafes.
func (p TripParameters) Preferences(c Category) []string {
	if c == CategoryAttraction {
		return p.Interests
	}
	return p.FoodPreferences
}

// dayMultipliers is the required-count policy: places per category per day.
var dayMultipliers = map[Category]int{
	CategoryAttraction: 2,
	CategoryRestaurant: 2,
	CategoryCafe:       1,
}

type CategoryQuota struct {
	Category  Category
	Required  int
	Existing  int
	Shortfall int
}

func QuotaFor(c Category, days, existing int) CategoryQuota {
	required := dayMultipliers[c] * days
	return CategoryQuota{
		Category:  c,
		Required:  required,
		Existing:  existing,
		Shortfall: max(0, required-existing),
	}
}

// Pools holds the candidate list of each category.
type Pools struct {
	Attractions []PlaceCandidate
	Restaurants []PlaceCandidate
	Cafes       []PlaceCandidate
}

func (p Pools) Of(c Category) []PlaceCandidate {
	switch c {
	case CategoryAttraction:
		return p.Attractions
	case CategoryRestaurant:
		return p.Restaurants
	case CategoryCafe:
		return p.Cafes
	}
	return nil
}

func (p *Pools) set(c Category, list []PlaceCandidate) {
	switch c {
	case CategoryAttraction:
		p.Attractions = list
	case CategoryRestaurant:
		p.Restaurants = list
	case CategoryCafe:
		p.Cafes = list
	}
}

// Total counts candidates across all pools.
func (p Pools) Total() int {
	return len(p.Attractions) + len(p.Restaurants) + len(p.Cafes)
}
