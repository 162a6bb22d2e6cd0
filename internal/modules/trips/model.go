// README: Saved trip documents and their itinerary / unused POI rows.
package trips

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("trip not found")
	ErrInvalidTrip = errors.New("invalid trip")
)

const (
	tripsCollection   = "trips"
	itineraryPOIsColl = "itineraryPOIs"
	unusedPOIsColl    = "unusedPOIs"
)

// Trip is the top-level trip document.
type Trip struct {
	ID              string    `firestore:"-" json:"id"`
	UserID          string    `firestore:"userId" json:"user_id"`
	Title           string    `firestore:"title" json:"title"`
	City            string    `firestore:"city" json:"city"`
	Country         string    `firestore:"country" json:"country,omitempty"`
	Lat             float64   `firestore:"lat" json:"lat"`
	Lng             float64   `firestore:"lng" json:"lng"`
	FromDate        time.Time `firestore:"fromDate,omitempty" json:"from_date,omitempty"`
	ToDate          time.Time `firestore:"toDate,omitempty" json:"to_date,omitempty"`
	Days            int       `firestore:"days" json:"days"`
	Interests       []string  `firestore:"interests" json:"interests"`
	FoodPreferences []string  `firestore:"foodPreferences" json:"food_preferences"`
	Itinerary       string    `firestore:"itinerary" json:"itinerary"`
	CreatedAt       time.Time `firestore:"createdAt" json:"created_at"`
}

// ItineraryPOI is one scheduled visit, stored under trips/{id}/itineraryPOIs.
type ItineraryPOI struct {
	PlaceID      string   `firestore:"placeId" json:"place_id"`
	Name         string   `firestore:"name" json:"name"`
	Type         string   `firestore:"type" json:"type"`
	Day          int      `firestore:"day" json:"day"`
	TimeSlot     string   `firestore:"timeSlot" json:"time_slot"`
	StartTime    string   `firestore:"startTime" json:"start_time"`
	EndTime      string   `firestore:"endTime" json:"end_time"`
	StartMinutes int      `firestore:"startMinutes" json:"start_minutes"`
	EndMinutes   int      `firestore:"endMinutes" json:"end_minutes"`
	Duration     int      `firestore:"duration" json:"duration"`
	Lat          *float64 `firestore:"lat,omitempty" json:"lat,omitempty"`
	Lng          *float64 `firestore:"lng,omitempty" json:"lng,omitempty"`
}

// UnusedPOI is a candidate the itinerary left out, stored under trips/{id}/unusedPOIs.
type UnusedPOI struct {
	PlaceID  string `firestore:"placeId" json:"place_id"`
	Name     string `firestore:"name" json:"name"`
	Category string `firestore:"category" json:"category"`
}

// TripDetail is a trip with its subcollections.
type TripDetail struct {
	Trip
	ItineraryPOIs []ItineraryPOI `json:"itinerary_pois"`
	UnusedPOIs    []UnusedPOI    `json:"unused_pois"`
}
