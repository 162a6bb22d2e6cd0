package trips

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wayfarer/internal/modules/itinerary"
)

// Repository is the persistence the service needs.
type Repository interface {
	Create(ctx context.Context, d TripDetail) (string, error)
	Get(ctx context.Context, id string) (*TripDetail, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SaveCommand carries a generated itinerary and the trip it was made for.
type SaveCommand struct {
	UserID    string
	Title     string
	Params    itinerary.TripParameters
	Itinerary string
}

// Save flattens the itinerary JSON into POI rows and stores the trip.
func (s *Service) Save(ctx context.Context, cmd SaveCommand) (string, error) {
	if strings.TrimSpace(cmd.UserID) == "" {
		return "", fmt.Errorf("%w: user id is required", ErrInvalidTrip)
	}
	if err := cmd.Params.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTrip, err)
	}
	detail, err := s.buildDetail(cmd)
	if err != nil {
		return "", err
	}
	return s.repo.Create(ctx, detail)
}

func (s *Service) Get(ctx context.Context, id string) (*TripDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) buildDetail(cmd SaveCommand) (TripDetail, error) {
	dec := json.NewDecoder(strings.NewReader(cmd.Itinerary))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return TripDetail{}, fmt.Errorf("%w: itinerary is not a JSON object: %v", ErrInvalidTrip, err)
	}
	flat, err := itinerary.Flatten(doc)
	if err != nil {
		return TripDetail{}, fmt.Errorf("%w: %v", ErrInvalidTrip, err)
	}
	canonical, err := itinerary.Canonical(doc)
	if err != nil {
		return TripDetail{}, fmt.Errorf("%w: %v", ErrInvalidTrip, err)
	}

	p := cmd.Params
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		title = fmt.Sprintf("%d days in %s", p.DayCount(), p.City)
	}
	d := TripDetail{Trip: Trip{
		UserID:          cmd.UserID,
		Title:           title,
		City:            p.City,
		Country:         p.Country,
		Lat:             p.Center.Lat,
		Lng:             p.Center.Lng,
		FromDate:        p.From,
		ToDate:          p.To,
		Days:            p.DayCount(),
		Interests:       p.Interests,
		FoodPreferences: p.FoodPreferences,
		Itinerary:       canonical,
		CreatedAt:       s.now().UTC(),
	}}

	for _, sp := range flat.Scheduled {
		poi := ItineraryPOI{
			PlaceID:      sp.PlaceID,
			Name:         sp.Name,
			Type:         sp.Type,
			Day:          sp.Day,
			TimeSlot:     sp.Slot,
			StartTime:    sp.StartTime,
			EndTime:      sp.EndTime,
			StartMinutes: sp.StartMinutes,
			EndMinutes:   sp.EndMinutes,
			Duration:     sp.Duration,
		}
		if sp.Coordinates != nil {
			lat, lng := sp.Coordinates.Lat, sp.Coordinates.Lng
			poi.Lat, poi.Lng = &lat, &lng
		}
		d.ItineraryPOIs = append(d.ItineraryPOIs, poi)
	}
	for _, u := range flat.Unused {
		d.UnusedPOIs = append(d.UnusedPOIs, UnusedPOI{PlaceID: u.PlaceID, Name: u.Name, Category: string(u.Category)})
	}
	return d, nil
}
