// README: Trip generation handler (quota-guarded itinerary generation).
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/maps"
	"wayfarer/internal/modules/itinerary"
	"wayfarer/internal/types"
)

// Generator produces itinerary JSON text.
type Generator interface {
	Generate(ctx context.Context, params itinerary.TripParameters, attractions, restaurants, cafes []itinerary.PlaceCandidate) (string, error)
}

// TokenSpender deducts one generation from a user's allowance.
type TokenSpender interface {
	UseToken(ctx context.Context, uid string) (int, error)
}

// Locator resolves a trip destination to its center point.
type Locator interface {
	Locate(ctx context.Context, city, country string) (types.Point, error)
}

type ItineraryHandler struct {
	gen     Generator
	quota   TokenSpender
	locator Locator
	log     *slog.Logger
}

// NewItineraryHandler builds the handler. quota may be nil to disable
// metering; locator may be nil, in which case coordinates are required.
func NewItineraryHandler(gen Generator, quota TokenSpender, locator Locator, log *slog.Logger) *ItineraryHandler {
	return &ItineraryHandler{gen: gen, quota: quota, locator: locator, log: log}
}

type poiDTO struct {
	PlaceID     string      `json:"place_id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Coordinates types.Point `json:"coordinates"`
}

type tripDataDTO struct {
	City                  string       `json:"city"`
	Country               string       `json:"country"`
	Coordinates           *types.Point `json:"coordinates"`
	FromDT                *time.Time   `json:"fromDT"`
	ToDT                  *time.Time   `json:"toDT"`
	MonthlyDays           int          `json:"monthly_days"`
	Interests             []string     `json:"interests"`
	FoodPreferences       []string     `json:"food_preferences"`
	CustomInterests       []string     `json:"custom_interests"`
	CustomFoodPreferences []string     `json:"custom_food_preferences"`
}

func (d tripDataDTO) params() itinerary.TripParameters {
	p := itinerary.TripParameters{
		City:            strings.TrimSpace(d.City),
		Country:         strings.TrimSpace(d.Country),
		Days:            d.MonthlyDays,
		Interests:       mergeTags(d.Interests, d.CustomInterests),
		FoodPreferences: mergeTags(d.FoodPreferences, d.CustomFoodPreferences),
	}
	if d.Coordinates != nil {
		p.Center = *d.Coordinates
	}
	if d.FromDT != nil && d.ToDT != nil {
		p.From, p.To = d.FromDT.UTC(), d.ToDT.UTC()
	}
	return p
}

type generateReq struct {
	UserID         string      `json:"user_id"`
	TripData       tripDataDTO `json:"trip_data"`
	AttractionPOIs []poiDTO    `json:"attractionpois"`
	FoodPOIs       []poiDTO    `json:"foodpois"`
	CafePOIs       []poiDTO    `json:"cafepois"`
}

type generateResp struct {
	Itinerary string `json:"itinerary"`
	Remaining *int   `json:"remaining_generations,omitempty"`
}

// Generate handles POST /api/trip/generate.
func (h *ItineraryHandler) Generate(c *gin.Context) {
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if h.quota != nil && !isValidID(req.UserID) {
		writeError(c, http.StatusBadRequest, "missing or invalid user_id")
		return
	}

	params, ok := h.tripParams(c, req.TripData)
	if !ok {
		return
	}

	// Only well-formed trips spend a generation.
	var remaining *int
	if h.quota != nil {
		left, err := h.quota.UseToken(c.Request.Context(), req.UserID)
		if err != nil {
			h.log.WarnContext(c.Request.Context(), "generation quota check failed", "user_id", req.UserID, "err", err)
			writeGenerationError(c, err)
			return
		}
		remaining = &left
	}

	text, err := h.gen.Generate(c.Request.Context(), params,
		candidates(req.AttractionPOIs, itinerary.CategoryAttraction),
		candidates(req.FoodPOIs, itinerary.CategoryRestaurant),
		candidates(req.CafePOIs, itinerary.CategoryCafe),
	)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "itinerary generation failed", "city", req.TripData.City, "err", err)
		writeGenerationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, generateResp{Itinerary: text, Remaining: remaining})
}

// tripParams builds and validates the trip, geocoding the city when the
// request carries no coordinates. It writes the error response itself.
func (h *ItineraryHandler) tripParams(c *gin.Context, d tripDataDTO) (itinerary.TripParameters, bool) {
	params := d.params()
	if d.Coordinates == nil {
		if h.locator == nil {
			writeError(c, http.StatusBadRequest, "trip_data.coordinates is required")
			return params, false
		}
		center, err := h.locator.Locate(c.Request.Context(), params.City, params.Country)
		switch {
		case errors.Is(err, maps.ErrLocationNotFound):
			writeError(c, http.StatusUnprocessableEntity, err.Error())
			return params, false
		case err != nil:
			h.log.ErrorContext(c.Request.Context(), "geocoding failed", "city", params.City, "err", err)
			writeError(c, http.StatusBadGateway, "geocoding provider failed")
			return params, false
		}
		params.Center = center
	}
	if err := params.Validate(); err != nil {
		writeError(c, http.StatusUnprocessableEntity, err.Error())
		return params, false
	}
	return params, true
}

func candidates(in []poiDTO, cat itinerary.Category) []itinerary.PlaceCandidate {
	out := make([]itinerary.PlaceCandidate, 0, len(in))
	for _, p := range in {
		if strings.TrimSpace(p.PlaceID) == "" {
			continue
		}
		out = append(out, itinerary.PlaceCandidate{
			PlaceID:     p.PlaceID,
			Name:        strings.TrimSpace(p.Name),
			Category:    cat,
			Coordinates: p.Coordinates,
		})
	}
	return out
}

// mergeTags appends the free-form custom tags, dropping blanks and repeats.
func mergeTags(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range lists {
		for _, t := range l {
			t = strings.TrimSpace(t)
			key := strings.ToLower(t)
			if t == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, t)
		}
	}
	return out
}
