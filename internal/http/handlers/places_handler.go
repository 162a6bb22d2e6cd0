// README: Places proxy handlers (nearby and text search).
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/maps"
	"wayfarer/internal/types"
)

type PlacesHandler struct {
	places maps.Searcher
}

func NewPlacesHandler(places maps.Searcher) *PlacesHandler {
	return &PlacesHandler{places: places}
}

type placesQuery struct {
	Latitude   *float64 `form:"latitude" binding:"required"`
	Longitude  *float64 `form:"longitude" binding:"required"`
	Radius     uint     `form:"radius"`
	Type       string   `form:"type"`
	Exclude    []string `form:"exclude"`
	MaxResults int      `form:"max_results"`
}

func (q placesQuery) center() types.Point {
	return types.Point{Lat: *q.Latitude, Lng: *q.Longitude}
}

func (q placesQuery) valid() bool {
	p := q.center()
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180 && q.MaxResults >= 0
}

// Nearby handles GET /api/places/nearby.
func (h *PlacesHandler) Nearby(c *gin.Context) {
	var q placesQuery
	if err := c.ShouldBindQuery(&q); err != nil || !q.valid() {
		writeError(c, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	if q.Radius == 0 {
		q.Radius = 1000
	}
	if q.MaxResults == 0 {
		q.MaxResults = 10
	}
	places, err := h.places.SearchNearby(c.Request.Context(), maps.NearbyQuery{
		Center:        q.center(),
		RadiusM:       q.Radius,
		IncludedType:  strings.TrimSpace(q.Type),
		ExcludedTypes: q.Exclude,
		MaxResults:    q.MaxResults,
	})
	if err != nil {
		writeError(c, http.StatusBadGateway, "places provider failed")
		return
	}
	writeJSON(c, http.StatusOK, nonNil(places))
}

// TextSearch handles GET /api/places/textsearch.
func (h *PlacesHandler) TextSearch(c *gin.Context) {
	var q placesQuery
	if err := c.ShouldBindQuery(&q); err != nil || !q.valid() {
		writeError(c, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		writeError(c, http.StatusBadRequest, "query is required")
		return
	}
	if q.Radius == 0 {
		q.Radius = 2000
	}
	if q.MaxResults == 0 {
		q.MaxResults = maps.MaxResultsLimit
	}
	places, err := h.places.SearchText(c.Request.Context(), maps.TextQuery{
		Query:         query,
		Center:        q.center(),
		RadiusM:       q.Radius,
		ExcludedTypes: q.Exclude,
		MaxResults:    q.MaxResults,
	})
	if err != nil {
		writeError(c, http.StatusBadGateway, "places provider failed")
		return
	}
	writeJSON(c, http.StatusOK, nonNil(places))
}

func nonNil(p []maps.Place) []maps.Place {
	if p == nil {
		return []maps.Place{}
	}
	return p
}
