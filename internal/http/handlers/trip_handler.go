// README: Saved trip handlers.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/modules/trips"
)

// TripStore saves and loads trips.
type TripStore interface {
	Save(ctx context.Context, cmd trips.SaveCommand) (string, error)
	Get(ctx context.Context, id string) (*trips.TripDetail, error)
}

type TripHandler struct {
	trips TripStore
}

func NewTripHandler(store TripStore) *TripHandler {
	return &TripHandler{trips: store}
}

type saveTripReq struct {
	UserID    string      `json:"user_id"`
	Title     string      `json:"title"`
	TripData  tripDataDTO `json:"trip_data"`
	Itinerary string      `json:"itinerary"`
}

// Create handles POST /api/trips.
func (h *TripHandler) Create(c *gin.Context) {
	var req saveTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if !isValidID(req.UserID) {
		writeError(c, http.StatusBadRequest, "missing or invalid user_id")
		return
	}
	id, err := h.trips.Save(c.Request.Context(), trips.SaveCommand{
		UserID:    req.UserID,
		Title:     req.Title,
		Params:    req.TripData.params(),
		Itinerary: req.Itinerary,
	})
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"id": id})
}

// Get handles GET /api/trips/:id.
func (h *TripHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusNotFound, trips.ErrNotFound.Error())
		return
	}
	detail, err := h.trips.Get(c.Request.Context(), id)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, detail)
}
