// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/ai"
	"wayfarer/internal/modules/itinerary"
	"wayfarer/internal/modules/quota"
	"wayfarer/internal/modules/trips"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts the user and document ids issued by the auth provider and Firestore.
func isValidID(v string) bool {
	if v == "" || len(v) > 128 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeGenerationError(c *gin.Context, err error) {
	var genErr *itinerary.GenerationError
	switch {
	case errors.Is(err, quota.ErrQuotaExhausted):
		writeError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, quota.ErrMissingUser):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "itinerary generation timed out")
	case errors.As(err, &genErr):
		switch genErr.Step {
		case itinerary.StepValidate, itinerary.StepParse:
			writeError(c, http.StatusUnprocessableEntity, err.Error())
		case itinerary.StepCompletion:
			writeError(c, http.StatusBadGateway, "completion provider failed")
		case itinerary.StepBackfill:
			writeError(c, http.StatusGatewayTimeout, "place search did not finish")
		default:
			writeError(c, http.StatusInternalServerError, "internal error")
		}
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trips.ErrInvalidTrip):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trips.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeChatError(c *gin.Context, err error) {
	var te *ai.TransportError
	switch {
	case errors.Is(err, ai.ErrInvalidRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "completion timed out")
	case errors.As(err, &te), errors.Is(err, ai.ErrEmptyCompletion):
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
