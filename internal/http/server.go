// README: API gateway; wires handlers to module services.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"wayfarer/internal/ai"
	"wayfarer/internal/http/handlers"
	"wayfarer/internal/maps"
)

type ServerDeps struct {
	Generator handlers.Generator
	Chat      ai.LLMProvider
	Places    maps.Searcher
	// Locator geocodes trips sent without coordinates.
	Locator handlers.Locator
	// Quota and Trips are optional; their routes degrade when nil.
	Quota       handlers.TokenSpender
	Trips       handlers.TripStore
	Metrics     http.Handler
	ChatTimeout time.Duration
	Log         *slog.Logger
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	return NewRouter(s.deps)
}
