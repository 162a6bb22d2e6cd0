// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/http/handlers"
	"wayfarer/internal/http/middleware"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(deps.Log), middleware.Recovery(deps.Log))

	api := r.Group("/api")

	itineraryHandler := handlers.NewItineraryHandler(deps.Generator, deps.Quota, deps.Locator, deps.Log)
	api.POST("/trip/generate", itineraryHandler.Generate)

	chatHandler := handlers.NewChatHandler(deps.Chat, deps.ChatTimeout, deps.Log)
	api.POST("/chat/completion", chatHandler.Completion)

	placesHandler := handlers.NewPlacesHandler(deps.Places)
	api.GET("/places/nearby", placesHandler.Nearby)
	api.GET("/places/textsearch", placesHandler.TextSearch)

	if deps.Trips != nil {
		tripHandler := handlers.NewTripHandler(deps.Trips)
		api.POST("/trips", tripHandler.Create)
		api.GET("/trips/:id", tripHandler.Get)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}
	return r
}
