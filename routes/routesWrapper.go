package routes

import (
	"github.com/julienschmidt/httprouter"

	"tripwise/auth"
	"tripwise/destinations"
	"tripwise/feedback"
	"tripwise/itinerary"
	"tripwise/livefeed"
	"tripwise/middleware"
	"tripwise/ratelim"
)

// Deps carries the handlers and shared middleware the routes are built from.
type Deps struct {
	Auth         *auth.Handler
	Destinations *destinations.Handler
	Itineraries  *itinerary.Handler
	Feedback     *feedback.Handler
	Hub          *livefeed.Hub

	Guard   *middleware.Auth
	Limiter *ratelim.RateLimiter
}

func RoutesWrapper(router *httprouter.Router, d *Deps) {
	AddAuthRoutes(router, d)
	AddDestinationRoutes(router, d)
	AddItineraryRoutes(router, d)
	AddFeedbackRoutes(router, d)
	AddLiveRoutes(router, d)
}
