package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tripwise/livefeed"
	"tripwise/middleware"
)

// handle registers h under method and path with request metrics attached.
func handle(router *httprouter.Router, method, path string, h httprouter.Handle) {
	router.Handle(method, path, middleware.Observe(path, h))
}

func AddAuthRoutes(router *httprouter.Router, d *Deps) {
	h := d.Auth
	handle(router, http.MethodPost, "/api/auth/register", d.Limiter.Limit(h.Register))
	handle(router, http.MethodPost, "/api/auth/login", d.Limiter.Limit(h.Login))

	handle(router, http.MethodGet, "/api/users/me", d.Guard.Authenticate(h.Me))
	handle(router, http.MethodPut, "/api/users/me", d.Limiter.Limit(d.Guard.Authenticate(h.UpdateMe)))
	handle(router, http.MethodPost, "/api/users/me/password", d.Limiter.Limit(d.Guard.Authenticate(h.ChangePassword)))
	handle(router, http.MethodGet, "/api/users/me/preferences", d.Guard.Authenticate(h.GetPreferences))
	handle(router, http.MethodPut, "/api/users/me/preferences", d.Limiter.Limit(d.Guard.Authenticate(h.UpdatePreferences)))
	handle(router, http.MethodPost, "/api/users/me/deactivate", d.Guard.Authenticate(h.Deactivate))
	handle(router, http.MethodPost, "/api/users/me/reactivate", d.Guard.Authenticate(h.Reactivate))
}

func AddDestinationRoutes(router *httprouter.Router, d *Deps) {
	h := d.Destinations
	handle(router, http.MethodGet, "/api/destinations", d.Limiter.Limit(h.Search))
	handle(router, http.MethodGet, "/api/destinations/nearby", d.Limiter.Limit(h.Nearby))
	handle(router, http.MethodGet, "/api/destinations/popular", h.Popular)
	handle(router, http.MethodGet, "/api/destinations/seasonal/:season", h.Seasonal)
	handle(router, http.MethodGet, "/api/destinations/offbeat", h.OffTheBeatenPath)
	handle(router, http.MethodGet, "/api/destinations/recommended", d.Limiter.Limit(d.Guard.Authenticate(h.Recommended)))
	handle(router, http.MethodGet, "/api/destinations/transport", h.Transportation)
	handle(router, http.MethodGet, "/api/destinations/d/:id", h.Details)
	handle(router, http.MethodGet, "/api/destinations/d/:id/similar", h.Similar)
	handle(router, http.MethodGet, "/api/destinations/d/:id/advisories", h.Advisories)
	handle(router, http.MethodGet, "/api/destinations/d/:id/weather", h.Weather)
}

func AddItineraryRoutes(router *httprouter.Router, d *Deps) {
	h := d.Itineraries
	auth := func(next httprouter.Handle) httprouter.Handle {
		return d.Limiter.Limit(d.Guard.Authenticate(next))
	}
	handle(router, http.MethodPost, "/api/itineraries", auth(h.Create))
	handle(router, http.MethodGet, "/api/itineraries/search", d.Limiter.Limit(h.Search))
	handle(router, http.MethodGet, "/api/itineraries/templates", h.Templates)
	handle(router, http.MethodGet, "/api/itineraries/mine", auth(h.Mine))
	handle(router, http.MethodPost, "/api/itineraries/generate", auth(h.Generate))

	handle(router, http.MethodGet, "/api/itineraries/i/:id", d.Guard.OptionalAuth(h.Get))
	handle(router, http.MethodPut, "/api/itineraries/i/:id", auth(h.Update))
	handle(router, http.MethodDelete, "/api/itineraries/i/:id", auth(h.Delete))
	handle(router, http.MethodPost, "/api/itineraries/i/:id/versions", auth(h.NewVersion))
	handle(router, http.MethodGet, "/api/itineraries/i/:id/versions", auth(h.Versions))
	handle(router, http.MethodPost, "/api/itineraries/i/:id/template", auth(h.CreateTemplate))
	handle(router, http.MethodPost, "/api/itineraries/i/:id/optimize", auth(h.Optimize))
	handle(router, http.MethodPost, "/api/itineraries/i/:id/items", auth(h.AddItem))
	handle(router, http.MethodGet, "/api/itineraries/i/:id/export", d.Limiter.Limit(d.Guard.OptionalAuth(h.Export)))
}

func AddFeedbackRoutes(router *httprouter.Router, d *Deps) {
	h := d.Feedback
	handle(router, http.MethodPost, "/api/feedback", d.Limiter.Limit(d.Guard.Authenticate(h.Submit)))
	handle(router, http.MethodGet, "/api/feedback/:entityType/:entityId", d.Guard.OptionalAuth(h.List))
	handle(router, http.MethodGet, "/api/feedback/:entityType/:entityId/summary", d.Guard.OptionalAuth(h.Summary))
}

// AddLiveRoutes serves the per-user WebSocket feed of itinerary events.
func AddLiveRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/live", d.Guard.Authenticate(livefeed.WebSocketHandler(d.Hub)))
}
