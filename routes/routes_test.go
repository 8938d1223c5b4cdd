package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"tripwise/auth"
	"tripwise/destinations"
	"tripwise/feedback"
	"tripwise/itinerary"
	"tripwise/livefeed"
	"tripwise/middleware"
	"tripwise/ratelim"
)

func testRouter() *httprouter.Router {
	router := httprouter.New()
	guard := middleware.NewAuth("test-secret", time.Hour)
	RoutesWrapper(router, &Deps{
		Auth:         auth.NewHandler(nil, guard),
		Destinations: destinations.NewHandler(nil),
		Itineraries:  itinerary.NewHandler(nil, nil, ""),
		Feedback:     feedback.NewHandler(nil),
		Hub:          livefeed.NewHub(),
		Guard:        guard,
		Limiter:      ratelim.NewRateLimiter(100, 100, time.Minute),
	})
	return router
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter()
	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/users/me"},
		{http.MethodPost, "/api/itineraries"},
		{http.MethodGet, "/api/itineraries/mine"},
		{http.MethodPut, "/api/itineraries/i/abc"},
		{http.MethodDelete, "/api/itineraries/i/abc"},
		{http.MethodPost, "/api/itineraries/i/abc/items"},
		{http.MethodGet, "/api/destinations/recommended"},
		{http.MethodPost, "/api/feedback"},
		{http.MethodGet, "/api/live"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", c.method, c.path, rec.Code)
		}
	}
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
