package generation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"tripwise/apperr"
	"tripwise/models"
)

func TestGenerateDecodesItinerary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/generate" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var req models.GenerationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(models.Itinerary{
			PrimaryDestination: req.Destination,
			Items:              []models.ItineraryItem{{Title: "Alfama walk", DayNumber: 1}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	it, err := c.Generate(context.Background(), models.GenerationRequest{UserID: "u1", Destination: "Lisbon"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if it.PrimaryDestination != "Lisbon" || len(it.Items) != 1 {
		t.Fatalf("unexpected itinerary %+v", it)
	}
}

func TestOptimizeErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   error
	}{
		{http.StatusNotFound, apperr.ErrNotFound},
		{http.StatusBadRequest, apperr.ErrInvalidArgument},
		{http.StatusBadGateway, apperr.ErrUnavailable},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"message":"nope"}`))
		}))
		_, err := NewClient(srv.URL, time.Second).Optimize(context.Background(), "it1")
		srv.Close()
		if !errors.Is(err, tc.kind) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.kind, err)
		}
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	for i := 0; i < 5; i++ {
		c.Optimize(context.Background(), "it1")
	}
	if c.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %v", c.State())
	}

	_, err := c.Optimize(context.Background(), "it1")
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if calls.Load() != 5 {
		t.Fatalf("open breaker must not reach the server, got %d calls", calls.Load())
	}
}

func TestCallerErrorsDoNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	for i := 0; i < 8; i++ {
		c.Optimize(context.Background(), "it1")
	}
	if c.State() != gobreaker.StateClosed {
		t.Fatalf("bad requests should keep the breaker closed, got %v", c.State())
	}
}

func TestDisabled(t *testing.T) {
	var d Disabled
	if _, err := d.Generate(context.Background(), models.GenerationRequest{}); !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if _, err := d.Optimize(context.Background(), "x"); !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
