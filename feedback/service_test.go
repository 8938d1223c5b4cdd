package feedback

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"tripwise/apperr"
	"tripwise/globals"
	"tripwise/models"
	"tripwise/store"
)

type memFeedback struct {
	all []models.Feedback
}

func (m *memFeedback) Add(ctx context.Context, f *models.Feedback) error {
	m.all = append(m.all, *f)
	return nil
}

func (m *memFeedback) filter(keep func(models.Feedback) bool) []models.Feedback {
	var out []models.Feedback
	for _, f := range m.all {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func (m *memFeedback) GetByItinerary(ctx context.Context, id string) ([]models.Feedback, error) {
	return m.filter(func(f models.Feedback) bool { return f.ItineraryID == id }), nil
}

func (m *memFeedback) GetByDestination(ctx context.Context, id string) ([]models.Feedback, error) {
	return m.filter(func(f models.Feedback) bool { return f.DestinationID == id }), nil
}

func (m *memFeedback) GetByUser(ctx context.Context, id string) ([]models.Feedback, error) {
	return m.filter(func(f models.Feedback) bool { return f.UserID == id }), nil
}

// only GetByID is exercised
type stubItineraries struct {
	store.ItineraryStore
	byID map[string]*models.Itinerary
}

func (s stubItineraries) GetByID(ctx context.Context, id string) (*models.Itinerary, error) {
	return s.byID[id], nil
}

type stubDestinations struct {
	store.DestinationStore
	byID map[string]*models.Destination
}

func (s stubDestinations) GetByID(ctx context.Context, id string) (*models.Destination, error) {
	return s.byID[id], nil
}

func newTestService() (*Service, *memFeedback) {
	fb := &memFeedback{}
	its := stubItineraries{byID: map[string]*models.Itinerary{
		"it1": {ItineraryID: "it1", UserID: "u1", ItemIDs: []string{"item1"}},
	}}
	dests := stubDestinations{byID: map[string]*models.Destination{
		"d1": {DestinationID: "d1", Name: "Lisbon"},
	}}
	svc := NewService(fb, its, dests)
	svc.newID = func() string { return "fb" }
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc, fb
}

func TestSubmitInfersTypeAndStamps(t *testing.T) {
	svc, fb := newTestService()
	cases := []struct {
		in   models.Feedback
		want models.FeedbackType
	}{
		{models.Feedback{UserID: "u1", ItineraryID: "it1", Rating: 4}, models.FeedbackItineraryRating},
		{models.Feedback{UserID: "u1", ItineraryID: "it1", ItemID: "item1", Rating: 4}, models.FeedbackItineraryItemReview},
		{models.Feedback{UserID: "u1", DestinationID: "d1", Rating: 5}, models.FeedbackDestinationReview},
		{models.Feedback{UserID: "u1", DestinationID: "d1", Rating: 5, Type: models.FeedbackAIEngineRating}, models.FeedbackAIEngineRating},
	}
	for _, tc := range cases {
		got, err := svc.Submit(context.Background(), tc.in)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if got.Type != tc.want || got.FeedbackID == "" || got.SubmittedAt.IsZero() {
			t.Fatalf("unexpected stored feedback %+v", got)
		}
	}
	if len(fb.all) != len(cases) {
		t.Fatalf("expected %d stored, got %d", len(cases), len(fb.all))
	}
}

func TestSubmitRejects(t *testing.T) {
	svc, fb := newTestService()
	cases := []struct {
		name string
		in   models.Feedback
		kind error
	}{
		{"no target", models.Feedback{UserID: "u1", Rating: 3}, apperr.ErrInvalidArgument},
		{"rating range", models.Feedback{UserID: "u1", DestinationID: "d1", Rating: 6}, apperr.ErrInvalidArgument},
		{"aspect range", models.Feedback{UserID: "u1", DestinationID: "d1", Rating: 3,
			AspectRatings: map[models.FeedbackAspect]int{models.AspectValue: 0}}, apperr.ErrInvalidArgument},
		{"unknown itinerary", models.Feedback{UserID: "u1", ItineraryID: "nope", Rating: 3}, apperr.ErrNotFound},
		{"item outside itinerary", models.Feedback{UserID: "u1", ItineraryID: "it1", ItemID: "other", Rating: 3}, apperr.ErrNotFound},
		{"unknown destination", models.Feedback{UserID: "u1", DestinationID: "d9", Rating: 3}, apperr.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(context.Background(), tc.in); !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
		})
	}
	if len(fb.all) != 0 {
		t.Fatal("rejected feedback must not be stored")
	}
}

func TestListHidesPrivateEntriesFromOthers(t *testing.T) {
	svc, fb := newTestService()
	fb.all = []models.Feedback{
		{FeedbackID: "a", UserID: "u1", DestinationID: "d1", Rating: 5, IsPublic: true},
		{FeedbackID: "b", UserID: "u2", DestinationID: "d1", Rating: 2},
	}

	got, err := svc.List(context.Background(), EntityDestination, "d1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].FeedbackID != "a" {
		t.Fatalf("expected only the public entry, got %+v", got)
	}
	got, _ = svc.List(context.Background(), EntityDestination, "d1", "u2")
	if len(got) != 2 {
		t.Fatalf("author should see their private entry, got %d", len(got))
	}

	if _, err := svc.List(context.Background(), EntityUser, "u2", "u1"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for another user's history, got %v", err)
	}
	if _, err := svc.List(context.Background(), "planet", "x", "u1"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected invalid entity, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	yes, no := true, false
	sum := Summarize([]models.Feedback{
		{Rating: 5, WouldRecommend: &yes, AspectRatings: map[models.FeedbackAspect]int{models.AspectValue: 4}},
		{Rating: 3, WouldRecommend: &no, AspectRatings: map[models.FeedbackAspect]int{models.AspectValue: 2, models.AspectFood: 5}},
		{Rating: 4},
	})
	if sum.Count != 3 || sum.AverageRating != 4 {
		t.Fatalf("unexpected count/average %+v", sum)
	}
	if sum.Distribution[5] != 1 || sum.Distribution[3] != 1 || sum.Distribution[4] != 1 {
		t.Fatalf("unexpected distribution %v", sum.Distribution)
	}
	if sum.AspectAverages[models.AspectValue] != 3 || sum.AspectAverages[models.AspectFood] != 5 {
		t.Fatalf("unexpected aspect averages %v", sum.AspectAverages)
	}
	if sum.RecommendRate == nil || *sum.RecommendRate != 0.5 {
		t.Fatalf("unexpected recommend rate %v", sum.RecommendRate)
	}

	empty := Summarize(nil)
	if empty.Count != 0 || empty.AverageRating != 0 || empty.RecommendRate != nil {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
}

func TestSubmitHandler(t *testing.T) {
	svc, fb := newTestService()
	h := NewHandler(svc)
	router := httprouter.New()
	router.POST("/api/feedback", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), globals.UserIDKey, "u1")
		h.Submit(w, r.WithContext(ctx), ps)
	})

	rec := httptest.NewRecorder()
	body := []byte(`{"destinationid":"d1","rating":4,"aspect_ratings":{"Value":5},"is_public":true}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(fb.all) != 1 || fb.all[0].UserID != "u1" {
		t.Fatalf("feedback not stored for caller: %+v", fb.all)
	}

	rec = httptest.NewRecorder()
	body = []byte(`{"destinationid":"d1","rating":9}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range rating, got %d", rec.Code)
	}
}
