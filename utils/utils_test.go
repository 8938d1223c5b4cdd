package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"tripwise/apperr"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.InvalidArgument("name", "empty"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", apperr.NotFound("Itinerary", "i1")), http.StatusNotFound},
		{apperr.Unauthorized("UpdateItinerary", "not owner"), http.StatusForbidden},
		{apperr.Conflict(apperr.CodeEmailAlreadyExists, "taken"), http.StatusConflict},
		{apperr.Unavailable("Generate", "generator down"), http.StatusServiceUnavailable},
		{errors.New("mongo down"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusFor(c.err); got != c.want {
			t.Fatalf("%v: expected %d, got %d", c.err, c.want, got)
		}
	}
}

func TestRespondWithDomainErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/itineraries/i/x", nil)
	RespondWithDomainError(rec, req, apperr.NotFound("Itinerary", "x"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success || resp.Code != apperr.CodeEntityNotFound || !strings.Contains(resp.Message, "'x'") {
		t.Fatalf("unexpected envelope %+v", resp)
	}
}

func TestRespondWithDomainErrorHidesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	RespondWithDomainError(rec, req, errors.New("connection refused 10.0.0.3"))
	if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Fatalf("internal detail leaked: %d %s", rec.Code, rec.Body.String())
	}
}

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidateReportsJSONFieldName(t *testing.T) {
	err := Validate(signup{Email: "a@b.co", Password: "short"})
	e, ok := apperr.As(err)
	if !ok || e.Field != "password" || !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("unexpected error %v", err)
	}
	if err := Validate(signup{Email: "a@b.co", Password: "long enough"}); err != nil {
		t.Fatal(err)
	}
}

func TestParseQueryOptions(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&page_size=25", nil)
	opts, err := ParseQueryOptions(r)
	if err != nil || opts.Page != 3 || opts.Limit != 25 {
		t.Fatalf("unexpected %+v %v", opts, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	opts, _ = ParseQueryOptions(r)
	if opts.Page != 1 || opts.Limit != 10 {
		t.Fatalf("defaults %+v", opts)
	}

	r = httptest.NewRequest(http.MethodGet, "/?page=abc", nil)
	if _, err := ParseQueryOptions(r); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags(" Food, beach ,food,,Hiking")
	if strings.Join(got, "|") != "Food|beach|Hiking" {
		t.Fatalf("unexpected tags %v", got)
	}
}
