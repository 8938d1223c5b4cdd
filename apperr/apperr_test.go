package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindsUnwrap(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{InvalidArgument("name", "cannot be empty"), ErrInvalidArgument},
		{NotFound("Itinerary", "abc"), ErrNotFound},
		{Unauthorized("UpdateItinerary", "not owner"), ErrUnauthorized},
		{Conflict("", "version race"), ErrConflict},
		{Unavailable("Generate", "down"), ErrUnavailable},
	}
	for _, c := range cases {
		wrapped := fmt.Errorf("outer: %w", c.err)
		if !errors.Is(wrapped, c.kind) {
			t.Fatalf("%v does not unwrap to %v", c.err, c.kind)
		}
	}
}

func TestNotFoundMessageAndCode(t *testing.T) {
	err := NotFound("User", "u1")
	if err.Error() != "User with ID 'u1' was not found" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	e, ok := As(err)
	if !ok || e.Code != CodeUserNotFound {
		t.Fatalf("expected user-not-found code, got %+v", e)
	}
	e, _ = As(NotFound("Destination", "d1"))
	if e.Code != CodeEntityNotFound {
		t.Fatalf("expected generic not-found code, got %s", e.Code)
	}
}

func TestUnauthorizedCarriesOperation(t *testing.T) {
	e, ok := As(Unauthorized("DeleteItinerary", "User u2 does not own this itinerary"))
	if !ok || e.Op != "DeleteItinerary" {
		t.Fatalf("unexpected error: %+v", e)
	}
}
