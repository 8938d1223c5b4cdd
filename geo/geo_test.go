package geo

import (
	"math"
	"testing"
)

func TestDistanceKmSamePoint(t *testing.T) {
	if d := DistanceKm(48.8566, 2.3522, 48.8566, 2.3522); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := DistanceKm(35.6762, 139.6503, -33.8688, 151.2093)
	b := DistanceKm(-33.8688, 151.2093, 35.6762, 139.6503)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestDistanceKmOneDegreeLatitude(t *testing.T) {
	d := DistanceKm(10, 20, 11, 20)
	if d < 110.2 || d > 112.2 {
		t.Fatalf("unexpected distance for one degree of latitude: %v", d)
	}
}

func TestDistanceKmKnownCities(t *testing.T) {
	// Jakarta to Bandung is roughly 115-120 km
	d := DistanceKm(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100 || d > 140 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestCoordinateRanges(t *testing.T) {
	cases := []struct {
		lat, lon float64
		ok       bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{0, -180.5, false},
	}
	for _, c := range cases {
		got := ValidLatitude(c.lat) && ValidLongitude(c.lon)
		if got != c.ok {
			t.Fatalf("(%v,%v): expected %v, got %v", c.lat, c.lon, c.ok, got)
		}
	}
}
