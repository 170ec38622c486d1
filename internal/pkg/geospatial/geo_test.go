package geospatial

import (
	"errors"
	"math"
	"testing"

	"github.com/shopwindow/shopwindow/internal/core/domain"
)

func TestHaversineKm_KnownDistance(t *testing.T) {
	// Bilbao to Madrid is roughly 323 km.
	bilbao := domain.GeoPoint{Lat: 43.2630, Lon: -2.9350}
	madrid := domain.GeoPoint{Lat: 40.4168, Lon: -3.7038}

	d, err := HaversineKm(bilbao, madrid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(d-323) > 5 {
		t.Errorf("expected ~323 km, got %.1f", d)
	}
}

func TestHaversineKm_ZeroDistance(t *testing.T) {
	p := domain.GeoPoint{Lat: 40.0, Lon: -75.0}
	d, err := HaversineKm(p, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestHaversineKm_InvalidInput(t *testing.T) {
	cases := []struct {
		name string
		a, b domain.GeoPoint
	}{
		{"lat too high", domain.GeoPoint{Lat: 91}, domain.GeoPoint{}},
		{"lat too low", domain.GeoPoint{}, domain.GeoPoint{Lat: -90.5}},
		{"lon too high", domain.GeoPoint{Lon: 180.1}, domain.GeoPoint{}},
		{"lon too low", domain.GeoPoint{}, domain.GeoPoint{Lon: -181}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := HaversineKm(tc.a, tc.b); !errors.Is(err, domain.ErrInvalidCoordinate) {
				t.Errorf("expected ErrInvalidCoordinate, got %v", err)
			}
		})
	}
}

func TestWithinBounds(t *testing.T) {
	box := domain.Bounds{North: 45, South: 40, East: -70, West: -80}

	if !WithinBounds(domain.GeoPoint{Lat: 42, Lon: -75}, box) {
		t.Error("point inside box reported outside")
	}
	if WithinBounds(domain.GeoPoint{Lat: 46, Lon: -75}, box) {
		t.Error("point north of box reported inside")
	}
	if WithinBounds(domain.GeoPoint{Lat: 42, Lon: -69}, box) {
		t.Error("point east of box reported inside")
	}
	// edges are inclusive
	if !WithinBounds(domain.GeoPoint{Lat: 45, Lon: -80}, box) {
		t.Error("point on edge reported outside")
	}
}

func TestWithinBounds_AntimeridianWrap(t *testing.T) {
	// Box spanning the date line: Fiji region.
	box := domain.Bounds{North: -10, South: -25, East: -175, West: 175}

	if !WithinBounds(domain.GeoPoint{Lat: -18, Lon: 178}, box) {
		t.Error("point west of the date line should be inside")
	}
	if !WithinBounds(domain.GeoPoint{Lat: -18, Lon: -178}, box) {
		t.Error("point east of the date line should be inside")
	}
	if WithinBounds(domain.GeoPoint{Lat: -18, Lon: 0}, box) {
		t.Error("point on the far side of the globe should be outside")
	}
}

func TestValidBounds(t *testing.T) {
	if ValidBounds(domain.Bounds{North: 40, South: 45, East: 10, West: 0}) {
		t.Error("north <= south must be invalid")
	}
	if ValidBounds(domain.Bounds{North: 45, South: 40, East: 10, West: 10}) {
		t.Error("zero-width box must be invalid")
	}
	if !ValidBounds(domain.Bounds{North: 45, South: 40, East: 10, West: 0}) {
		t.Error("normal box must be valid")
	}
	if !ValidBounds(domain.Bounds{North: -10, South: -25, East: -175, West: 175}) {
		t.Error("wrapped box must be valid")
	}
}
