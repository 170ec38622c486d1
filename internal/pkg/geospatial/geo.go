package geospatial

import (
	"math"

	"github.com/shopwindow/shopwindow/internal/core/domain"
)

const earthRadiusKm = 6371.0

// ValidPoint reports whether p is a usable WGS 84 coordinate.
func ValidPoint(p domain.GeoPoint) bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// ValidBounds reports whether b is a non-degenerate bounding box.
// West > East is allowed (antimeridian wrap); North must exceed South.
func ValidBounds(b domain.Bounds) bool {
	if b.North <= b.South {
		return false
	}
	if b.North > 90 || b.South < -90 {
		return false
	}
	if b.East < -180 || b.East > 180 || b.West < -180 || b.West > 180 {
		return false
	}
	return b.East != b.West
}

// HaversineKm calculates the great-circle distance in kilometers between
// two points. Returns ErrInvalidCoordinate for out-of-range inputs.
func HaversineKm(a, b domain.GeoPoint) (float64, error) {
	if !ValidPoint(a) || !ValidPoint(b) {
		return 0, domain.ErrInvalidCoordinate
	}

	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c, nil
}

// WithinBounds reports whether p lies inside b (edges inclusive).
// When the box wraps the antimeridian the longitude test is split in two.
func WithinBounds(p domain.GeoPoint, b domain.Bounds) bool {
	if p.Lat < b.South || p.Lat > b.North {
		return false
	}
	if b.West <= b.East {
		return p.Lon >= b.West && p.Lon <= b.East
	}
	// wrapped box: [west, 180] ∪ [-180, east]
	return p.Lon >= b.West || p.Lon <= b.East
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
