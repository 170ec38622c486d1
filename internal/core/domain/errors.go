package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds surfaced by the query and aggregation engines.
// Callers match with errors.Is; the HTTP layer maps them to status codes.
var (
	ErrInvalidFilterValue = errors.New("invalid filter value")
	ErrInvalidBounds      = errors.New("invalid bounds")
	ErrInvalidCoordinate  = errors.New("invalid coordinate")
	ErrNotFound           = errors.New("not found")
	ErrMissingCoordinates = errors.New("missing coordinates")
	ErrGeocodingFailed    = errors.New("geocoding failed")
	ErrStore              = errors.New("store error")
)

// InvalidFilterf wraps ErrInvalidFilterValue naming the offending parameter.
func InvalidFilterf(param, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidFilterValue, param, fmt.Sprintf(format, args...))
}

// StoreErrorf wraps an opaque store failure so it propagates unchanged
// but remains distinguishable from validation errors.
func StoreErrorf(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}
