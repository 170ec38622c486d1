package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopwindow/shopwindow/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Error     bool   `json:"error"`
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code, message, details string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Error:     true,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: reqID,
	})
}

// mapDomainError translates sentinel error kinds from the core into
// HTTP status codes. Anything unrecognized is an internal error.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidFilterValue):
		return newError(c, 400, "invalid_filter", "invalid filter value", err.Error())
	case errors.Is(err, domain.ErrInvalidBounds):
		return newError(c, 400, "invalid_bounds", "invalid map bounds", err.Error())
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return newError(c, 400, "invalid_coordinate", "invalid coordinate", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return newError(c, 404, "not_found", "resource not found", "")
	case errors.Is(err, domain.ErrMissingCoordinates):
		return newError(c, 409, "missing_coordinates", "center has no coordinates", err.Error())
	case errors.Is(err, domain.ErrGeocodingFailed):
		return newError(c, 502, "geocoding_failed", "geocoding failed", err.Error())
	default:
		return newError(c, 500, "internal_error", "internal error", err.Error())
	}
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg, "")
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg, "")
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg, "")
}
