package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

// queryParams adapts fiber's query map to the filter compiler input.
func queryParams(c *fiber.Ctx) map[string][]string {
	params := make(map[string][]string)
	for k, v := range c.Queries() {
		params[k] = []string{v}
	}
	return params
}

func paramID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// ListCentersHandler returns one filtered, sorted page of centers.
func ListCentersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		spec, err := filters.Compile(filters.EntityCenter, queryParams(c), filters.MaxPageSize)
		if err != nil {
			return mapDomainError(c, err)
		}

		centers, total, err := deps.Centers.List(c.UserContext(), spec)
		if err != nil {
			return mapDomainError(c, err)
		}

		SetLinkHeaders(c, total, spec.Page)
		return c.JSON(NewListResponse(centers, total, spec.Page))
	}
}

// GetCenterHandler returns a single center by id.
func GetCenterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return errBadRequest(c, "center id must be an integer")
		}
		center, err := deps.Centers.GetByID(c.UserContext(), id)
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(center)
	}
}

// CenterTenantsHandler returns the tenants of one center, filtered.
func CenterTenantsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return errBadRequest(c, "center id must be an integer")
		}
		spec, err := filters.Compile(filters.EntityTenant, queryParams(c), filters.MaxPageSize)
		if err != nil {
			return mapDomainError(c, err)
		}

		tenants, total, err := deps.Tenants.List(c.UserContext(), spec, id)
		if err != nil {
			return mapDomainError(c, err)
		}

		SetLinkHeaders(c, total, spec.Page)
		return c.JSON(NewListResponse(tenants, total, spec.Page))
	}
}

// CenterAnalyticsHandler returns the per-center occupancy summary.
func CenterAnalyticsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return errBadRequest(c, "center id must be an integer")
		}
		analytics, err := deps.Stats.Analytics(c.UserContext(), id)
		if err != nil {
			return mapDomainError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(analytics)
	}
}

// NearbyCentersHandler returns geocoded centers around the given one.
// GET /v1/centers/:id/nearby?radius=10&limit=25
func NearbyCentersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return errBadRequest(c, "center id must be an integer")
		}
		radius := c.QueryFloat("radius", 0)
		if radius == 0 {
			// radius_km accepted as a legacy alias
			radius = c.QueryFloat("radius_km", 0)
		}
		limit := c.QueryInt("limit", 0)

		centers, err := deps.Centers.Nearby(c.UserContext(), id, radius, limit)
		if err != nil {
			return mapDomainError(c, err)
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(fiber.Map{
			"results": centers,
			"count":   len(centers),
		})
	}
}

// GeocodeCenterHandler resolves and stores the center's coordinates.
func GeocodeCenterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return errBadRequest(c, "center id must be an integer")
		}
		center, err := deps.Centers.Geocode(c.UserContext(), id)
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(center)
	}
}

// MapCentersHandler returns centers (or clusters) inside a viewport.
// GET /v1/centers/map?north=..&south=..&east=..&west=..&zoom_level=12
func MapCentersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, p := range []string{"north", "south", "east", "west"} {
			if c.Query(p) == "" {
				return errBadRequest(c, "north, south, east and west are required")
			}
		}
		bounds := domain.Bounds{
			North: c.QueryFloat("north"),
			South: c.QueryFloat("south"),
			East:  c.QueryFloat("east"),
			West:  c.QueryFloat("west"),
		}
		zoom := c.QueryInt("zoom_level", 0)
		if zoom == 0 {
			// zoom accepted as a legacy alias
			zoom = c.QueryInt("zoom", 10)
		}

		spec, err := filters.Compile(filters.EntityCenter, queryParams(c), filters.MaxMapPageSize)
		if err != nil {
			return mapDomainError(c, err)
		}

		result, err := deps.Centers.MapBounds(c.UserContext(), bounds, spec, zoom)
		if err != nil {
			return mapDomainError(c, err)
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(result)
	}
}

// ListTenantsHandler returns one filtered, sorted page of tenants.
func ListTenantsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		spec, err := filters.Compile(filters.EntityTenant, queryParams(c), filters.MaxPageSize)
		if err != nil {
			return mapDomainError(c, err)
		}

		tenants, total, err := deps.Tenants.List(c.UserContext(), spec, 0)
		if err != nil {
			return mapDomainError(c, err)
		}

		SetLinkHeaders(c, total, spec.Page)
		return c.JSON(NewListResponse(tenants, total, spec.Page))
	}
}

// GetTenantHandler returns a single tenant by id.
func GetTenantHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return errBadRequest(c, "tenant id must be an integer")
		}
		tenant, err := deps.Tenants.GetByID(c.UserContext(), id)
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(tenant)
	}
}

// StatsHandler returns the dashboard summary.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := deps.Stats.Statistics(c.UserContext())
		if err != nil {
			return mapDomainError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// StatsChainsHandler returns tenant chains spanning multiple centers.
func StatsChainsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		chains, err := deps.Stats.TenantChains(c.UserContext())
		if err != nil {
			return mapDomainError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(fiber.Map{
			"results": chains,
			"count":   len(chains),
		})
	}
}

// StatsCategoriesHandler returns the retail category breakdown.
func StatsCategoriesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := deps.Stats.CategoryBreakdown(c.UserContext())
		if err != nil {
			return mapDomainError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(fiber.Map{
			"results": categories,
			"count":   len(categories),
		})
	}
}
