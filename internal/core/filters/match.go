package filters

import (
	"strings"
	"time"

	"github.com/shopwindow/shopwindow/internal/core/domain"
)

// MatchCenter evaluates the compiled conjunction against a center in one
// pass. tenantCount is the center's tenant count, needed only when the
// spec carries a min_tenants condition.
func (s *Spec) MatchCenter(c *domain.ShoppingCenter, tenantCount int) bool {
	if s.Search != "" && !searchCenter(c, s.Search) {
		return false
	}
	if s.HasCoordinates != nil && c.Geocoded() != *s.HasCoordinates {
		return false
	}
	if s.MinTenants > 0 && tenantCount < s.MinTenants {
		return false
	}

	for _, cond := range s.Conds {
		if !matchCenterCond(c, cond) {
			return false
		}
	}
	return true
}

func matchCenterCond(c *domain.ShoppingCenter, cond Condition) bool {
	switch cond.Field {
	case "center_type":
		return string(c.CenterType) == cond.Str
	case "address_city":
		return strings.EqualFold(c.Address.City, cond.Str)
	case "address_state":
		return strings.EqualFold(c.Address.State, cond.Str)
	case "owner":
		return containsFold(c.Owner, cond.Str)
	case "property_manager":
		return containsFold(c.PropertyManager, cond.Str)
	case "data_quality_score":
		return cmpNum(float64(c.DataQualityScore), cond)
	case "total_gla":
		return cmpNum(c.TotalGLA, cond)
	}
	return true
}

// MatchTenant evaluates the compiled conjunction against a tenant.
// now anchors the lease-expiry window.
func (s *Spec) MatchTenant(t *domain.Tenant, now time.Time) bool {
	if s.CenterID != 0 && t.CenterID != s.CenterID {
		return false
	}
	if s.Search != "" && !searchTenant(t, s.Search) {
		return false
	}
	if s.ExpiringMonths > 0 && !LeaseExpiring(t, now, s.ExpiringMonths) {
		return false
	}

	for _, cond := range s.Conds {
		if !matchTenantCond(t, cond) {
			return false
		}
	}
	return true
}

func matchTenantCond(t *domain.Tenant, cond Condition) bool {
	switch cond.Field {
	case "retail_category":
		if cond.Op == OpContains {
			return containsFold(t.RetailCategory, cond.Str)
		}
		return strings.EqualFold(t.RetailCategory, cond.Str)
	case "occupancy_status":
		return string(t.Occupancy) == cond.Str
	case "ownership_type":
		return string(t.Ownership) == cond.Str
	case "is_anchor":
		return t.IsAnchor == cond.Bool
	case "square_footage":
		return cmpNum(t.SquareFootage, cond)
	case "base_rent":
		if t.BaseRent == nil {
			return false
		}
		return cmpNum(*t.BaseRent, cond)
	}
	return true
}

// LeaseExpiring reports whether an occupied or pending tenant's lease
// ends within [now, now + months). Vacant and unknown suites never match.
func LeaseExpiring(t *domain.Tenant, now time.Time, months int) bool {
	if t.Occupancy != domain.OccupancyOccupied && t.Occupancy != domain.OccupancyPending {
		return false
	}
	if t.LeaseEnd == nil {
		return false
	}
	cutoff := now.AddDate(0, months, 0)
	return !t.LeaseEnd.Before(now) && t.LeaseEnd.Before(cutoff)
}

// Searchable fields: name, city, owner, property manager.
func searchCenter(c *domain.ShoppingCenter, q string) bool {
	return containsFold(c.Name, q) ||
		containsFold(c.Address.City, q) ||
		containsFold(c.Owner, q) ||
		containsFold(c.PropertyManager, q)
}

// Searchable fields: tenant name, parent center name, retail category.
func searchTenant(t *domain.Tenant, q string) bool {
	return containsFold(t.Name, q) ||
		containsFold(t.CenterName, q) ||
		containsFold(t.RetailCategory, q)
}

func cmpNum(v float64, cond Condition) bool {
	switch cond.Op {
	case OpGte:
		return v >= cond.Num
	case OpLte:
		return v <= cond.Num
	}
	return v == cond.Num
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
