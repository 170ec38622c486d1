package filters

import (
	"sort"

	"github.com/shopwindow/shopwindow/internal/core/domain"
)

// SortCenters orders centers in place by the spec's sort key.
// Sorting is stable and ties always break by id ascending, so pages of
// the same filtered set are disjoint and reproducible.
func SortCenters(centers []domain.ShoppingCenter, s SortSpec) {
	sort.SliceStable(centers, func(i, j int) bool {
		a, b := &centers[i], &centers[j]
		if c := compareCenters(a, b, s.Field); c != 0 {
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return a.ID < b.ID
	})
}

func compareCenters(a, b *domain.ShoppingCenter, field string) int {
	switch field {
	case "name":
		return compareStrings(a.Name, b.Name)
	case "total_gla":
		return compareFloats(a.TotalGLA, b.TotalGLA)
	case "data_quality_score":
		return compareFloats(float64(a.DataQualityScore), float64(b.DataQualityScore))
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "id", "":
		return compareInts(a.ID, b.ID)
	}
	return 0
}

// SortTenants orders tenants in place by the spec's sort key, with the
// same stability and id tiebreak rules as SortCenters.
func SortTenants(tenants []domain.Tenant, s SortSpec) {
	sort.SliceStable(tenants, func(i, j int) bool {
		a, b := &tenants[i], &tenants[j]
		if c := compareTenants(a, b, s.Field); c != 0 {
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return a.ID < b.ID
	})
}

func compareTenants(a, b *domain.Tenant, field string) int {
	switch field {
	case "name":
		return compareStrings(a.Name, b.Name)
	case "square_footage":
		return compareFloats(a.SquareFootage, b.SquareFootage)
	case "base_rent":
		return compareFloats(floatOrZero(a.BaseRent), floatOrZero(b.BaseRent))
	case "lease_end":
		switch {
		case a.LeaseEnd == nil && b.LeaseEnd == nil:
			return 0
		case a.LeaseEnd == nil:
			return -1
		case b.LeaseEnd == nil:
			return 1
		default:
			return a.LeaseEnd.Compare(*b.LeaseEnd)
		}
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "id", "":
		return compareInts(a.ID, b.ID)
	}
	return 0
}

// PageSlice returns the items for the spec's page, after sorting.
// Out-of-range pages yield an empty slice, never an error.
func PageSlice[T any](items []T, p PageSpec) []T {
	start := p.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
