package filters

import (
	"strconv"
	"strings"

	"github.com/shopwindow/shopwindow/internal/core/domain"
)

// Compile translates raw query parameters into a validated Spec.
// Unknown parameter names are ignored; malformed values of recognized
// parameters fail with ErrInvalidFilterValue naming the parameter, so a
// bad filter never degrades into an unfiltered result. maxPageSize caps
// page_size (MaxPageSize for listings, MaxMapPageSize for viewports).
func Compile(entity Entity, params map[string][]string, maxPageSize int) (*Spec, error) {
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}

	spec := &Spec{
		Entity: entity,
		Page:   PageSpec{Page: 1, Size: DefaultPageSize},
	}

	for key, values := range params {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		val := strings.TrimSpace(values[0])
		if val == "" {
			continue
		}

		var err error
		switch entity {
		case EntityCenter:
			err = compileCenterParam(spec, key, val)
		case EntityTenant:
			err = compileTenantParam(spec, key, val)
		}
		if err != nil {
			return nil, err
		}

		if err := compileCommonParam(spec, key, val, maxPageSize); err != nil {
			return nil, err
		}
	}

	if spec.Page.Size > maxPageSize {
		spec.Page.Size = maxPageSize
	}
	return spec, nil
}

func compileCenterParam(spec *Spec, key, val string) error {
	switch key {
	case "search":
		spec.Search = val
	case "center_type":
		up := strings.ToUpper(val)
		if !domain.ValidCenterType(up) {
			return domain.InvalidFilterf(key, "unknown center type %q", val)
		}
		spec.Conds = append(spec.Conds, Condition{Field: "center_type", Op: OpEq, Str: up})
	case "address_city":
		spec.Conds = append(spec.Conds, Condition{Field: "address_city", Op: OpEq, Str: val})
	case "address_state":
		spec.Conds = append(spec.Conds, Condition{Field: "address_state", Op: OpEq, Str: strings.ToUpper(val)})
	case "owner":
		spec.Conds = append(spec.Conds, Condition{Field: "owner", Op: OpContains, Str: val})
	case "property_manager":
		spec.Conds = append(spec.Conds, Condition{Field: "property_manager", Op: OpContains, Str: val})
	case "data_quality_score__gte":
		n, err := parseIntParam(key, val, 0)
		if err != nil {
			return err
		}
		spec.Conds = append(spec.Conds, Condition{Field: "data_quality_score", Op: OpGte, Num: float64(n)})
	case "total_gla__gte":
		return appendNumCond(spec, key, "total_gla", OpGte, val)
	case "total_gla__lte":
		return appendNumCond(spec, key, "total_gla", OpLte, val)
	case "has_coordinates":
		b, err := parseBoolParam(key, val)
		if err != nil {
			return err
		}
		spec.HasCoordinates = &b
	case "min_tenants":
		n, err := parseIntParam(key, val, 1)
		if err != nil {
			return err
		}
		spec.MinTenants = n
	}
	return nil
}

func compileTenantParam(spec *Spec, key, val string) error {
	switch key {
	case "search":
		spec.Search = val
	case "retail_category":
		spec.Conds = append(spec.Conds, Condition{Field: "retail_category", Op: OpEq, Str: val})
	case "retail_category__contains":
		spec.Conds = append(spec.Conds, Condition{Field: "retail_category", Op: OpContains, Str: val})
	case "occupancy_status":
		up := strings.ToUpper(val)
		if !domain.ValidOccupancyStatus(up) {
			return domain.InvalidFilterf(key, "unknown occupancy status %q", val)
		}
		spec.Conds = append(spec.Conds, Condition{Field: "occupancy_status", Op: OpEq, Str: up})
	case "ownership_type":
		up := strings.ToUpper(val)
		if !domain.ValidOwnershipType(up) {
			return domain.InvalidFilterf(key, "unknown ownership type %q", val)
		}
		spec.Conds = append(spec.Conds, Condition{Field: "ownership_type", Op: OpEq, Str: up})
	case "is_anchor":
		b, err := parseBoolParam(key, val)
		if err != nil {
			return err
		}
		spec.Conds = append(spec.Conds, Condition{Field: "is_anchor", Op: OpEqBool, Bool: b})
	case "shopping_center":
		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil || id <= 0 {
			return domain.InvalidFilterf(key, "must be a positive integer id, got %q", val)
		}
		spec.CenterID = id
	case "square_footage__gte":
		return appendNumCond(spec, key, "square_footage", OpGte, val)
	case "square_footage__lte":
		return appendNumCond(spec, key, "square_footage", OpLte, val)
	case "base_rent__gte":
		return appendNumCond(spec, key, "base_rent", OpGte, val)
	case "base_rent__lte":
		return appendNumCond(spec, key, "base_rent", OpLte, val)
	case "expiring_soon":
		b, err := parseBoolParam(key, val)
		if err != nil {
			return err
		}
		if b && spec.ExpiringMonths == 0 {
			spec.ExpiringMonths = 12
		}
	case "lease_expiring":
		n, err := parseIntParam(key, val, 1)
		if err != nil {
			return err
		}
		spec.ExpiringMonths = n
	}
	return nil
}

func compileCommonParam(spec *Spec, key, val string, maxPageSize int) error {
	switch key {
	case "ordering":
		field := val
		desc := false
		if strings.HasPrefix(field, "-") {
			desc = true
			field = field[1:]
		}
		allowed := centerOrderingFields
		if spec.Entity == EntityTenant {
			allowed = tenantOrderingFields
		}
		if !allowed[field] {
			return domain.InvalidFilterf(key, "cannot order by %q", val)
		}
		spec.Sort = SortSpec{Field: field, Desc: desc}
	case "page":
		n, err := parseIntParam(key, val, 1)
		if err != nil {
			return err
		}
		spec.Page.Page = n
	case "page_size":
		n, err := parseIntParam(key, val, 1)
		if err != nil {
			return err
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		spec.Page.Size = n
	}
	return nil
}

func appendNumCond(spec *Spec, param, field string, op Op, val string) error {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return domain.InvalidFilterf(param, "must be numeric, got %q", val)
	}
	if f < 0 {
		return domain.InvalidFilterf(param, "must be non-negative, got %q", val)
	}
	spec.Conds = append(spec.Conds, Condition{Field: field, Op: op, Num: f})
	return nil
}

func parseIntParam(param, val string, min int) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, domain.InvalidFilterf(param, "must be an integer, got %q", val)
	}
	if n < min {
		return 0, domain.InvalidFilterf(param, "must be >= %d, got %d", min, n)
	}
	return n, nil
}

func parseBoolParam(param, val string) (bool, error) {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, domain.InvalidFilterf(param, "must be a boolean, got %q", val)
}
