package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopwindow/shopwindow/internal/core/filters"
)

// builder accumulates WHERE fragments with numbered placeholders. The
// filter spec arrives pre-validated, so fields and operators map to SQL
// mechanically; anything unrecognized is simply skipped.
type builder struct {
	where []string
	args  []any
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *builder) and(frag string) {
	b.where = append(b.where, frag)
}

// likePattern wraps a user value as a substring LIKE pattern, escaping
// %, _ and \ so the value matches literally, as the in-memory matcher
// does.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func (b *builder) whereSQL() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

// centerColumns maps ordering fields to shopping_centers columns.
var centerColumns = map[string]string{
	"id":                 "id",
	"name":               "name",
	"total_gla":          "total_gla",
	"data_quality_score": "data_quality_score",
	"created_at":         "created_at",
	"updated_at":         "updated_at",
}

// tenantColumns maps ordering fields to tenants columns.
var tenantColumns = map[string]string{
	"id":             "t.id",
	"name":           "t.name",
	"square_footage": "t.square_footage",
	"base_rent":      "t.base_rent",
	"lease_end":      "t.lease_end",
	"created_at":     "t.created_at",
}

// buildCenterWhere translates the compiled center spec into WHERE
// fragments on the builder.
func buildCenterWhere(b *builder, spec *filters.Spec) {
	if spec == nil {
		return
	}
	if spec.Search != "" {
		p := b.arg(likePattern(spec.Search))
		b.and(fmt.Sprintf("(name ILIKE %[1]s OR address_city ILIKE %[1]s OR owner ILIKE %[1]s OR property_manager ILIKE %[1]s)", p))
	}
	if spec.HasCoordinates != nil {
		if *spec.HasCoordinates {
			b.and("location IS NOT NULL")
		} else {
			b.and("location IS NULL")
		}
	}
	if spec.MinTenants > 0 {
		p := b.arg(spec.MinTenants)
		b.and("(SELECT COUNT(*) FROM tenants t WHERE t.center_id = shopping_centers.id) >= " + p)
	}
	for _, c := range spec.Conds {
		switch c.Field {
		case "center_type":
			b.and("center_type = " + b.arg(c.Str))
		case "address_city":
			b.and("lower(address_city) = lower(" + b.arg(c.Str) + ")")
		case "address_state":
			b.and("lower(address_state) = lower(" + b.arg(c.Str) + ")")
		case "owner":
			b.and("owner ILIKE " + b.arg(likePattern(c.Str)))
		case "property_manager":
			b.and("property_manager ILIKE " + b.arg(likePattern(c.Str)))
		case "data_quality_score":
			b.and("data_quality_score " + opSQL(c.Op) + " " + b.arg(c.Num))
		case "total_gla":
			b.and("total_gla " + opSQL(c.Op) + " " + b.arg(c.Num))
		}
	}
}

// buildTenantWhere translates the compiled tenant spec into WHERE
// fragments. Tenant queries join shopping_centers as c for the center
// name, so fragments qualify columns with the t alias.
func buildTenantWhere(b *builder, spec *filters.Spec) {
	if spec == nil {
		return
	}
	if spec.CenterID != 0 {
		b.and("t.center_id = " + b.arg(spec.CenterID))
	}
	if spec.Search != "" {
		p := b.arg(likePattern(spec.Search))
		b.and(fmt.Sprintf("(t.name ILIKE %[1]s OR c.name ILIKE %[1]s OR t.retail_category ILIKE %[1]s)", p))
	}
	if spec.ExpiringMonths > 0 {
		p := b.arg(spec.ExpiringMonths)
		b.and("t.occupancy_status IN ('OCCUPIED', 'PENDING')")
		b.and("t.lease_end IS NOT NULL AND t.lease_end >= now() AND t.lease_end < now() + make_interval(months => " + p + ")")
	}
	for _, c := range spec.Conds {
		switch c.Field {
		case "retail_category":
			if c.Op == filters.OpContains {
				b.and("t.retail_category ILIKE " + b.arg(likePattern(c.Str)))
			} else {
				b.and("lower(t.retail_category) = lower(" + b.arg(c.Str) + ")")
			}
		case "occupancy_status":
			b.and("t.occupancy_status = " + b.arg(c.Str))
		case "ownership_type":
			b.and("t.ownership_type = " + b.arg(c.Str))
		case "is_anchor":
			b.and("t.is_anchor = " + b.arg(c.Bool))
		case "square_footage":
			b.and("t.square_footage " + opSQL(c.Op) + " " + b.arg(c.Num))
		case "base_rent":
			b.and("t.base_rent " + opSQL(c.Op) + " " + b.arg(c.Num))
		}
	}
}

func opSQL(op filters.Op) string {
	switch op {
	case filters.OpGte:
		return ">="
	case filters.OpLte:
		return "<="
	default:
		return "="
	}
}

// orderSQL renders the ORDER BY clause with an id tiebreak so paging is
// stable under equal sort keys.
func orderSQL(sort filters.SortSpec, columns map[string]string, idCol string) string {
	col, ok := columns[sort.Field]
	if !ok || sort.Field == "" {
		return " ORDER BY " + idCol + " ASC"
	}
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}
	if col == idCol {
		return " ORDER BY " + idCol + " " + dir
	}
	// NULL sorts as the smallest value in either direction.
	nulls := ""
	if sort.Field == "base_rent" || sort.Field == "lease_end" {
		nulls = " NULLS FIRST"
		if sort.Desc {
			nulls = " NULLS LAST"
		}
	}
	return " ORDER BY " + col + " " + dir + nulls + ", " + idCol + " ASC"
}

// pageSQL renders LIMIT/OFFSET from the page spec.
func pageSQL(b *builder, spec *filters.Spec) string {
	if spec == nil || spec.Page.Size <= 0 {
		return ""
	}
	limit := b.arg(spec.Page.Size)
	offset := b.arg(spec.Page.Offset())
	return " LIMIT " + limit + " OFFSET " + offset
}
