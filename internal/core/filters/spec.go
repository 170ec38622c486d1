package filters

// Entity selects which collection a compiled spec applies to.
type Entity string

const (
	EntityCenter Entity = "center"
	EntityTenant Entity = "tenant"
)

// Op is a per-field comparison operator.
type Op int

const (
	OpEq Op = iota
	OpContains
	OpGte
	OpLte
	OpEqBool
)

// Condition is one field test inside a conjunction.
type Condition struct {
	Field string
	Op    Op
	Str   string
	Num   float64
	Bool  bool
}

// SortSpec is the sort key and direction. An empty Field means the
// entity default ordering (id ascending).
type SortSpec struct {
	Field string
	Desc  bool
}

// PageSpec is 1-based page pagination.
type PageSpec struct {
	Page int
	Size int
}

// Offset returns the zero-based item offset for the page.
func (p PageSpec) Offset() int {
	return (p.Page - 1) * p.Size
}

// Spec is a compiled, validated filter specification: a conjunction of
// per-field conditions plus derived conditions, sort, and pagination.
type Spec struct {
	Entity Entity
	Conds  []Condition

	// Free-text search over the entity's searchable fields.
	Search string

	// Derived conditions needing computation rather than a field compare.
	HasCoordinates *bool // centers: coordinate presence test
	MinTenants     int   // centers: tenant count >= N (0 = unset)
	ExpiringMonths int   // tenants: lease ends within N months (0 = unset)

	// Tenant scope: restrict to one parent center (0 = unscoped).
	CenterID int64

	Sort SortSpec
	Page PageSpec
}

// Default and maximum page sizes. Map viewport queries allow a larger
// page because they bypass the result envelope.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
	MaxMapPageSize  = 1000
)

// Center fields accepted by the ordering parameter.
var centerOrderingFields = map[string]bool{
	"id":                 true,
	"name":               true,
	"total_gla":          true,
	"data_quality_score": true,
	"created_at":         true,
	"updated_at":         true,
}

// Tenant fields accepted by the ordering parameter.
var tenantOrderingFields = map[string]bool{
	"id":             true,
	"name":           true,
	"square_footage": true,
	"base_rent":      true,
	"lease_end":      true,
	"created_at":     true,
}
