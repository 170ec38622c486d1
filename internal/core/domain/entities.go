package domain

import (
	"time"
)

// CenterType classifies a shopping center by format.
type CenterType string

const (
	CenterTypeMall        CenterType = "MALL"
	CenterTypeStrip       CenterType = "STRIP"
	CenterTypePowerCenter CenterType = "POWER_CENTER"
	CenterTypeOutlet      CenterType = "OUTLET"
	CenterTypeLifestyle   CenterType = "LIFESTYLE"
	CenterTypeOther       CenterType = "OTHER"
)

// ValidCenterType reports whether t is a known center type.
func ValidCenterType(t string) bool {
	switch CenterType(t) {
	case CenterTypeMall, CenterTypeStrip, CenterTypePowerCenter,
		CenterTypeOutlet, CenterTypeLifestyle, CenterTypeOther:
		return true
	}
	return false
}

// OccupancyStatus is the occupancy state of a tenant suite.
type OccupancyStatus string

const (
	OccupancyOccupied OccupancyStatus = "OCCUPIED"
	OccupancyVacant   OccupancyStatus = "VACANT"
	OccupancyPending  OccupancyStatus = "PENDING"
	OccupancyUnknown  OccupancyStatus = "UNKNOWN"
)

// ValidOccupancyStatus reports whether s is a known occupancy status.
func ValidOccupancyStatus(s string) bool {
	switch OccupancyStatus(s) {
	case OccupancyOccupied, OccupancyVacant, OccupancyPending, OccupancyUnknown:
		return true
	}
	return false
}

// OwnershipType is how a tenant occupies its suite.
type OwnershipType string

const (
	OwnershipOwned       OwnershipType = "OWNED"
	OwnershipLeased      OwnershipType = "LEASED"
	OwnershipGroundLease OwnershipType = "GROUND_LEASE"
	OwnershipOther       OwnershipType = "OTHER"
)

// ValidOwnershipType reports whether s is a known ownership type.
func ValidOwnershipType(s string) bool {
	switch OwnershipType(s) {
	case OwnershipOwned, OwnershipLeased, OwnershipGroundLease, OwnershipOther:
		return true
	}
	return false
}

// Address is a postal address.
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

// Empty reports whether no address component is set.
func (a Address) Empty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Zip == ""
}

// ShoppingCenter is a retail property holding tenant suites.
type ShoppingCenter struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Address          Address    `json:"address"`
	Location         *GeoPoint  `json:"location,omitempty"` // nil until geocoded
	CenterType       CenterType `json:"center_type"`
	TotalGLA         float64    `json:"total_gla"`
	Owner            string     `json:"owner,omitempty"`
	PropertyManager  string     `json:"property_manager,omitempty"`
	DataQualityScore int        `json:"data_quality_score"`
	DistanceKm       *float64   `json:"distance_km,omitempty"` // computed field
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Geocoded reports whether the center has a coordinate.
func (c *ShoppingCenter) Geocoded() bool {
	return c.Location != nil
}

// Tenant is a retail occupant of a shopping center suite.
// A tenant never exists without its parent center.
type Tenant struct {
	ID             int64           `json:"id"`
	CenterID       int64           `json:"center_id"`
	CenterName     string          `json:"center_name,omitempty"`
	Name           string          `json:"name"`
	Suite          string          `json:"suite,omitempty"`
	RetailCategory string          `json:"retail_category,omitempty"`
	SquareFootage  float64         `json:"square_footage"`
	BaseRent       *float64        `json:"base_rent,omitempty"`
	LeaseStart     *time.Time      `json:"lease_start,omitempty"`
	LeaseEnd       *time.Time      `json:"lease_end,omitempty"`
	Occupancy      OccupancyStatus `json:"occupancy_status"`
	IsAnchor       bool            `json:"is_anchor"`
	Ownership      OwnershipType   `json:"ownership_type"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ImportBatch tracks one bulk import run for the audit trail.
type ImportBatch struct {
	ID             int64      `json:"id"`
	ImportType     string     `json:"import_type"` // CSV, MANUAL, API
	Status         string     `json:"status"`      // PENDING, PROCESSING, COMPLETED, PARTIAL, FAILED
	FileName       string     `json:"file_name,omitempty"`
	TotalRecords   int        `json:"total_records"`
	CentersCreated int        `json:"centers_created"`
	TenantsCreated int        `json:"tenants_created"`
	FailedRecords  int        `json:"failed_records"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// qualityWeights scores field presence. Identity fields carry the
// most weight, then classification and coordinates, then enrichment.
// Weights sum to 100.
var qualityWeights = []struct {
	weight  int
	present func(*ShoppingCenter) bool
}{
	{12, func(c *ShoppingCenter) bool { return c.Name != "" }},
	{7, func(c *ShoppingCenter) bool { return c.Address.Street != "" }},
	{7, func(c *ShoppingCenter) bool { return c.Address.City != "" }},
	{7, func(c *ShoppingCenter) bool { return c.Address.State != "" }},
	{7, func(c *ShoppingCenter) bool { return c.Address.Zip != "" }},
	{10, func(c *ShoppingCenter) bool { return c.TotalGLA > 0 }},
	{14, func(c *ShoppingCenter) bool { return c.CenterType != "" && c.CenterType != CenterTypeOther }},
	{18, func(c *ShoppingCenter) bool { return c.Location != nil }},
	{9, func(c *ShoppingCenter) bool { return c.Owner != "" }},
	{9, func(c *ShoppingCenter) bool { return c.PropertyManager != "" }},
}

// ComputeQualityScore returns the weighted field-presence score for
// the center. Recomputed on import and whenever geocoding fills the
// coordinate.
func (c *ShoppingCenter) ComputeQualityScore() int {
	score := 0
	for _, w := range qualityWeights {
		if w.present(c) {
			score += w.weight
		}
	}
	return ClampQualityScore(score)
}

// ClampQualityScore forces a data-quality score into [0,100].
func ClampQualityScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
