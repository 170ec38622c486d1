package usecases

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/ports"
)

const statsCacheTTLSeconds = 60

// StatsSummary is the dashboard statistics block.
type StatsSummary struct {
	TotalCenters        int                `json:"total_centers"`
	TotalTenants        int                `json:"total_tenants"`
	TotalGLA            float64            `json:"total_gla"`
	AverageGLA          float64            `json:"average_gla"`
	AverageQualityScore float64            `json:"average_quality_score"`
	CentersByType       map[string]int     `json:"centers_by_type"`
	TopOwners           []OwnerCount       `json:"top_owners"`
	AddedLast30Days     int                `json:"added_last_30_days"`
	GeocodingCompletion float64            `json:"geocoding_completion"` // geocoded/total, 0..1
	GeneratedAt         time.Time          `json:"generated_at"`
}

// OwnerCount is one entry of the top-owners leaderboard.
type OwnerCount struct {
	Owner   string `json:"owner"`
	Centers int    `json:"centers"`
}

// ChainLocation is one location of a multi-center tenant chain.
type ChainLocation struct {
	CenterID      int64   `json:"center_id"`
	CenterName    string  `json:"center_name"`
	Suite         string  `json:"suite,omitempty"`
	SquareFootage float64 `json:"square_footage"`
}

// ChainSummary describes a tenant name present at more than one center.
type ChainSummary struct {
	Name          string          `json:"name"`
	LocationCount int             `json:"location_count"`
	TotalSqft     float64         `json:"total_square_footage"`
	Locations     []ChainLocation `json:"locations"`
}

// CategorySummary is one retail-category grouping.
type CategorySummary struct {
	Category        string  `json:"category"`
	TenantCount     int     `json:"tenant_count"`
	TotalSqft       float64 `json:"total_square_footage"`
	DistinctCenters int     `json:"distinct_centers"`
}

// CenterAnalytics is the per-center occupancy summary.
type CenterAnalytics struct {
	CenterID      int64    `json:"center_id"`
	TotalTenants  int      `json:"total_tenants"`
	Occupied      int      `json:"occupied"`
	Vacant        int      `json:"vacant"`
	AnchorTenants int      `json:"anchor_tenants"`
	LeasedSqft    float64  `json:"leased_square_footage"`
	OccupancyRate float64  `json:"occupancy_rate"` // leased sqft / GLA, percent
	Categories    []string `json:"retail_categories"`
}

// StatsService is the aggregation engine. Every operation recomputes
// over a full store snapshot; the only caching is a short cache-aside
// memoization at this boundary when a CacheService is configured.
type StatsService struct {
	centers   ports.CenterRepository
	tenants   ports.TenantRepository
	cache     ports.CacheService
	topOwners int
	now       func() time.Time
}

// NewStatsService creates a new StatsService. cache may be nil.
// topOwners bounds the owner leaderboard (default 10).
func NewStatsService(centers ports.CenterRepository, tenants ports.TenantRepository, cache ports.CacheService, topOwners int) *StatsService {
	if topOwners <= 0 {
		topOwners = 10
	}
	return &StatsService{
		centers:   centers,
		tenants:   tenants,
		cache:     cache,
		topOwners: topOwners,
		now:       time.Now,
	}
}

// Statistics computes the dashboard summary over the live dataset.
func (s *StatsService) Statistics(ctx context.Context) (*StatsSummary, error) {
	if cached, ok := cacheGet[StatsSummary](ctx, s.cache, "stats:summary"); ok {
		return cached, nil
	}

	centers, err := s.centers.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	tenants, err := s.tenants.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &StatsSummary{
		TotalCenters:  len(centers),
		TotalTenants:  len(tenants),
		CentersByType: make(map[string]int),
		GeneratedAt:   now,
	}

	cutoff := now.AddDate(0, 0, -30)
	geocoded := 0
	qualitySum := 0
	ownerCounts := make(map[string]int)

	for i := range centers {
		c := &centers[i]
		summary.TotalGLA += c.TotalGLA
		qualitySum += c.DataQualityScore
		summary.CentersByType[string(c.CenterType)]++
		if c.Geocoded() {
			geocoded++
		}
		if c.CreatedAt.After(cutoff) {
			summary.AddedLast30Days++
		}
		if owner := strings.TrimSpace(c.Owner); owner != "" {
			ownerCounts[owner]++
		}
	}

	if len(centers) > 0 {
		summary.AverageGLA = summary.TotalGLA / float64(len(centers))
		summary.AverageQualityScore = float64(qualitySum) / float64(len(centers))
		summary.GeocodingCompletion = float64(geocoded) / float64(len(centers))
	}
	summary.TopOwners = topN(ownerCounts, s.topOwners)

	cacheSet(ctx, s.cache, "stats:summary", summary)
	return summary, nil
}

// topN ranks owners by center count descending, ties by name ascending.
func topN(counts map[string]int, n int) []OwnerCount {
	ranked := make([]OwnerCount, 0, len(counts))
	for owner, c := range counts {
		ranked = append(ranked, OwnerCount{Owner: owner, Centers: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Centers != ranked[j].Centers {
			return ranked[i].Centers > ranked[j].Centers
		}
		return ranked[i].Owner < ranked[j].Owner
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TenantChains groups tenants by normalized name and keeps groups
// spanning more than one distinct center. Sorted by location count
// descending, then total square footage descending, then name.
func (s *StatsService) TenantChains(ctx context.Context) ([]ChainSummary, error) {
	if cached, ok := cacheGet[[]ChainSummary](ctx, s.cache, "stats:chains"); ok {
		return *cached, nil
	}

	tenants, err := s.tenants.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	type group struct {
		display   string
		centers   map[int64]bool
		totalSqft float64
		locations []ChainLocation
	}
	groups := make(map[string]*group)

	for i := range tenants {
		t := &tenants[i]
		key := normalizeName(t.Name)
		if key == "" {
			continue
		}
		g := groups[key]
		if g == nil {
			g = &group{display: strings.TrimSpace(t.Name), centers: make(map[int64]bool)}
			groups[key] = g
		}
		g.centers[t.CenterID] = true
		g.totalSqft += t.SquareFootage
		g.locations = append(g.locations, ChainLocation{
			CenterID:      t.CenterID,
			CenterName:    t.CenterName,
			Suite:         t.Suite,
			SquareFootage: t.SquareFootage,
		})
	}

	var chains []ChainSummary
	for _, g := range groups {
		if len(g.centers) <= 1 {
			continue
		}
		sort.Slice(g.locations, func(i, j int) bool {
			return g.locations[i].CenterID < g.locations[j].CenterID
		})
		chains = append(chains, ChainSummary{
			Name:          g.display,
			LocationCount: len(g.locations),
			TotalSqft:     g.totalSqft,
			Locations:     g.locations,
		})
	}

	sort.Slice(chains, func(i, j int) bool {
		if chains[i].LocationCount != chains[j].LocationCount {
			return chains[i].LocationCount > chains[j].LocationCount
		}
		if chains[i].TotalSqft != chains[j].TotalSqft {
			return chains[i].TotalSqft > chains[j].TotalSqft
		}
		return normalizeName(chains[i].Name) < normalizeName(chains[j].Name)
	})

	cacheSet(ctx, s.cache, "stats:chains", &chains)
	return chains, nil
}

// CategoryBreakdown groups tenants by retail category. Tenants without
// a category land in the "uncategorized" bucket so counts always sum to
// the total tenant count.
func (s *StatsService) CategoryBreakdown(ctx context.Context) ([]CategorySummary, error) {
	if cached, ok := cacheGet[[]CategorySummary](ctx, s.cache, "stats:categories"); ok {
		return *cached, nil
	}

	tenants, err := s.tenants.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	type group struct {
		display   string
		count     int
		totalSqft float64
		centers   map[int64]bool
	}
	groups := make(map[string]*group)

	for i := range tenants {
		t := &tenants[i]
		key := normalizeName(t.RetailCategory)
		display := strings.TrimSpace(t.RetailCategory)
		if key == "" {
			key = "uncategorized"
			display = "uncategorized"
		}
		g := groups[key]
		if g == nil {
			g = &group{display: display, centers: make(map[int64]bool)}
			groups[key] = g
		}
		g.count++
		g.totalSqft += t.SquareFootage
		g.centers[t.CenterID] = true
	}

	var out []CategorySummary
	for _, g := range groups {
		out = append(out, CategorySummary{
			Category:        g.display,
			TenantCount:     g.count,
			TotalSqft:       g.totalSqft,
			DistinctCenters: len(g.centers),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TenantCount != out[j].TenantCount {
			return out[i].TenantCount > out[j].TenantCount
		}
		return normalizeName(out[i].Category) < normalizeName(out[j].Category)
	})

	cacheSet(ctx, s.cache, "stats:categories", &out)
	return out, nil
}

// Analytics summarizes occupancy for a single center.
func (s *StatsService) Analytics(ctx context.Context, centerID int64) (*CenterAnalytics, error) {
	center, err := s.centers.GetByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	tenants, err := s.tenants.ListByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}

	a := &CenterAnalytics{CenterID: centerID, TotalTenants: len(tenants)}
	seen := make(map[string]bool)
	for i := range tenants {
		t := &tenants[i]
		switch t.Occupancy {
		case domain.OccupancyOccupied:
			a.Occupied++
			a.LeasedSqft += t.SquareFootage
		case domain.OccupancyVacant:
			a.Vacant++
		}
		if t.IsAnchor {
			a.AnchorTenants++
		}
		if cat := strings.TrimSpace(t.RetailCategory); cat != "" && !seen[normalizeName(cat)] {
			seen[normalizeName(cat)] = true
			a.Categories = append(a.Categories, cat)
		}
	}
	sort.Strings(a.Categories)

	if center.TotalGLA > 0 {
		a.OccupancyRate = a.LeasedSqft / center.TotalGLA * 100
	}
	return a, nil
}

// normalizeName casefolds and collapses whitespace for grouping keys.
func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// cacheGet fetches and decodes a memoized value; a miss or decode error
// just means recompute.
func cacheGet[T any](ctx context.Context, cache ports.CacheService, key string) (*T, bool) {
	if cache == nil {
		return nil, false
	}
	data, err := cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

func cacheSet[T any](ctx context.Context, cache ports.CacheService, key string, v *T) {
	if cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = cache.Set(ctx, key, data, statsCacheTTLSeconds)
	}
}
