package usecases

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopwindow/shopwindow/internal/core/domain"
)

func TestStatisticsWorkedExample(t *testing.T) {
	centers := &mockCenterRepo{
		listAllFn: func(_ context.Context) ([]domain.ShoppingCenter, error) {
			return []domain.ShoppingCenter{
				{ID: 1, TotalGLA: 100000, CenterType: domain.CenterTypeMall},
				{ID: 2, TotalGLA: 50000, CenterType: domain.CenterTypeStrip},
			}, nil
		},
	}
	tenants := &mockTenantRepo{
		listAllFn: func(_ context.Context) ([]domain.Tenant, error) {
			return nil, nil
		},
	}
	svc := NewStatsService(centers, tenants, nil, 10)

	got, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if got.TotalCenters != 2 {
		t.Errorf("TotalCenters = %d, want 2", got.TotalCenters)
	}
	if got.TotalGLA != 150000 {
		t.Errorf("TotalGLA = %v, want 150000", got.TotalGLA)
	}
	if got.AverageGLA != 75000 {
		t.Errorf("AverageGLA = %v, want 75000", got.AverageGLA)
	}
	if got.CentersByType["MALL"] != 1 || got.CentersByType["STRIP"] != 1 {
		t.Errorf("CentersByType = %v", got.CentersByType)
	}
}

func TestStatisticsEmptyDataset(t *testing.T) {
	centers := &mockCenterRepo{
		listAllFn: func(_ context.Context) ([]domain.ShoppingCenter, error) { return nil, nil },
	}
	tenants := &mockTenantRepo{
		listAllFn: func(_ context.Context) ([]domain.Tenant, error) { return nil, nil },
	}
	svc := NewStatsService(centers, tenants, nil, 10)

	got, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if got.AverageGLA != 0 || got.GeocodingCompletion != 0 {
		t.Fatalf("empty dataset must yield zeros, got avg=%v completion=%v",
			got.AverageGLA, got.GeocodingCompletion)
	}
}

func TestStatisticsGeocodingCompletionAndRecency(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	loc := &domain.GeoPoint{Lat: 43.26, Lon: -2.93}
	centers := &mockCenterRepo{
		listAllFn: func(_ context.Context) ([]domain.ShoppingCenter, error) {
			return []domain.ShoppingCenter{
				{ID: 1, Location: loc, CreatedAt: now.AddDate(0, 0, -5)},
				{ID: 2, Location: loc, CreatedAt: now.AddDate(0, 0, -60)},
				{ID: 3, CreatedAt: now.AddDate(0, 0, -1)},
				{ID: 4, CreatedAt: now.AddDate(0, -6, 0)},
			}, nil
		},
	}
	tenants := &mockTenantRepo{
		listAllFn: func(_ context.Context) ([]domain.Tenant, error) { return nil, nil },
	}
	svc := NewStatsService(centers, tenants, nil, 10)
	svc.now = func() time.Time { return now }

	got, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if math.Abs(got.GeocodingCompletion-0.5) > 1e-9 {
		t.Errorf("GeocodingCompletion = %v, want 0.5", got.GeocodingCompletion)
	}
	if got.AddedLast30Days != 2 {
		t.Errorf("AddedLast30Days = %d, want 2", got.AddedLast30Days)
	}
}

func TestStatisticsTopOwners(t *testing.T) {
	centers := &mockCenterRepo{
		listAllFn: func(_ context.Context) ([]domain.ShoppingCenter, error) {
			return []domain.ShoppingCenter{
				{ID: 1, Owner: "Simon"},
				{ID: 2, Owner: "Simon"},
				{ID: 3, Owner: "Brookfield"},
				{ID: 4, Owner: "Acme"},
				{ID: 5, Owner: ""},
			}, nil
		},
	}
	tenants := &mockTenantRepo{
		listAllFn: func(_ context.Context) ([]domain.Tenant, error) { return nil, nil },
	}
	svc := NewStatsService(centers, tenants, nil, 2)

	got, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if len(got.TopOwners) != 2 {
		t.Fatalf("expected 2 top owners, got %v", got.TopOwners)
	}
	if got.TopOwners[0].Owner != "Simon" || got.TopOwners[0].Centers != 2 {
		t.Errorf("rank 1 = %+v, want Simon with 2", got.TopOwners[0])
	}
	// Tie between Acme and Brookfield resolves by name.
	if got.TopOwners[1].Owner != "Acme" {
		t.Errorf("rank 2 = %+v, want Acme", got.TopOwners[1])
	}
}

func TestTenantChains(t *testing.T) {
	tenants := &mockTenantRepo{
		listAllFn: func(_ context.Context) ([]domain.Tenant, error) {
			return []domain.Tenant{
				{ID: 1, CenterID: 1, Name: "Starbucks", SquareFootage: 1200},
				{ID: 2, CenterID: 2, Name: "  starbucks ", SquareFootage: 900},
				{ID: 3, CenterID: 1, Name: "Subway", SquareFootage: 600},
				{ID: 4, CenterID: 1, Name: "Subway", SquareFootage: 500},
			}, nil
		},
	}
	svc := NewStatsService(&mockCenterRepo{}, tenants, nil, 10)

	got, err := svc.TenantChains(context.Background())
	if err != nil {
		t.Fatalf("TenantChains: %v", err)
	}
	// Subway sits in one center twice; not a chain.
	if len(got) != 1 {
		t.Fatalf("expected 1 chain, got %d: %+v", len(got), got)
	}
	chain := got[0]
	if chain.Name != "Starbucks" {
		t.Errorf("chain name = %q", chain.Name)
	}
	if chain.LocationCount != 2 {
		t.Errorf("LocationCount = %d, want 2", chain.LocationCount)
	}
	if chain.TotalSqft != 2100 {
		t.Errorf("TotalSqft = %v, want 2100", chain.TotalSqft)
	}
}

func TestTenantChainsOrdering(t *testing.T) {
	tenants := &mockTenantRepo{
		listAllFn: func(_ context.Context) ([]domain.Tenant, error) {
			return []domain.Tenant{
				{ID: 1, CenterID: 1, Name: "Zara", SquareFootage: 100},
				{ID: 2, CenterID: 2, Name: "Zara", SquareFootage: 100},
				{ID: 3, CenterID: 3, Name: "Zara", SquareFootage: 100},
				{ID: 4, CenterID: 1, Name: "H&M", SquareFootage: 5000},
				{ID: 5, CenterID: 2, Name: "H&M", SquareFootage: 5000},
				{ID: 6, CenterID: 1, Name: "Mango", SquareFootage: 100},
				{ID: 7, CenterID: 2, Name: "Mango", SquareFootage: 100},
			}, nil
		},
	}
	svc := NewStatsService(&mockCenterRepo{}, tenants, nil, 10)

	got, err := svc.TenantChains(context.Background())
	if err != nil {
		t.Fatalf("TenantChains: %v", err)
	}
	want := []string{"Zara", "H&M", "Mango"}
	if len(got) != len(want) {
		t.Fatalf("expected %d chains, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("rank %d = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestCategoryBreakdownSumsToTotal(t *testing.T) {
	tenants := &mockTenantRepo{
		listAllFn: func(_ context.Context) ([]domain.Tenant, error) {
			return []domain.Tenant{
				{ID: 1, CenterID: 1, RetailCategory: "Apparel", SquareFootage: 1000},
				{ID: 2, CenterID: 2, RetailCategory: "apparel", SquareFootage: 800},
				{ID: 3, CenterID: 1, RetailCategory: "Food", SquareFootage: 400},
				{ID: 4, CenterID: 1, RetailCategory: "", SquareFootage: 200},
			}, nil
		},
	}
	svc := NewStatsService(&mockCenterRepo{}, tenants, nil, 10)

	got, err := svc.CategoryBreakdown(context.Background())
	if err != nil {
		t.Fatalf("CategoryBreakdown: %v", err)
	}
	total := 0
	for _, g := range got {
		total += g.TenantCount
	}
	if total != 4 {
		t.Fatalf("category counts sum to %d, want 4", total)
	}
	if got[0].Category != "Apparel" || got[0].TenantCount != 2 || got[0].DistinctCenters != 2 {
		t.Errorf("top category = %+v", got[0])
	}
	found := false
	for _, g := range got {
		if g.Category == "uncategorized" && g.TenantCount == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("missing uncategorized bucket: %+v", got)
	}
}

func TestAnalyticsOccupancy(t *testing.T) {
	centers := &mockCenterRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.ShoppingCenter, error) {
			return &domain.ShoppingCenter{ID: id, TotalGLA: 10000}, nil
		},
	}
	tenants := &mockTenantRepo{
		listByCenterFn: func(_ context.Context, _ int64) ([]domain.Tenant, error) {
			return []domain.Tenant{
				{ID: 1, Occupancy: domain.OccupancyOccupied, SquareFootage: 4000, IsAnchor: true, RetailCategory: "Grocery"},
				{ID: 2, Occupancy: domain.OccupancyOccupied, SquareFootage: 1000, RetailCategory: "Food"},
				{ID: 3, Occupancy: domain.OccupancyVacant, SquareFootage: 500},
			}, nil
		},
	}
	svc := NewStatsService(centers, tenants, nil, 10)

	got, err := svc.Analytics(context.Background(), 1)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if got.Occupied != 2 || got.Vacant != 1 || got.AnchorTenants != 1 {
		t.Errorf("counts = %+v", got)
	}
	if got.LeasedSqft != 5000 {
		t.Errorf("LeasedSqft = %v, want 5000", got.LeasedSqft)
	}
	if got.OccupancyRate != 50 {
		t.Errorf("OccupancyRate = %v, want 50", got.OccupancyRate)
	}
	if len(got.Categories) != 2 {
		t.Errorf("Categories = %v", got.Categories)
	}
}

type memoryCache struct {
	values map[string][]byte
	gets   int
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.gets++
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.sets++
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func TestStatisticsCacheAside(t *testing.T) {
	calls := 0
	centers := &mockCenterRepo{
		listAllFn: func(_ context.Context) ([]domain.ShoppingCenter, error) {
			calls++
			return []domain.ShoppingCenter{{ID: 1, TotalGLA: 100}}, nil
		},
	}
	tenants := &mockTenantRepo{
		listAllFn: func(_ context.Context) ([]domain.Tenant, error) { return nil, nil },
	}
	cache := newMemoryCache()
	svc := NewStatsService(centers, tenants, cache, 10)

	for i := 0; i < 3; i++ {
		got, err := svc.Statistics(context.Background())
		if err != nil {
			t.Fatalf("Statistics: %v", err)
		}
		if got.TotalGLA != 100 {
			t.Fatalf("TotalGLA = %v", got.TotalGLA)
		}
	}
	if calls != 1 {
		t.Fatalf("store scanned %d times, want 1", calls)
	}
	if cache.sets != 1 {
		t.Fatalf("cache written %d times, want 1", cache.sets)
	}
}
