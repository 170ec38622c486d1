package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

// Store is an in-memory implementation of the center, tenant, and
// import-batch repositories. It backs dry-run imports and tests; the
// filter semantics are the same in-process predicates the map viewport
// uses, so behavior matches the SQL store.
type Store struct {
	mu      sync.RWMutex
	centers map[int64]domain.ShoppingCenter
	tenants map[int64]domain.Tenant
	batches map[int64]domain.ImportBatch

	nextCenterID int64
	nextTenantID int64
	nextBatchID  int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		centers: make(map[int64]domain.ShoppingCenter),
		tenants: make(map[int64]domain.Tenant),
		batches: make(map[int64]domain.ImportBatch),
	}
}

// Centers returns the center repository view of the store.
func (s *Store) Centers() *CenterStore { return &CenterStore{s} }

// Tenants returns the tenant repository view of the store.
func (s *Store) Tenants() *TenantStore { return &TenantStore{s} }

// Batches returns the import-batch repository view of the store.
func (s *Store) Batches() *BatchStore { return &BatchStore{s} }

// CenterStore implements ports.CenterRepository.
type CenterStore struct {
	s *Store
}

func (r *CenterStore) Query(_ context.Context, spec *filters.Spec) ([]domain.ShoppingCenter, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var counts map[int64]int
	if spec != nil && spec.MinTenants > 0 {
		counts = r.s.tenantCountsLocked()
	}

	var matched []domain.ShoppingCenter
	for _, c := range r.s.centers {
		c := c
		if spec == nil || spec.MatchCenter(&c, counts[c.ID]) {
			matched = append(matched, c)
		}
	}

	total := len(matched)
	if spec == nil {
		filters.SortCenters(matched, filters.SortSpec{})
		return matched, total, nil
	}
	filters.SortCenters(matched, spec.Sort)
	return filters.PageSlice(matched, spec.Page), total, nil
}

func (r *CenterStore) GetByID(_ context.Context, id int64) (*domain.ShoppingCenter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.centers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *CenterStore) ListGeocoded(_ context.Context) ([]domain.ShoppingCenter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.ShoppingCenter
	for _, c := range r.s.centers {
		if c.Geocoded() {
			out = append(out, c)
		}
	}
	filters.SortCenters(out, filters.SortSpec{})
	return out, nil
}

func (r *CenterStore) ListAll(_ context.Context) ([]domain.ShoppingCenter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.ShoppingCenter, 0, len(r.s.centers))
	for _, c := range r.s.centers {
		out = append(out, c)
	}
	filters.SortCenters(out, filters.SortSpec{})
	return out, nil
}

func (r *CenterStore) Create(_ context.Context, c *domain.ShoppingCenter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextCenterID++
	c.ID = r.s.nextCenterID
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.s.centers[c.ID] = *c
	return nil
}

func (r *CenterStore) Update(_ context.Context, c *domain.ShoppingCenter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.centers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	r.s.centers[c.ID] = *c
	return nil
}

func (r *CenterStore) UpdateCoordinates(_ context.Context, id int64, lat, lon float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.centers[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Location = &domain.GeoPoint{Lat: lat, Lon: lon}
	c.UpdatedAt = time.Now()
	r.s.centers[id] = c
	return nil
}

func (r *CenterStore) TenantCounts(_ context.Context) (map[int64]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.tenantCountsLocked(), nil
}

func (s *Store) tenantCountsLocked() map[int64]int {
	counts := make(map[int64]int)
	for _, t := range s.tenants {
		counts[t.CenterID]++
	}
	return counts
}

// TenantStore implements ports.TenantRepository.
type TenantStore struct {
	s *Store
}

func (r *TenantStore) Query(_ context.Context, spec *filters.Spec) ([]domain.Tenant, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	now := time.Now()
	var matched []domain.Tenant
	for _, t := range r.s.tenants {
		t := t
		if spec == nil || spec.MatchTenant(&t, now) {
			matched = append(matched, t)
		}
	}

	total := len(matched)
	if spec == nil {
		filters.SortTenants(matched, filters.SortSpec{})
		return matched, total, nil
	}
	filters.SortTenants(matched, spec.Sort)
	return filters.PageSlice(matched, spec.Page), total, nil
}

func (r *TenantStore) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tenants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *TenantStore) ListAll(_ context.Context) ([]domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Tenant, 0, len(r.s.tenants))
	for _, t := range r.s.tenants {
		out = append(out, t)
	}
	filters.SortTenants(out, filters.SortSpec{})
	return out, nil
}

func (r *TenantStore) ListByCenter(_ context.Context, centerID int64) ([]domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Tenant
	for _, t := range r.s.tenants {
		if t.CenterID == centerID {
			out = append(out, t)
		}
	}
	filters.SortTenants(out, filters.SortSpec{})
	return out, nil
}

func (r *TenantStore) Create(_ context.Context, t *domain.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.centers[t.CenterID]; ok {
		t.CenterName = c.Name
	} else {
		return domain.ErrNotFound
	}
	r.s.nextTenantID++
	t.ID = r.s.nextTenantID
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.s.tenants[t.ID] = *t
	return nil
}

// BatchStore implements ports.ImportBatchRepository.
type BatchStore struct {
	s *Store
}

func (r *BatchStore) Create(_ context.Context, b *domain.ImportBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextBatchID++
	b.ID = r.s.nextBatchID
	b.CreatedAt = time.Now()
	r.s.batches[b.ID] = *b
	return nil
}

func (r *BatchStore) Finish(_ context.Context, b *domain.ImportBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	b.CompletedAt = &now
	r.s.batches[b.ID] = *b
	return nil
}
