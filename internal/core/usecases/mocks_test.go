package usecases

import (
	"context"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

type mockCenterRepo struct {
	queryFn        func(ctx context.Context, spec *filters.Spec) ([]domain.ShoppingCenter, int, error)
	getByIDFn      func(ctx context.Context, id int64) (*domain.ShoppingCenter, error)
	listGeocodedFn func(ctx context.Context) ([]domain.ShoppingCenter, error)
	listAllFn      func(ctx context.Context) ([]domain.ShoppingCenter, error)
	createFn       func(ctx context.Context, c *domain.ShoppingCenter) error
	updateFn       func(ctx context.Context, c *domain.ShoppingCenter) error
	updateCoordsFn func(ctx context.Context, id int64, lat, lon float64) error
	tenantCountsFn func(ctx context.Context) (map[int64]int, error)
}

func (m *mockCenterRepo) Query(ctx context.Context, spec *filters.Spec) ([]domain.ShoppingCenter, int, error) {
	return m.queryFn(ctx, spec)
}

func (m *mockCenterRepo) GetByID(ctx context.Context, id int64) (*domain.ShoppingCenter, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockCenterRepo) ListGeocoded(ctx context.Context) ([]domain.ShoppingCenter, error) {
	return m.listGeocodedFn(ctx)
}

func (m *mockCenterRepo) ListAll(ctx context.Context) ([]domain.ShoppingCenter, error) {
	return m.listAllFn(ctx)
}

func (m *mockCenterRepo) Create(ctx context.Context, c *domain.ShoppingCenter) error {
	return m.createFn(ctx, c)
}

func (m *mockCenterRepo) Update(ctx context.Context, c *domain.ShoppingCenter) error {
	return m.updateFn(ctx, c)
}

func (m *mockCenterRepo) UpdateCoordinates(ctx context.Context, id int64, lat, lon float64) error {
	return m.updateCoordsFn(ctx, id, lat, lon)
}

func (m *mockCenterRepo) TenantCounts(ctx context.Context) (map[int64]int, error) {
	return m.tenantCountsFn(ctx)
}

type mockTenantRepo struct {
	queryFn        func(ctx context.Context, spec *filters.Spec) ([]domain.Tenant, int, error)
	getByIDFn      func(ctx context.Context, id int64) (*domain.Tenant, error)
	listAllFn      func(ctx context.Context) ([]domain.Tenant, error)
	listByCenterFn func(ctx context.Context, centerID int64) ([]domain.Tenant, error)
	createFn       func(ctx context.Context, t *domain.Tenant) error
}

func (m *mockTenantRepo) Query(ctx context.Context, spec *filters.Spec) ([]domain.Tenant, int, error) {
	return m.queryFn(ctx, spec)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockTenantRepo) ListAll(ctx context.Context) ([]domain.Tenant, error) {
	return m.listAllFn(ctx)
}

func (m *mockTenantRepo) ListByCenter(ctx context.Context, centerID int64) ([]domain.Tenant, error) {
	return m.listByCenterFn(ctx, centerID)
}

func (m *mockTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	return m.createFn(ctx, t)
}

type mockGeocoder struct {
	geocodeFn func(ctx context.Context, addr domain.Address) (domain.GeoPoint, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, addr domain.Address) (domain.GeoPoint, error) {
	return m.geocodeFn(ctx, addr)
}

type mockPublisher struct {
	created  []int64
	geocoded []int64
	imports  []int64
	err      error
}

func (m *mockPublisher) PublishCenterCreated(ctx context.Context, c *domain.ShoppingCenter) error {
	m.created = append(m.created, c.ID)
	return m.err
}

func (m *mockPublisher) PublishCenterGeocoded(ctx context.Context, c *domain.ShoppingCenter) error {
	m.geocoded = append(m.geocoded, c.ID)
	return m.err
}

func (m *mockPublisher) PublishImportCompleted(ctx context.Context, b *domain.ImportBatch) error {
	m.imports = append(m.imports, b.ID)
	return m.err
}
