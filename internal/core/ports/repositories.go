package ports

import (
	"context"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

// CenterRepository is the store adapter for shopping centers. Query
// reads must reflect a consistent snapshot for the duration of one call;
// no guarantee is made across calls.
type CenterRepository interface {
	// Query applies the compiled predicate, sort, and pagination and
	// returns the page plus the total matching count.
	Query(ctx context.Context, spec *filters.Spec) ([]domain.ShoppingCenter, int, error)
	GetByID(ctx context.Context, id int64) (*domain.ShoppingCenter, error)
	// ListGeocoded returns every center with a coordinate present.
	ListGeocoded(ctx context.Context) ([]domain.ShoppingCenter, error)
	// ListAll returns the full unfiltered collection for aggregation passes.
	ListAll(ctx context.Context) ([]domain.ShoppingCenter, error)
	Create(ctx context.Context, c *domain.ShoppingCenter) error
	Update(ctx context.Context, c *domain.ShoppingCenter) error
	// UpdateCoordinates atomically sets both coordinate fields.
	UpdateCoordinates(ctx context.Context, id int64, lat, lon float64) error
	// TenantCounts returns tenant counts keyed by center id.
	TenantCounts(ctx context.Context) (map[int64]int, error)
}

// TenantRepository is the store adapter for tenants.
type TenantRepository interface {
	Query(ctx context.Context, spec *filters.Spec) ([]domain.Tenant, int, error)
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
	ListAll(ctx context.Context) ([]domain.Tenant, error)
	ListByCenter(ctx context.Context, centerID int64) ([]domain.Tenant, error)
	Create(ctx context.Context, t *domain.Tenant) error
}

// ImportBatchRepository records bulk import runs.
type ImportBatchRepository interface {
	Create(ctx context.Context, b *domain.ImportBatch) error
	Finish(ctx context.Context, b *domain.ImportBatch) error
}
