package usecases

import (
	"context"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
	"github.com/shopwindow/shopwindow/internal/core/ports"
)

// TenantService is the query engine for tenants.
type TenantService struct {
	tenants ports.TenantRepository
	centers ports.CenterRepository
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenants ports.TenantRepository, centers ports.CenterRepository) *TenantService {
	return &TenantService{tenants: tenants, centers: centers}
}

// List applies the compiled filter spec and returns one page plus the
// total matching count. A non-zero centerID scopes results to that
// center's tenants and fails with ErrNotFound for an unknown center.
func (s *TenantService) List(ctx context.Context, spec *filters.Spec, centerID int64) ([]domain.Tenant, int, error) {
	if centerID != 0 {
		if _, err := s.centers.GetByID(ctx, centerID); err != nil {
			return nil, 0, err
		}
		scoped := *spec
		scoped.CenterID = centerID
		spec = &scoped
	}
	return s.tenants.Query(ctx, spec)
}

// GetByID returns a single tenant.
func (s *TenantService) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	return s.tenants.GetByID(ctx, id)
}
