package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

// tenantCols joins shopping_centers so tenants carry their parent
// center's name through reads.
const tenantCols = `
	t.id, t.center_id, c.name, t.name, COALESCE(t.suite, ''),
	COALESCE(t.retail_category, ''), t.square_footage, t.base_rent,
	t.lease_start, t.lease_end, t.occupancy_status, t.is_anchor,
	t.ownership_type, t.created_at, t.updated_at`

const tenantFrom = " FROM tenants t JOIN shopping_centers c ON c.id = t.center_id"

// TenantRepo implements ports.TenantRepository with pgx.
type TenantRepo struct {
	db *DB
}

// NewTenantRepo creates a new TenantRepo.
func NewTenantRepo(db *DB) *TenantRepo {
	return &TenantRepo{db: db}
}

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	if err := row.Scan(
		&t.ID, &t.CenterID, &t.CenterName, &t.Name, &t.Suite,
		&t.RetailCategory, &t.SquareFootage, &t.BaseRent,
		&t.LeaseStart, &t.LeaseEnd, &t.Occupancy, &t.IsAnchor,
		&t.Ownership, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TenantRepo) collect(ctx context.Context, op, sql string, args ...any) ([]domain.Tenant, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, domain.StoreErrorf(op, err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, domain.StoreErrorf(op, err)
		}
		tenants = append(tenants, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreErrorf(op, err)
	}
	return tenants, nil
}

// Query applies the compiled spec and returns one page plus the total
// matching count.
func (r *TenantRepo) Query(ctx context.Context, spec *filters.Spec) ([]domain.Tenant, int, error) {
	b := &builder{}
	buildTenantWhere(b, spec)
	where := b.whereSQL()

	var total int
	if err := r.db.Pool.QueryRow(ctx,
		"SELECT COUNT(*)"+tenantFrom+where, b.args...,
	).Scan(&total); err != nil {
		return nil, 0, domain.StoreErrorf("count tenants", err)
	}

	var sort filters.SortSpec
	if spec != nil {
		sort = spec.Sort
	}
	sql := "SELECT " + tenantCols + tenantFrom + where +
		orderSQL(sort, tenantColumns, "t.id") + pageSQL(b, spec)

	tenants, err := r.collect(ctx, "query tenants", sql, b.args...)
	if err != nil {
		return nil, 0, err
	}
	return tenants, total, nil
}

// GetByID returns a single tenant or ErrNotFound.
func (r *TenantRepo) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	t, err := scanTenant(r.db.Pool.QueryRow(ctx,
		"SELECT "+tenantCols+tenantFrom+" WHERE t.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.StoreErrorf("get tenant", err)
	}
	return t, nil
}

// ListAll returns the full collection for aggregation passes.
func (r *TenantRepo) ListAll(ctx context.Context) ([]domain.Tenant, error) {
	return r.collect(ctx, "list tenants",
		"SELECT "+tenantCols+tenantFrom+" ORDER BY t.id")
}

// ListByCenter returns all tenants of one center.
func (r *TenantRepo) ListByCenter(ctx context.Context, centerID int64) ([]domain.Tenant, error) {
	return r.collect(ctx, "list tenants by center",
		"SELECT "+tenantCols+tenantFrom+" WHERE t.center_id = $1 ORDER BY t.id", centerID)
}

// Create inserts a tenant and fills in the generated id and timestamps.
func (r *TenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO tenants
			(center_id, name, suite, retail_category, square_footage, base_rent,
			 lease_start, lease_end, occupancy_status, is_anchor, ownership_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, t.CenterID, t.Name, t.Suite, t.RetailCategory, t.SquareFootage, t.BaseRent,
		t.LeaseStart, t.LeaseEnd, t.Occupancy, t.IsAnchor, t.Ownership,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.StoreErrorf("create tenant", err)
	}
	return nil
}
