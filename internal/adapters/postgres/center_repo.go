package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

// centerCols is the SELECT list shared by all center reads. The
// coordinate comes back as two nullable floats extracted from the
// PostGIS point.
const centerCols = `
	id, name, address_street, address_city, address_state, address_zip,
	ST_Y(location::geometry), ST_X(location::geometry),
	center_type, total_gla, COALESCE(owner, ''), COALESCE(property_manager, ''),
	data_quality_score, created_at, updated_at`

// CenterRepo implements ports.CenterRepository with pgx.
type CenterRepo struct {
	db *DB
}

// NewCenterRepo creates a new CenterRepo.
func NewCenterRepo(db *DB) *CenterRepo {
	return &CenterRepo{db: db}
}

func scanCenter(row pgx.Row) (*domain.ShoppingCenter, error) {
	var c domain.ShoppingCenter
	var lat, lon *float64
	if err := row.Scan(
		&c.ID, &c.Name,
		&c.Address.Street, &c.Address.City, &c.Address.State, &c.Address.Zip,
		&lat, &lon,
		&c.CenterType, &c.TotalGLA, &c.Owner, &c.PropertyManager,
		&c.DataQualityScore, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		c.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &c, nil
}

func (r *CenterRepo) collect(ctx context.Context, op, sql string, args ...any) ([]domain.ShoppingCenter, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, domain.StoreErrorf(op, err)
	}
	defer rows.Close()

	var centers []domain.ShoppingCenter
	for rows.Next() {
		c, err := scanCenter(rows)
		if err != nil {
			return nil, domain.StoreErrorf(op, err)
		}
		centers = append(centers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreErrorf(op, err)
	}
	return centers, nil
}

// Query applies the compiled spec and returns one page plus the total
// matching count. The count runs against the same predicate so the two
// stay consistent within the statement snapshot.
func (r *CenterRepo) Query(ctx context.Context, spec *filters.Spec) ([]domain.ShoppingCenter, int, error) {
	b := &builder{}
	buildCenterWhere(b, spec)
	where := b.whereSQL()

	var total int
	if err := r.db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM shopping_centers"+where, b.args...,
	).Scan(&total); err != nil {
		return nil, 0, domain.StoreErrorf("count centers", err)
	}

	var sort filters.SortSpec
	if spec != nil {
		sort = spec.Sort
	}
	sql := "SELECT " + centerCols + " FROM shopping_centers" + where +
		orderSQL(sort, centerColumns, "id") + pageSQL(b, spec)

	centers, err := r.collect(ctx, "query centers", sql, b.args...)
	if err != nil {
		return nil, 0, err
	}
	return centers, total, nil
}

// GetByID returns a single center or ErrNotFound.
func (r *CenterRepo) GetByID(ctx context.Context, id int64) (*domain.ShoppingCenter, error) {
	c, err := scanCenter(r.db.Pool.QueryRow(ctx,
		"SELECT "+centerCols+" FROM shopping_centers WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.StoreErrorf("get center", err)
	}
	return c, nil
}

// ListGeocoded returns every center with a coordinate present.
func (r *CenterRepo) ListGeocoded(ctx context.Context) ([]domain.ShoppingCenter, error) {
	return r.collect(ctx, "list geocoded centers",
		"SELECT "+centerCols+" FROM shopping_centers WHERE location IS NOT NULL ORDER BY id")
}

// ListAll returns the full collection for aggregation passes.
func (r *CenterRepo) ListAll(ctx context.Context) ([]domain.ShoppingCenter, error) {
	return r.collect(ctx, "list centers",
		"SELECT "+centerCols+" FROM shopping_centers ORDER BY id")
}

// Create inserts a center and fills in the generated id and timestamps.
func (r *CenterRepo) Create(ctx context.Context, c *domain.ShoppingCenter) error {
	var lat, lon *float64
	if c.Location != nil {
		lat, lon = &c.Location.Lat, &c.Location.Lon
	}
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO shopping_centers
			(name, address_street, address_city, address_state, address_zip,
			 location, center_type, total_gla, owner, property_manager, data_quality_score)
		VALUES ($1, $2, $3, $4, $5,
			CASE WHEN $6::float8 IS NULL THEN NULL
			     ELSE ST_SetSRID(ST_MakePoint($7, $6), 4326)::geography END,
			$8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Address.Street, c.Address.City, c.Address.State, c.Address.Zip,
		lat, lon, c.CenterType, c.TotalGLA, c.Owner, c.PropertyManager, c.DataQualityScore,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.StoreErrorf("create center", err)
	}
	return nil
}

// Update rewrites the mutable fields of a center.
func (r *CenterRepo) Update(ctx context.Context, c *domain.ShoppingCenter) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE shopping_centers
		SET name = $2, address_street = $3, address_city = $4,
		    address_state = $5, address_zip = $6,
		    center_type = $7, total_gla = $8, owner = $9,
		    property_manager = $10, data_quality_score = $11,
		    updated_at = now()
		WHERE id = $1
	`, c.ID, c.Name, c.Address.Street, c.Address.City, c.Address.State, c.Address.Zip,
		c.CenterType, c.TotalGLA, c.Owner, c.PropertyManager, c.DataQualityScore)
	if err != nil {
		return domain.StoreErrorf("update center", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCoordinates atomically sets the coordinate point.
func (r *CenterRepo) UpdateCoordinates(ctx context.Context, id int64, lat, lon float64) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE shopping_centers
		SET location = ST_SetSRID(ST_MakePoint($3, $2), 4326)::geography,
		    updated_at = now()
		WHERE id = $1
	`, id, lat, lon)
	if err != nil {
		return domain.StoreErrorf("update coordinates", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TenantCounts returns tenant counts keyed by center id. Centers with
// no tenants are absent from the map.
func (r *CenterRepo) TenantCounts(ctx context.Context) (map[int64]int, error) {
	rows, err := r.db.Pool.Query(ctx,
		"SELECT center_id, COUNT(*) FROM tenants GROUP BY center_id")
	if err != nil {
		return nil, domain.StoreErrorf("tenant counts", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, domain.StoreErrorf("tenant counts", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
