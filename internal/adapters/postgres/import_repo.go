package postgres

import (
	"context"

	"github.com/shopwindow/shopwindow/internal/core/domain"
)

// ImportRepo implements ports.ImportBatchRepository with pgx.
type ImportRepo struct {
	db *DB
}

// NewImportRepo creates a new ImportRepo.
func NewImportRepo(db *DB) *ImportRepo {
	return &ImportRepo{db: db}
}

// Create records the start of an import run.
func (r *ImportRepo) Create(ctx context.Context, b *domain.ImportBatch) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO import_batches (import_type, status, file_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, b.ImportType, b.Status, b.FileName).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return domain.StoreErrorf("create import batch", err)
	}
	return nil
}

// Finish records the outcome counters and completion time.
func (r *ImportRepo) Finish(ctx context.Context, b *domain.ImportBatch) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE import_batches
		SET status = $2, total_records = $3, centers_created = $4,
		    tenants_created = $5, failed_records = $6, completed_at = now()
		WHERE id = $1
	`, b.ID, b.Status, b.TotalRecords, b.CentersCreated, b.TenantsCreated, b.FailedRecords)
	if err != nil {
		return domain.StoreErrorf("finish import batch", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
