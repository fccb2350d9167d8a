package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/admission-offer-api/internal/models"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
)

// BatchRepository persists uploaded batches. Records are stored as a JSONB
// document because they are written once at ingestion and always read back
// as a whole ordered list.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs the repository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

type batchRow struct {
	ID             string          `db:"id"`
	OfferDate      string          `db:"offer_date"`
	StartDate      string          `db:"start_date"`
	RefNumberStart int             `db:"ref_number_start"`
	Records        json.RawMessage `db:"records"`
	CreatedAt      time.Time       `db:"created_at"`
}

// Create inserts a batch row with generated defaults.
func (r *BatchRepository) Create(ctx context.Context, b *models.Batch) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	records, err := json.Marshal(b.Records)
	if err != nil {
		return fmt.Errorf("marshal batch records: %w", err)
	}
	const query = `INSERT INTO batches (id, offer_date, start_date, ref_number_start, records, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, b.ID, b.OfferDate, b.StartDate, b.RefNumberStart, records, b.CreatedAt); err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID returns a batch with its full record list.
func (r *BatchRepository) GetByID(ctx context.Context, id string) (*models.Batch, error) {
	const query = `SELECT id, offer_date, start_date, ref_number_start, records, created_at
FROM batches WHERE id = $1`
	var row batchRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	b := &models.Batch{
		ID:             row.ID,
		OfferDate:      row.OfferDate,
		StartDate:      row.StartDate,
		RefNumberStart: row.RefNumberStart,
		CreatedAt:      row.CreatedAt,
	}
	if len(row.Records) > 0 {
		if err := json.Unmarshal(row.Records, &b.Records); err != nil {
			return nil, fmt.Errorf("unmarshal batch records: %w", err)
		}
	}
	return b, nil
}

// Delete removes a batch row.
func (r *BatchRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM batches WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if affected == 0 {
		return appErrors.ErrBatchNotFound
	}
	return nil
}

// DeleteOlderThan removes batches past the retention window, returning the
// deleted ids so callers can invalidate caches.
func (r *BatchRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	const query = `DELETE FROM batches WHERE created_at < $1 RETURNING id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, cutoff); err != nil {
		return nil, fmt.Errorf("delete expired batches: %w", err)
	}
	return ids, nil
}
