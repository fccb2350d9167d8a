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

// DeliveryRepository persists delivery job state. The per-recipient summary
// lands in a JSONB column once the job finishes.
type DeliveryRepository struct {
	db *sqlx.DB
}

// NewDeliveryRepository constructs the repository.
func NewDeliveryRepository(db *sqlx.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

type deliveryRow struct {
	ID           string          `db:"id"`
	BatchID      string          `db:"batch_id"`
	Status       string          `db:"status"`
	Summary      []byte          `db:"summary"`
	ErrorMessage *string         `db:"error_message"`
	CreatedAt    time.Time       `db:"created_at"`
	FinishedAt   *time.Time      `db:"finished_at"`
}

// Create inserts a job row with generated defaults.
func (r *DeliveryRepository) Create(ctx context.Context, job *models.DeliveryJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.DeliveryStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO delivery_jobs (id, batch_id, status, summary, error_message, created_at, finished_at)
VALUES ($1, $2, $3, NULL, $4, $5, NULL)`
	if _, err := r.db.ExecContext(ctx, query, job.ID, job.BatchID, job.Status, job.ErrorMessage, job.CreatedAt); err != nil {
		return fmt.Errorf("create delivery job: %w", err)
	}
	return nil
}

// GetByID returns one delivery job.
func (r *DeliveryRepository) GetByID(ctx context.Context, id string) (*models.DeliveryJob, error) {
	const query = `SELECT id, batch_id, status, summary, error_message, created_at, finished_at
FROM delivery_jobs WHERE id = $1`
	var row deliveryRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("get delivery job: %w", err)
	}
	job := &models.DeliveryJob{
		ID:           row.ID,
		BatchID:      row.BatchID,
		Status:       models.DeliveryStatus(row.Status),
		ErrorMessage: row.ErrorMessage,
		CreatedAt:    row.CreatedAt,
		FinishedAt:   row.FinishedAt,
	}
	if len(row.Summary) > 0 {
		var summary models.DeliverySummary
		if err := json.Unmarshal(row.Summary, &summary); err != nil {
			return nil, fmt.Errorf("unmarshal delivery summary: %w", err)
		}
		job.Summary = &summary
	}
	return job, nil
}

// Update persists the job's mutable state.
func (r *DeliveryRepository) Update(ctx context.Context, job *models.DeliveryJob) error {
	var summary interface{}
	if job.Summary != nil {
		data, err := json.Marshal(job.Summary)
		if err != nil {
			return fmt.Errorf("marshal delivery summary: %w", err)
		}
		summary = data
	}
	const query = `UPDATE delivery_jobs SET status = $1, summary = $2, error_message = $3, finished_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, job.Status, summary, job.ErrorMessage, job.FinishedAt, job.ID)
	if err != nil {
		return fmt.Errorf("update delivery job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update delivery job: %w", err)
	}
	if affected == 0 {
		return appErrors.ErrDeliveryNotFound
	}
	return nil
}

// DeleteForBatch removes jobs belonging to a batch, used when the batch is
// deleted so status lookups do not dangle.
func (r *DeliveryRepository) DeleteForBatch(ctx context.Context, batchID string) error {
	const query = `DELETE FROM delivery_jobs WHERE batch_id = $1`
	if _, err := r.db.ExecContext(ctx, query, batchID); err != nil {
		return fmt.Errorf("delete delivery jobs for batch: %w", err)
	}
	return nil
}
