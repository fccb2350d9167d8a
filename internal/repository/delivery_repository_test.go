package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admission-offer-api/internal/models"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
)

func TestDeliveryRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeliveryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO delivery_jobs")).
		WithArgs(sqlmock.AnyArg(), "batch-1", models.DeliveryStatusQueued, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.DeliveryJob{BatchID: "batch-1"}
	require.NoError(t, repo.Create(context.Background(), job))
	require.NotEmpty(t, job.ID)
	require.Equal(t, models.DeliveryStatusQueued, job.Status)

	rows := sqlmock.NewRows([]string{"id", "batch_id", "status", "summary", "error_message", "created_at", "finished_at"}).
		AddRow(job.ID, "batch-1", "queued", nil, nil, time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, batch_id, status, summary, error_message, created_at, finished_at FROM delivery_jobs WHERE id = $1")).
		WithArgs(job.ID).
		WillReturnRows(rows)

	fetched, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, models.DeliveryStatusQueued, fetched.Status)
	require.Nil(t, fetched.Summary)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepositoryGetWithSummary(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeliveryRepository(db)

	summary := `{"total":2,"success":1,"failed":1,"details":[{"name":"Alice","email":"a@x.io","status":"sent"},{"name":"Bob","email":"b@x.io","status":"failed","reason":"smtp boom"}]}`
	finished := time.Now()
	rows := sqlmock.NewRows([]string{"id", "batch_id", "status", "summary", "error_message", "created_at", "finished_at"}).
		AddRow("job-1", "batch-1", "finished", []byte(summary), nil, time.Now(), finished)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, batch_id, status, summary, error_message, created_at, finished_at FROM delivery_jobs WHERE id = $1")).
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, models.DeliveryStatusFinished, job.Status)
	require.NotNil(t, job.Summary)
	require.Equal(t, 2, job.Summary.Total)
	require.Len(t, job.Summary.Details, 2)
	require.Equal(t, "smtp boom", job.Summary.Details[1].Reason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepositoryGetNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeliveryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, batch_id, status, summary, error_message, created_at, finished_at FROM delivery_jobs WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, appErrors.ErrDeliveryNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeliveryRepository(db)

	now := time.Now()
	job := &models.DeliveryJob{
		ID:      "job-1",
		BatchID: "batch-1",
		Status:  models.DeliveryStatusFinished,
		Summary: &models.DeliverySummary{
			Total:   1,
			Success: 1,
			Details: []models.DeliveryDetail{{Name: "Alice", Email: "a@x.io", Status: "sent"}},
		},
		FinishedAt: &now,
	}
	mock.ExpectExec(regexp.QuoteMeta("UPDATE delivery_jobs SET status = $1, summary = $2, error_message = $3, finished_at = $4 WHERE id = $5")).
		WithArgs(models.DeliveryStatusFinished, sqlmock.AnyArg(), nil, now, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), job))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepositoryUpdateNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeliveryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE delivery_jobs SET")).
		WithArgs(models.DeliveryStatusProcessing, nil, nil, nil, "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.DeliveryJob{ID: "gone", Status: models.DeliveryStatusProcessing})
	require.ErrorIs(t, err, appErrors.ErrDeliveryNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepositoryDeleteForBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeliveryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM delivery_jobs WHERE batch_id = $1")).
		WithArgs("batch-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteForBatch(context.Background(), "batch-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
