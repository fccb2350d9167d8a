package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admission-offer-api/internal/models"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestBatchRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO batches")).
		WithArgs(sqlmock.AnyArg(), "2026-08-01", "2026-09-15", 1000, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	b := &models.Batch{
		OfferDate:      "2026-08-01",
		StartDate:      "2026-09-15",
		RefNumberStart: 1000,
		Records: []models.StudentRecord{
			{Name: "Alice Mwangi", Nationality: "Kenya", Program: "B.Tech CSE"},
		},
	}
	require.NoError(t, repo.Create(context.Background(), b))
	require.NotEmpty(t, b.ID)

	records := `[{"name":"Alice Mwangi","nationality":"Kenya","program":"B.Tech CSE","profile":{},"first_period_total":0}]`
	rows := sqlmock.NewRows([]string{"id", "offer_date", "start_date", "ref_number_start", "records", "created_at"}).
		AddRow(b.ID, "2026-08-01", "2026-09-15", 1000, []byte(records), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, offer_date, start_date, ref_number_start, records, created_at FROM batches WHERE id = $1")).
		WithArgs(b.ID).
		WillReturnRows(rows)

	fetched, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ID, fetched.ID)
	require.Len(t, fetched.Records, 1)
	require.Equal(t, "Alice Mwangi", fetched.Records[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryGetNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, offer_date, start_date, ref_number_start, records, created_at FROM batches WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, appErrors.ErrBatchNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM batches WHERE id = $1")).
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "b1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM batches WHERE id = $1")).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "gone"), appErrors.ErrBatchNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryDeleteOlderThan(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	cutoff := time.Now().Add(-24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id"}).AddRow("b1").AddRow("b2")
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM batches WHERE created_at < $1 RETURNING id")).
		WithArgs(cutoff).
		WillReturnRows(rows)

	ids, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	require.Equal(t, []string{"b1", "b2"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
