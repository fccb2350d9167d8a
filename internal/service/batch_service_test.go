package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/admission-offer-api/internal/dto"
	"github.com/noah-isme/admission-offer-api/internal/models"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
)

type stubJobCleaner struct {
	cleaned []string
}

func (c *stubJobCleaner) DeleteForBatch(_ context.Context, batchID string) error {
	c.cleaned = append(c.cleaned, batchID)
	return nil
}

func newTestBatchService(store *stubBatchStore, cleaner *stubJobCleaner) *BatchService {
	ingest := NewIngestService(NewClassifierService(zap.NewNop()), nil)
	return NewBatchService(store, nil, cleaner, ingest, NewReferenceAssigner("ADM-"), nil, nil, nil, 0)
}

const uploadCSV = `Student Name,Nationality,Program Name,Email
Alice Mwangi,Kenya,B.Tech AIML,alice@example.com
Bob Otieno,Kenya,Diploma in Mechanical Engineering,bob@example.com
`

func TestBatchUploadCreatesBatch(t *testing.T) {
	store := &stubBatchStore{batches: map[string]*models.Batch{}}
	svc := newTestBatchService(store, &stubJobCleaner{})

	form := dto.UploadForm{OfferDate: "2026-08-01", StartDate: "2026-09-15", RefNumberStart: 1000}
	resp, err := svc.Upload(context.Background(), form, "students.csv", strings.NewReader(uploadCSV))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.BatchID)
	assert.Equal(t, 2, resp.RecordCount)
	assert.Empty(t, resp.Warnings)
	require.Len(t, resp.Preview, 2)
	assert.Equal(t, models.ProgramBachelor, resp.Preview[0].Profile.Type)
	assert.Equal(t, "04 YEARS", resp.Preview[0].Profile.DurationLabel)
	assert.Equal(t, models.ProgramDiploma, resp.Preview[1].Profile.Type)

	stored, ok := store.batches[resp.BatchID]
	require.True(t, ok)
	assert.Equal(t, 1000, stored.RefNumberStart)
	assert.Len(t, stored.Records, 2)
}

func TestBatchUploadRejectsUnsupportedFile(t *testing.T) {
	svc := newTestBatchService(&stubBatchStore{batches: map[string]*models.Batch{}}, &stubJobCleaner{})

	form := dto.UploadForm{OfferDate: "2026-08-01", StartDate: "2026-09-15", RefNumberStart: 1000}
	_, err := svc.Upload(context.Background(), form, "students.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnsupportedFile.Code, appErrors.FromError(err).Code)
}

func TestBatchUploadRejectsMalformedDates(t *testing.T) {
	svc := newTestBatchService(&stubBatchStore{batches: map[string]*models.Batch{}}, &stubJobCleaner{})

	form := dto.UploadForm{OfferDate: "01/08/2026", StartDate: "2026-09-15", RefNumberStart: 1000}
	_, err := svc.Upload(context.Background(), form, "students.csv", strings.NewReader(uploadCSV))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBatchUploadRejectsEmptyUsableRows(t *testing.T) {
	svc := newTestBatchService(&stubBatchStore{batches: map[string]*models.Batch{}}, &stubJobCleaner{})

	csv := "Student Name,Nationality,Program Name\n,,\n"
	_, err := svc.Upload(context.Background(), dto.UploadForm{OfferDate: "2026-08-01", StartDate: "2026-09-15", RefNumberStart: 1000}, "students.csv", strings.NewReader(csv))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmptyBatch.Code, appErrors.FromError(err).Code)
}

func TestBatchUploadRejectsReferenceOverflow(t *testing.T) {
	svc := newTestBatchService(&stubBatchStore{batches: map[string]*models.Batch{}}, &stubJobCleaner{})

	form := dto.UploadForm{OfferDate: "2026-08-01", StartDate: "2026-09-15", RefNumberStart: 9999}
	_, err := svc.Upload(context.Background(), form, "students.csv", strings.NewReader(uploadCSV))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReferenceOverflow.Code, appErrors.FromError(err).Code)
}

func TestBatchDeleteCleansDeliveryJobs(t *testing.T) {
	store := &stubBatchStore{batches: map[string]*models.Batch{"b1": testBatch("b1", "Alice Mwangi")}}
	cleaner := &stubJobCleaner{}
	svc := newTestBatchService(store, cleaner)

	require.NoError(t, svc.Delete(context.Background(), "b1"))
	assert.Empty(t, store.batches)
	assert.Equal(t, []string{"b1"}, cleaner.cleaned)

	err := svc.Delete(context.Background(), "gone")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBatchNotFound.Code, appErrors.FromError(err).Code)
}
