package service

import (
	"context"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admission-offer-api/internal/dto"
	"github.com/noah-isme/admission-offer-api/internal/models"
	"github.com/noah-isme/admission-offer-api/pkg/cache"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
)

type deliveryJobCleaner interface {
	DeleteForBatch(ctx context.Context, batchID string) error
}

type batchPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}

// BatchService owns the batch lifecycle: upload, lookup, deletion and
// retention pruning.
type BatchService struct {
	batches   batchStore
	pruner    batchPruner
	delivery  deliveryJobCleaner
	ingest    *IngestService
	refs      ReferenceAssigner
	cache     *cache.LetterCache
	validator *validator.Validate
	logger    *zap.Logger
	retention time.Duration
}

// NewBatchService constructs a BatchService.
func NewBatchService(batches batchStore, pruner batchPruner, delivery deliveryJobCleaner, ingest *IngestService, refs ReferenceAssigner, letterCache *cache.LetterCache, validate *validator.Validate, logger *zap.Logger, retention time.Duration) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &BatchService{
		batches:   batches,
		pruner:    pruner,
		delivery:  delivery,
		ingest:    ingest,
		refs:      refs,
		cache:     letterCache,
		validator: validate,
		logger:    logger,
		retention: retention,
	}
}

// Upload parses the spreadsheet, normalizes its rows and persists the batch.
// An upload whose usable rows would overflow the reference space is rejected
// up front rather than failing halfway through generation.
func (s *BatchService) Upload(ctx context.Context, form dto.UploadForm, filename string, file io.Reader) (*dto.UploadResponse, error) {
	if err := s.validator.Struct(form); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			"offer_date and start_date must be YYYY-MM-DD and ref_number_start must be within 1000..9999")
	}

	table, err := s.ingest.ParseUpload(filename, file)
	if err != nil {
		return nil, err
	}

	records, warnings, err := s.ingest.Ingest(table, IngestOptions{RequireEmail: form.RequireEmail})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyBatch, "no usable rows in uploaded file")
	}
	if err := s.refs.Fits(form.RefNumberStart, len(records)); err != nil {
		return nil, err
	}

	b := &models.Batch{
		OfferDate:      form.OfferDate,
		StartDate:      form.StartDate,
		RefNumberStart: form.RefNumberStart,
		Records:        records,
	}
	if err := s.batches.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("batch created",
		zap.String("batch_id", b.ID), zap.Int("records", len(records)), zap.Int("skipped", len(warnings)))

	return &dto.UploadResponse{
		BatchID:     b.ID,
		RecordCount: len(records),
		Warnings:    warnings,
		Preview:     records,
	}, nil
}

// Get returns a stored batch with its records.
func (s *BatchService) Get(ctx context.Context, id string) (*models.Batch, error) {
	return s.batches.GetByID(ctx, id)
}

// Delete removes a batch, its delivery jobs and any cached letters.
func (s *BatchService) Delete(ctx context.Context, id string) error {
	if err := s.batches.Delete(ctx, id); err != nil {
		return err
	}
	if s.delivery != nil {
		if err := s.delivery.DeleteForBatch(ctx, id); err != nil {
			s.logger.Warn("failed to remove delivery jobs for batch", zap.String("batch_id", id), zap.Error(err))
		}
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

// Prune deletes batches past the retention window.
func (s *BatchService) Prune(ctx context.Context) {
	if s.pruner == nil {
		return
	}
	ids, err := s.pruner.DeleteOlderThan(ctx, time.Now().UTC().Add(-s.retention))
	if err != nil {
		s.logger.Warn("batch pruning failed", zap.Error(err))
		return
	}
	for _, id := range ids {
		if s.delivery != nil {
			if err := s.delivery.DeleteForBatch(ctx, id); err != nil {
				s.logger.Warn("failed to remove delivery jobs for batch", zap.String("batch_id", id), zap.Error(err))
			}
		}
		s.cache.Invalidate(ctx, id)
	}
	if len(ids) > 0 {
		s.logger.Info("expired batches pruned", zap.Int("count", len(ids)))
	}
}
