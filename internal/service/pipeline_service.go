package service

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/admission-offer-api/internal/dto"
	"github.com/noah-isme/admission-offer-api/internal/models"
	"github.com/noah-isme/admission-offer-api/pkg/batch"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
	"github.com/noah-isme/admission-offer-api/pkg/storage"
)

type archiveStorage interface {
	Create(filename string) (*os.File, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type downloadSigner interface {
	Generate(batchID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (batchID, relPath string, expiresAt time.Time, err error)
}

// PipelineConfig tunes archive generation.
type PipelineConfig struct {
	APIPrefix  string
	StorageTTL time.Duration
}

// PipelineService renders every letter of a batch and packages the
// successful ones into a zip archive.
type PipelineService struct {
	batches  batchStore
	renderer letterRenderer
	refs     ReferenceAssigner
	storage  archiveStorage
	signer   downloadSigner
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      PipelineConfig
}

// ArchiveDownload bundles a stored archive reader with response metadata.
type ArchiveDownload struct {
	File     *os.File
	Filename string
}

// NewPipelineService constructs a PipelineService.
func NewPipelineService(batches batchStore, renderer letterRenderer, refs ReferenceAssigner, store archiveStorage, signer downloadSigner, metrics *MetricsService, logger *zap.Logger, cfg PipelineConfig) *PipelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.StorageTTL <= 0 {
		cfg.StorageTTL = 24 * time.Hour
	}
	return &PipelineService{
		batches:  batches,
		renderer: renderer,
		refs:     refs,
		storage:  store,
		signer:   signer,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// RenderAll renders the whole batch into a stored zip archive. One record's
// render failure is reported and skipped, never aborting the batch; the call
// fails outright only for structural problems (missing batch, reference
// overflow, empty batch, archive I/O).
func (s *PipelineService) RenderAll(ctx context.Context, batchID string) (*dto.ArchiveResponse, error) {
	b, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(b.Records) == 0 {
		return nil, appErrors.ErrEmptyBatch
	}
	if err := s.refs.Fits(b.RefNumberStart, len(b.Records)); err != nil {
		return nil, err
	}

	relPath := fmt.Sprintf("archives/%s_offer_letters.zip", batchID)
	file, err := s.storage.Create(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not create archive")
	}

	// Letters stream into the zip one at a time; only the current letter is
	// held in memory.
	zw := zip.NewWriter(file)
	outcome := batch.Run(b.Records, func(i int, record models.StudentRecord) (string, error) {
		ref, err := s.refs.For(b.RefNumberStart, i)
		if err != nil {
			return "", err
		}
		data, err := s.renderer.Render(buildLetter(b, record, ref))
		s.metrics.RecordLetterRender(err == nil)
		if err != nil {
			s.logger.Warn("letter render failed, continuing batch",
				zap.String("batch_id", batchID), zap.Int("index", i),
				zap.String("student", record.Name), zap.Error(err))
			return "", err
		}
		entry, err := zw.Create(letterFilename(record.Name))
		if err != nil {
			return "", fmt.Errorf("archive entry: %w", err)
		}
		if _, err := entry.Write(data); err != nil {
			return "", fmt.Errorf("archive write: %w", err)
		}
		return ref, nil
	})

	if err := zw.Close(); err != nil {
		_ = file.Close()
		_ = s.storage.Delete(relPath)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not finalize archive")
	}
	if err := file.Close(); err != nil {
		_ = s.storage.Delete(relPath)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not finalize archive")
	}

	if outcome.OK == 0 {
		_ = s.storage.Delete(relPath)
		return nil, appErrors.Clone(appErrors.ErrInternal, "no letter could be rendered for this batch")
	}

	token, expiresAt, err := s.signer.Generate(batchID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not sign download URL")
	}

	failures := make([]dto.RenderFailure, 0, outcome.Failed)
	for _, failure := range outcome.Failures() {
		failures = append(failures, dto.RenderFailure{
			Index:  failure.Index,
			Name:   failure.Item.Name,
			Reason: failure.Err.Error(),
		})
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &dto.ArchiveResponse{
		DownloadURL: fmt.Sprintf("%s/letters/download/%s", prefix, token),
		ExpiresAt:   expiresAt,
		Total:       len(b.Records),
		Rendered:    outcome.OK,
		Failed:      outcome.Failed,
		Failures:    failures,
	}, nil
}

// ResolveDownload validates a download token and opens the referenced archive.
func (s *PipelineService) ResolveDownload(token string) (*ArchiveDownload, error) {
	batchID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "archive no longer available")
	}
	return &ArchiveDownload{
		File:     file,
		Filename: fmt.Sprintf("offer_letters_%s.zip", batchID),
	}, nil
}

// Cleanup removes stored archives older than the configured TTL.
func (s *PipelineService) Cleanup() {
	deleted, err := s.storage.CleanupOlderThan(s.cfg.StorageTTL)
	if err != nil {
		s.logger.Warn("archive cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("archive cleanup removed files", zap.Int("count", len(deleted)))
	}
}

var _ downloadSigner = (*storage.SignedURLSigner)(nil)
