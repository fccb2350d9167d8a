package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/admission-offer-api/internal/models"
	"github.com/noah-isme/admission-offer-api/pkg/cache"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
	"github.com/noah-isme/admission-offer-api/pkg/letter"
)

type batchStore interface {
	Create(ctx context.Context, b *models.Batch) error
	GetByID(ctx context.Context, id string) (*models.Batch, error)
	Delete(ctx context.Context, id string) error
}

type letterRenderer interface {
	Render(l letter.Letter) ([]byte, error)
}

// LetterService renders single offer letters for one record of a batch.
type LetterService struct {
	batches  batchStore
	renderer letterRenderer
	refs     ReferenceAssigner
	cache    *cache.LetterCache
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewLetterService constructs a LetterService. Cache and metrics may be nil.
func NewLetterService(batches batchStore, renderer letterRenderer, refs ReferenceAssigner, letterCache *cache.LetterCache, metrics *MetricsService, logger *zap.Logger) *LetterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LetterService{
		batches:  batches,
		renderer: renderer,
		refs:     refs,
		cache:    letterCache,
		metrics:  metrics,
		logger:   logger,
	}
}

// RenderOne produces the offer letter PDF for the record at index. The
// rendered bytes are cached; identical inputs always produce identical
// output, so regeneration after a cache miss is safe.
func (s *LetterService) RenderOne(ctx context.Context, batchID string, index int) (string, []byte, error) {
	b, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return "", nil, err
	}
	if index < 0 || index >= len(b.Records) {
		return "", nil, appErrors.Clone(appErrors.ErrRecordNotFound,
			fmt.Sprintf("record index %d outside batch of %d", index, len(b.Records)))
	}

	ref, err := s.refs.For(b.RefNumberStart, index)
	if err != nil {
		return "", nil, err
	}

	record := b.Records[index]
	filename := letterFilename(record.Name)

	if data := s.cache.Get(ctx, batchID, index, b.RefNumberStart); data != nil {
		return filename, data, nil
	}

	data, err := s.renderer.Render(buildLetter(b, record, ref))
	s.metrics.RecordLetterRender(err == nil)
	if err != nil {
		s.logger.Error("letter render failed",
			zap.String("batch_id", batchID), zap.Int("index", index), zap.Error(err))
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not render offer letter")
	}

	s.cache.Set(ctx, batchID, index, b.RefNumberStart, data)
	return filename, data, nil
}

func buildLetter(b *models.Batch, record models.StudentRecord, ref string) letter.Letter {
	return letter.Letter{
		StudentName:      record.Name,
		Nationality:      record.Nationality,
		Program:          record.Program,
		DurationLabel:    record.Profile.DurationLabel,
		TuitionFee:       record.Profile.TuitionFee,
		OneTimeFee:       record.Profile.OneTimeFee,
		ELPFee:           record.Profile.ELPFee,
		HostelFee:        record.Profile.HostelFee,
		FirstPeriodTotal: record.FirstPeriodTotal,
		Scholarship:      record.Profile.Scholarship,
		OfferDate:        b.OfferDate,
		StartDate:        b.StartDate,
		ReferenceNumber:  ref,
	}
}

// letterFilename derives the per-letter file name from the student's display
// name. Identical names collide; last write wins inside an archive.
func letterFilename(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	sanitized := replacer.Replace(strings.TrimSpace(name))
	if sanitized == "" {
		sanitized = "student"
	}
	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}
	return fmt.Sprintf("Offer_Letter_%s.pdf", sanitized)
}
