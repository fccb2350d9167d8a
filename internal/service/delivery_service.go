package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/admission-offer-api/internal/dto"
	"github.com/noah-isme/admission-offer-api/internal/models"
	"github.com/noah-isme/admission-offer-api/pkg/batch"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
	"github.com/noah-isme/admission-offer-api/pkg/jobs"
	"github.com/noah-isme/admission-offer-api/pkg/mailer"
)

type deliveryStore interface {
	Create(ctx context.Context, job *models.DeliveryJob) error
	GetByID(ctx context.Context, id string) (*models.DeliveryJob, error)
	Update(ctx context.Context, job *models.DeliveryJob) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// DeliveryConfig tunes per-recipient sending.
type DeliveryConfig struct {
	InstitutionName  string
	RecipientTimeout time.Duration
}

// DeliveryService runs bulk email delivery of rendered offer letters as
// background jobs. Creation validates and enqueues; workers render and send.
type DeliveryService struct {
	jobs     deliveryStore
	batches  batchStore
	renderer letterRenderer
	refs     ReferenceAssigner
	sender   mailer.Sender
	queue    jobEnqueuer
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      DeliveryConfig
}

// NewDeliveryService constructs a DeliveryService. The queue is attached
// later via SetQueue because the queue handler needs the service.
func NewDeliveryService(store deliveryStore, batches batchStore, renderer letterRenderer, refs ReferenceAssigner, sender mailer.Sender, metrics *MetricsService, logger *zap.Logger, cfg DeliveryConfig) *DeliveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RecipientTimeout <= 0 {
		cfg.RecipientTimeout = 30 * time.Second
	}
	if cfg.InstitutionName == "" {
		cfg.InstitutionName = "Global University"
	}
	return &DeliveryService{
		jobs:     store,
		batches:  batches,
		renderer: renderer,
		refs:     refs,
		sender:   sender,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// SetQueue wires the worker queue used to run jobs asynchronously.
func (s *DeliveryService) SetQueue(q jobEnqueuer) {
	s.queue = q
}

// Create validates the batch, persists a queued job and enqueues it.
// Every record must carry an email address; a batch with any missing
// address is rejected before anything is sent.
func (s *DeliveryService) Create(ctx context.Context, batchID string) (*dto.DeliveryJobResponse, error) {
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

	var missing []string
	for _, record := range b.Records {
		if strings.TrimSpace(record.Email) == "" {
			missing = append(missing, record.Name)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrMissingEmails,
			fmt.Sprintf("records without email address: %s", strings.Join(missing, ", ")))
	}

	job := &models.DeliveryJob{
		ID:        uuid.NewString(),
		BatchID:   batchID,
		Status:    models.DeliveryStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if s.queue == nil {
		s.failJob(ctx, job, "delivery queue not running")
		return nil, appErrors.Clone(appErrors.ErrInternal, "delivery queue not running")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "letter-delivery", Payload: job.BatchID}); err != nil {
		s.logger.Error("failed to enqueue delivery job", zap.String("job_id", job.ID), zap.Error(err))
		s.failJob(context.Background(), job, "could not enqueue delivery job")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not enqueue delivery job")
	}

	return &dto.DeliveryJobResponse{
		ID:        job.ID,
		BatchID:   job.BatchID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
	}, nil
}

// Status returns the job's current state including the final summary when done.
func (s *DeliveryService) Status(ctx context.Context, jobID string) (*dto.DeliveryStatusResponse, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &dto.DeliveryStatusResponse{
		ID:           job.ID,
		BatchID:      job.BatchID,
		Status:       job.Status,
		Summary:      job.Summary,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		FinishedAt:   job.FinishedAt,
	}, nil
}

// HandleJob is the queue handler. It renders each letter and emails it to
// its recipient; one recipient's failure never aborts the run. The job only
// fails outright when the batch itself cannot be loaded.
func (s *DeliveryService) HandleJob(ctx context.Context, queued jobs.Job) error {
	job, err := s.jobs.GetByID(ctx, queued.ID)
	if err != nil {
		return fmt.Errorf("load delivery job %s: %w", queued.ID, err)
	}
	if job.Status == models.DeliveryStatusFinished {
		return nil
	}

	job.Status = models.DeliveryStatusProcessing
	if err := s.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("mark job processing: %w", err)
	}

	b, err := s.batches.GetByID(ctx, job.BatchID)
	if err != nil {
		s.failJob(ctx, job, fmt.Sprintf("batch unavailable: %v", err))
		return nil
	}

	outcome := batch.Run(b.Records, func(i int, record models.StudentRecord) (struct{}, error) {
		return struct{}{}, s.deliverOne(ctx, b, i, record)
	})

	summary := &models.DeliverySummary{
		Total:   len(b.Records),
		Success: outcome.OK,
		Failed:  outcome.Failed,
		Details: make([]models.DeliveryDetail, 0, len(b.Records)),
	}
	for _, result := range outcome.Results {
		detail := models.DeliveryDetail{
			Name:   result.Item.Name,
			Email:  result.Item.Email,
			Status: "sent",
		}
		if result.Err != nil {
			detail.Status = "failed"
			detail.Reason = result.Err.Error()
		}
		summary.Details = append(summary.Details, detail)
	}

	now := time.Now().UTC()
	job.Status = models.DeliveryStatusFinished
	job.Summary = summary
	job.FinishedAt = &now
	if err := s.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("persist job summary: %w", err)
	}

	s.logger.Info("delivery job finished",
		zap.String("job_id", job.ID), zap.String("batch_id", job.BatchID),
		zap.Int("success", summary.Success), zap.Int("failed", summary.Failed))
	return nil
}

func (s *DeliveryService) deliverOne(ctx context.Context, b *models.Batch, index int, record models.StudentRecord) error {
	ref, err := s.refs.For(b.RefNumberStart, index)
	if err != nil {
		return err
	}
	data, err := s.renderer.Render(buildLetter(b, record, ref))
	s.metrics.RecordLetterRender(err == nil)
	if err != nil {
		s.metrics.RecordEmailDelivery(false)
		return fmt.Errorf("render letter: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.RecipientTimeout)
	defer cancel()
	err = s.sender.Send(sendCtx, mailer.Message{
		ToName:         record.Name,
		ToAddress:      record.Email,
		Subject:        fmt.Sprintf("Congratulations! Your Offer Letter from %s (Ref: %s)", s.cfg.InstitutionName, ref),
		HTMLBody:       s.emailBody(record.Name, ref),
		AttachmentName: letterFilename(record.Name),
		Attachment:     data,
	})
	s.metrics.RecordEmailDelivery(err == nil)
	if err != nil {
		s.logger.Warn("email delivery failed",
			zap.String("batch_id", b.ID), zap.String("recipient", record.Email), zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (s *DeliveryService) failJob(ctx context.Context, job *models.DeliveryJob, reason string) {
	now := time.Now().UTC()
	job.Status = models.DeliveryStatusFailed
	job.ErrorMessage = &reason
	job.FinishedAt = &now
	if err := s.jobs.Update(ctx, job); err != nil {
		s.logger.Error("failed to persist job failure", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (s *DeliveryService) emailBody(studentName, ref string) string {
	return fmt.Sprintf(`<html>
  <body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px;">
      <h2 style="color: #003366; text-align: center;">Congratulations, %s!</h2>
      <p style="font-size: 16px; line-height: 1.5;">We are pleased to inform you that your application to %s has been successful.</p>
      <p style="font-size: 16px; line-height: 1.5;">Attached to this email is your official offer letter containing all the details about your program, fees, and next steps.</p>
      <p style="font-size: 16px; line-height: 1.5;">Please review the attached document carefully and confirm your acceptance by replying to this email.</p>
      <p style="font-size: 16px; line-height: 1.5;">If you have any questions or require further assistance, please contact our admissions team.</p>
      <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd;">
        <p style="font-size: 14px; color: #666;">Reference Number: %s</p>
        <p style="font-size: 14px; color: #666;">%s<br>Admissions Office</p>
      </div>
    </div>
  </body>
</html>`, studentName, s.cfg.InstitutionName, ref, s.cfg.InstitutionName)
}
