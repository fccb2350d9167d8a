package dto

import (
	"time"

	"github.com/noah-isme/admission-offer-api/internal/models"
)

// DeliveryJobResponse acknowledges an enqueued bulk-delivery run.
type DeliveryJobResponse struct {
	ID        string                `json:"id"`
	BatchID   string                `json:"batch_id"`
	Status    models.DeliveryStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
}

// DeliveryStatusResponse reports progress and the final per-recipient summary.
type DeliveryStatusResponse struct {
	ID           string                  `json:"id"`
	BatchID      string                  `json:"batch_id"`
	Status       models.DeliveryStatus   `json:"status"`
	Summary      *models.DeliverySummary `json:"summary,omitempty"`
	ErrorMessage *string                 `json:"error_message,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	FinishedAt   *time.Time              `json:"finished_at,omitempty"`
}
