package models

import "time"

// DeliveryStatus tracks the lifecycle of an asynchronous delivery job.
type DeliveryStatus string

const (
	DeliveryStatusQueued     DeliveryStatus = "queued"
	DeliveryStatusProcessing DeliveryStatus = "processing"
	DeliveryStatusFinished   DeliveryStatus = "finished"
	DeliveryStatusFailed     DeliveryStatus = "failed"
)

// DeliveryDetail records the outcome for one recipient.
type DeliveryDetail struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// DeliverySummary aggregates per-recipient outcomes for a delivery job.
type DeliverySummary struct {
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Failed  int              `json:"failed"`
	Details []DeliveryDetail `json:"details"`
}

// DeliveryJob is a queued bulk-delivery run for one batch.
type DeliveryJob struct {
	ID           string           `db:"id" json:"id"`
	BatchID      string           `db:"batch_id" json:"batch_id"`
	Status       DeliveryStatus   `db:"status" json:"status"`
	Summary      *DeliverySummary `db:"-" json:"summary,omitempty"`
	ErrorMessage *string          `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time       `db:"finished_at" json:"finished_at,omitempty"`
}
