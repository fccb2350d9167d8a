package dto

import (
	"time"

	"github.com/noah-isme/admission-offer-api/internal/models"
)

// UploadForm carries the offer metadata accompanying a spreadsheet upload.
type UploadForm struct {
	OfferDate      string `form:"offer_date" binding:"required" validate:"required,datetime=2006-01-02"`
	StartDate      string `form:"start_date" binding:"required" validate:"required,datetime=2006-01-02"`
	RefNumberStart int    `form:"ref_number_start" binding:"required,gte=1000,lte=9999" validate:"required,gte=1000,lte=9999"`
	RequireEmail   bool   `form:"require_email" validate:"-"`
}

// UploadResponse summarises a processed upload for preview display.
type UploadResponse struct {
	BatchID     string                 `json:"batch_id"`
	RecordCount int                    `json:"record_count"`
	Warnings    []models.RowWarning    `json:"warnings,omitempty"`
	Preview     []models.StudentRecord `json:"preview"`
}

// RenderFailure identifies one record whose letter could not be rendered.
type RenderFailure struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ArchiveResponse describes a generated letter archive and any per-record failures.
type ArchiveResponse struct {
	DownloadURL string          `json:"download_url"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Total       int             `json:"total"`
	Rendered    int             `json:"rendered"`
	Failed      int             `json:"failed"`
	Failures    []RenderFailure `json:"failures,omitempty"`
}
