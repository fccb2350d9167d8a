package models

import "time"

// StudentRecord is one normalized applicant row enriched with its fee profile.
// Records are immutable after ingestion; the reference number is derived at
// generation time from the batch offset and the record's position.
type StudentRecord struct {
	Name             string         `json:"name"`
	Nationality      string         `json:"nationality"`
	Program          string         `json:"program"`
	Email            string         `json:"email,omitempty"`
	Profile          ProgramProfile `json:"profile"`
	FirstPeriodTotal int            `json:"first_period_total"`
}

// RowWarning records a source row that could not be normalized. The batch
// keeps going; warnings are surfaced to the caller for preview display.
type RowWarning struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Batch groups the records of one upload together with the offer metadata
// they share. Row order is preserved from the source table because record
// position feeds reference-number assignment.
type Batch struct {
	ID             string          `db:"id" json:"id"`
	OfferDate      string          `db:"offer_date" json:"offer_date"`
	StartDate      string          `db:"start_date" json:"start_date"`
	RefNumberStart int             `db:"ref_number_start" json:"ref_number_start"`
	Records        []StudentRecord `db:"-" json:"records"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
