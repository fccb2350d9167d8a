package service

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/admission-offer-api/internal/models"
	"github.com/noah-isme/admission-offer-api/pkg/batch"
	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
	"github.com/noah-isme/admission-offer-api/pkg/tabular"
)

// Column headers expected in uploaded spreadsheets, matched case-insensitively.
const (
	ColumnStudentName = "Student Name"
	ColumnNationality = "Nationality"
	ColumnProgramName = "Program Name"
	ColumnEmail       = "Email"
)

// IngestOptions tunes one ingestion run.
type IngestOptions struct {
	// RequireEmail makes the Email column a structural precondition, for
	// uploads that will feed bulk delivery.
	RequireEmail bool
}

// IngestService turns uploaded spreadsheets into normalized student records.
type IngestService struct {
	classifier *ClassifierService
	logger     *zap.Logger
}

// NewIngestService constructs the ingestor.
func NewIngestService(classifier *ClassifierService, logger *zap.Logger) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{classifier: classifier, logger: logger}
}

// ParseUpload dispatches on file extension to the matching spreadsheet reader.
func (s *IngestService) ParseUpload(filename string, r io.Reader) (tabular.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		table, err := tabular.ReadCSV(r)
		if err != nil {
			return tabular.Table{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not parse CSV file")
		}
		return table, nil
	case ".xlsx", ".xls":
		table, err := tabular.ReadXLSX(r)
		if err != nil {
			return tabular.Table{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not parse Excel file")
		}
		return table, nil
	default:
		return tabular.Table{}, appErrors.Clone(appErrors.ErrUnsupportedFile,
			fmt.Sprintf("unsupported file type %q, allowed: .csv, .xlsx, .xls", filepath.Ext(filename)))
	}
}

// Ingest normalizes every row of the table into a StudentRecord. A missing
// required column aborts the whole batch with a typed error; a row that
// cannot be normalized is skipped and reported as a warning. Output order
// matches input order because record position feeds reference numbering.
func (s *IngestService) Ingest(table tabular.Table, opts IngestOptions) ([]models.StudentRecord, []models.RowWarning, error) {
	required := []string{ColumnStudentName, ColumnNationality, ColumnProgramName}
	if opts.RequireEmail {
		required = append(required, ColumnEmail)
	}

	var missing []string
	for _, col := range required {
		if table.Column(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrMissingColumns,
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	nameCol := table.Column(ColumnStudentName)
	nationalityCol := table.Column(ColumnNationality)
	programCol := table.Column(ColumnProgramName)
	emailCol := table.Column(ColumnEmail)

	outcome := batch.Run(table.Rows, func(i int, row []string) (models.StudentRecord, error) {
		name := table.Cell(row, nameCol)
		nationality := table.Cell(row, nationalityCol)
		program := table.Cell(row, programCol)

		if name == "" {
			return models.StudentRecord{}, fmt.Errorf("student name is empty")
		}
		if nationality == "" {
			return models.StudentRecord{}, fmt.Errorf("nationality is empty")
		}
		if program == "" {
			return models.StudentRecord{}, fmt.Errorf("program name is empty")
		}

		profile := s.classifier.Classify(program)
		record := models.StudentRecord{
			Name:             name,
			Nationality:      nationality,
			Program:          program,
			Profile:          profile,
			FirstPeriodTotal: profile.FirstPeriodTotal(),
		}
		if emailCol >= 0 {
			record.Email = table.Cell(row, emailCol)
		}
		return record, nil
	})

	warnings := make([]models.RowWarning, 0, outcome.Failed)
	for _, failure := range outcome.Failures() {
		// +2: spreadsheet rows are 1-based and the header occupies row 1.
		warnings = append(warnings, models.RowWarning{Row: failure.Index + 2, Reason: failure.Err.Error()})
	}
	if len(warnings) > 0 {
		s.logger.Warn("rows skipped during ingestion", zap.Int("skipped", len(warnings)), zap.Int("accepted", outcome.OK))
	}

	return outcome.Successes(), warnings, nil
}
