// Package letter renders admission offer letters as paginated PDF documents.
package letter

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Config carries institutional branding applied to every letter.
type Config struct {
	InstitutionName string
	SignatoryName   string
	SignatoryTitle  string
	LogoPath        string
	SignaturePath   string
}

// Letter is the per-student content of one offer letter.
type Letter struct {
	StudentName      string
	Nationality      string
	Program          string
	DurationLabel    string
	TuitionFee       int
	OneTimeFee       int
	ELPFee           int
	HostelFee        int
	FirstPeriodTotal int
	Scholarship      string
	OfferDate        string
	StartDate        string
	ReferenceNumber  string
}

// Renderer produces offer-letter PDFs. Rendering is deterministic for
// identical inputs so letters can be regenerated and re-sent safely.
type Renderer struct {
	cfg Config
}

// NewRenderer constructs a letter renderer.
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render builds the PDF for one letter and returns its bytes. A missing logo
// or signature image is omitted rather than failing the document.
func (r *Renderer) Render(l Letter) ([]byte, error) {
	if l.StudentName == "" {
		return nil, fmt.Errorf("letter requires a student name")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	if r.assetExists(r.cfg.LogoPath) {
		pdf.ImageOptions(r.cfg.LogoPath, 20, 12, 24, 0, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		pdf.Ln(18)
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, r.cfg.InstitutionName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Office of Admissions", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("Ref: %s", l.ReferenceNumber), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", l.OfferDate), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.CellFormat(0, 6, fmt.Sprintf("To: %s", l.StudentName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Nationality: %s", l.Nationality), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "SUBJECT: PROVISIONAL OFFER OF ADMISSION", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5.5, fmt.Sprintf(
		"Dear %s,\n\nWe are pleased to offer you admission to the %s program at %s. "+
			"Based on your academic records and qualifications, we believe you will be a valuable addition to our institution. "+
			"Your tentative commencement date is %s.",
		l.StudentName, l.Program, r.cfg.InstitutionName, l.StartDate), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Program Details", "", 1, "L", false, 0, "")
	r.detailRow(pdf, "Program", l.Program)
	r.detailRow(pdf, "Duration", l.DurationLabel)
	r.detailRow(pdf, "Scholarship", l.Scholarship)
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "First Period Fee Schedule (USD)", "", 1, "L", false, 0, "")
	r.feeRow(pdf, "One-time Admission Fee", l.OneTimeFee, false)
	r.feeRow(pdf, "Tuition Fee", l.TuitionFee, false)
	r.feeRow(pdf, "English Language Program", l.ELPFee, false)
	r.feeRow(pdf, "Hostel Fee", l.HostelFee, false)
	r.feeRow(pdf, "Total Payable", l.FirstPeriodTotal, true)
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5.5,
		"We look forward to your acceptance of this offer. Please confirm your decision by replying to this letter, "+
			"quoting the reference number above, within 30 days of the offer date.", "", "L", false)
	pdf.Ln(8)

	pdf.CellFormat(0, 5.5, "Sincerely,", "", 1, "L", false, 0, "")
	if r.assetExists(r.cfg.SignaturePath) {
		pdf.ImageOptions(r.cfg.SignaturePath, 20, pdf.GetY()+2, 35, 0, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		pdf.Ln(16)
	} else {
		pdf.Ln(10)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 5.5, r.cfg.SignatoryName, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5.5, r.cfg.SignatoryTitle, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5.5, r.cfg.InstitutionName, "", 1, "L", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render letter: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) detailRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(60, 6, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(110, 6, value, "1", 1, "L", false, 0, "")
}

func (r *Renderer) feeRow(pdf *gofpdf.Fpdf, label string, amount int, emphasize bool) {
	if emphasize {
		pdf.SetFont("Arial", "B", 10)
	} else {
		pdf.SetFont("Arial", "", 10)
	}
	pdf.CellFormat(60, 6, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(110, 6, fmt.Sprintf("%d", amount), "1", 1, "R", false, 0, "")
}

func (r *Renderer) assetExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
