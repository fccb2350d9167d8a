package letter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLetter() Letter {
	return Letter{
		StudentName:      "Aisha Khan",
		Nationality:      "Kenya",
		Program:          "B.Tech AIML",
		DurationLabel:    "04 YEARS",
		TuitionFee:       1000,
		OneTimeFee:       500,
		ELPFee:           0,
		HostelFee:        1200,
		FirstPeriodTotal: 2700,
		Scholarship:      "50% Merit Scholarship",
		OfferDate:        "2026-08-01",
		StartDate:        "2026-10-01",
		ReferenceNumber:  "ADM-1000",
	}
}

func newTestRenderer() *Renderer {
	return NewRenderer(Config{
		InstitutionName: "Global University",
		SignatoryName:   "Prof. Jane Smith",
		SignatoryTitle:  "Dean of Admissions",
	})
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := newTestRenderer().Render(sampleLetter())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderIsDeterministic(t *testing.T) {
	r := newTestRenderer()
	first, err := r.Render(sampleLetter())
	require.NoError(t, err)
	second, err := r.Render(sampleLetter())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderDegradesOnMissingAssets(t *testing.T) {
	r := NewRenderer(Config{
		InstitutionName: "Global University",
		SignatoryName:   "Prof. Jane Smith",
		SignatoryTitle:  "Dean of Admissions",
		LogoPath:        "testdata/does-not-exist.png",
		SignaturePath:   "testdata/also-missing.png",
	})
	data, err := r.Render(sampleLetter())
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestRenderRejectsEmptyName(t *testing.T) {
	l := sampleLetter()
	l.StudentName = ""
	_, err := newTestRenderer().Render(l)
	require.Error(t, err)
}
