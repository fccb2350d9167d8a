package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/admission-offer-api/internal/models"
)

func TestClassifySpecialtyWinsOverGenericBachelor(t *testing.T) {
	svc := NewClassifierService(nil)

	profile := svc.Classify("B.Tech AIML")
	assert.Equal(t, models.ProgramBachelor, profile.Type)
	assert.Equal(t, "04 YEARS", profile.DurationLabel)
	assert.Equal(t, 1000, profile.TuitionFee)
	assert.Equal(t, "aiml", profile.Rule)
	assert.False(t, profile.Fallback)

	profile = svc.Classify("Bachelor of Science in Artificial Intelligence")
	assert.Equal(t, "aiml", profile.Rule)
}

func TestClassifyDiplomaWinsOverEngineering(t *testing.T) {
	svc := NewClassifierService(nil)

	profile := svc.Classify("Diploma in Mechanical Engineering")
	assert.Equal(t, models.ProgramDiploma, profile.Type)
	assert.Equal(t, "03 YEAR", profile.DurationLabel)
	assert.Equal(t, 700, profile.TuitionFee)
	assert.Equal(t, "diploma", profile.Rule)
}

func TestClassifyBachelorBeforeMaster(t *testing.T) {
	svc := NewClassifierService(nil)

	// Contains both a bachelor and a master keyword; bachelor-family rules
	// run first.
	profile := svc.Classify("BCA with Masterclass Electives")
	assert.Equal(t, models.ProgramBachelor, profile.Type)
	assert.Equal(t, "bachelor", profile.Rule)
}

func TestClassifyRuleTable(t *testing.T) {
	svc := NewClassifierService(nil)

	cases := []struct {
		name     string
		program  string
		rule     string
		typ      models.ProgramType
		duration string
	}{
		{"mba override", "Executive MBA", "mba", models.ProgramMaster, "02 YEARS"},
		{"pharmacy bachelor", "B.Pharm", "pharmacy-bachelor", models.ProgramBachelor, "04 YEARS"},
		{"pharmacy master", "M.Pharm in Pharmacology", "pharmacy-master", models.ProgramMaster, "02 YEARS"},
		{"medical track", "B.Sc Nursing", "medical", models.ProgramBachelor, "04 YEARS"},
		{"engineering", "B.Tech Civil Engineering", "engineering", models.ProgramBachelor, "04 YEARS"},
		{"generic bachelor", "BBA", "bachelor", models.ProgramBachelor, "03 YEARS"},
		{"generic master", "MSc Economics", "master", models.ProgramMaster, "02 YEARS"},
		{"phd", "PhD in Physics", "phd", models.ProgramPhD, "03 YEARS"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := svc.Classify(tc.program)
			assert.Equal(t, tc.rule, profile.Rule)
			assert.Equal(t, tc.typ, profile.Type)
			assert.Equal(t, tc.duration, profile.DurationLabel)
			assert.False(t, profile.Fallback)
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	svc := NewClassifierService(nil)

	for _, input := range []string{"", "Culinary Arts", "   ", "1234", "äöü"} {
		profile := svc.Classify(input)
		assert.Equal(t, models.ProgramBachelor, profile.Type)
		assert.Equal(t, "03 YEARS", profile.DurationLabel)
		assert.Equal(t, 1000, profile.TuitionFee)
		assert.True(t, profile.Fallback)
	}
}

func TestClassifyFoundationExtendsThreeYearBachelor(t *testing.T) {
	svc := NewClassifierService(nil)

	profile := svc.Classify("BBA with Foundation Year")
	assert.Equal(t, 4, profile.DurationYears)
	assert.Equal(t, "04 YEARS", profile.DurationLabel)
	assert.Equal(t, elpProgramFee, profile.ELPFee)

	// Already four years: unchanged.
	profile = svc.Classify("B.Tech with Foundation Year")
	assert.Equal(t, 4, profile.DurationYears)

	// Never affects non-bachelor types.
	profile = svc.Classify("MBA Pathway Program")
	assert.Equal(t, models.ProgramMaster, profile.Type)
	assert.Equal(t, 2, profile.DurationYears)
	assert.Equal(t, elpProgramFee, profile.ELPFee)
}

func TestClassifyELPFee(t *testing.T) {
	svc := NewClassifierService(nil)

	assert.Equal(t, elpProgramFee, svc.Classify("B.Sc English Literature").ELPFee)
	assert.Equal(t, 0, svc.Classify("BBA").ELPFee)
}

func TestFirstPeriodTotalIsComponentSum(t *testing.T) {
	svc := NewClassifierService(nil)

	for _, program := range []string{"B.Tech AIML", "Diploma in Nursing", "MSc Physics", "BBA Foundation", "Unknown"} {
		profile := svc.Classify(program)
		assert.Equal(t,
			profile.OneTimeFee+profile.TuitionFee+profile.ELPFee+profile.HostelFee,
			profile.FirstPeriodTotal(), program)
	}
}
