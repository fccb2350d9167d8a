package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/admission-offer-api/internal/models"
)

// Fee components shared across profiles. The scholarship label and the
// one-time/hostel amounts are institutional constants, not derived from
// classification.
const (
	ScholarshipLabel = "50% Merit Scholarship"

	oneTimeFee    = 500
	hostelFee     = 1200
	elpProgramFee = 300
)

// matchRule pairs a keyword set with the profile template it resolves to.
// Rules are evaluated top-down and the first hit wins: keyword sets overlap
// across institutional catalogs ("Diploma in Mechanical Engineering" also
// contains an engineering bachelor keyword), so rule order is part of the
// classification contract.
type matchRule struct {
	tag      string
	keywords []string
	profile  models.ProgramProfile
}

// ClassifierService maps free-text program names to fee/duration profiles.
type ClassifierService struct {
	rules    []matchRule
	fallback models.ProgramProfile
	logger   *zap.Logger
}

// NewClassifierService constructs the classifier with its ordered rule table.
func NewClassifierService(logger *zap.Logger) *ClassifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassifierService{
		rules:    classificationRules(),
		fallback: fallbackProfile(),
		logger:   logger,
	}
}

// Classify resolves a program name to a profile. Classification is total:
// unmatched input falls back to a default Bachelor profile, flagged on the
// result and logged so callers can tell the match was inexact.
func (s *ClassifierService) Classify(programName string) models.ProgramProfile {
	name := strings.ToLower(programName)

	profile, matched := s.match(name)
	if !matched {
		s.logger.Warn("program classification fell back to default",
			zap.String("program", programName))
		profile = s.fallback
	}

	// A foundation year extends a three-year Bachelor track to four; it
	// never shortens a program or affects other program types.
	if hasFoundationMarker(name) && profile.Type == models.ProgramBachelor && profile.DurationYears == 3 {
		profile.DurationYears = 4
		profile.DurationLabel = "04 YEARS"
	}

	if hasFoundationMarker(name) || strings.Contains(name, "english") {
		profile.ELPFee = elpProgramFee
	}

	return profile
}

func (s *ClassifierService) match(name string) (models.ProgramProfile, bool) {
	for _, rule := range s.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(name, keyword) {
				return rule.profile, true
			}
		}
	}
	return models.ProgramProfile{}, false
}

func hasFoundationMarker(name string) bool {
	for _, marker := range []string{"foundation", "pathway", "international year one"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

func classificationRules() []matchRule {
	return []matchRule{
		// Named specialty overrides come first: their names also contain
		// generic bachelor/master keywords and would otherwise be swallowed.
		{
			tag:      "aiml",
			keywords: []string{"aiml", "ai & ml", "ai and ml", "artificial intelligence", "machine learning"},
			profile:  newProfile("aiml", models.ProgramBachelor, 4, "04 YEARS", 1000),
		},
		{
			tag:      "mba",
			keywords: []string{"mba"},
			profile:  newProfile("mba", models.ProgramMaster, 2, "02 YEARS", 1800),
		},
		{
			tag:      "diploma",
			keywords: []string{"diploma", "certificate", "polytechnic"},
			profile:  newProfile("diploma", models.ProgramDiploma, 3, "03 YEAR", 700),
		},
		{
			tag:      "pharmacy-bachelor",
			keywords: []string{"b.pharm", "bpharm", "bachelor of pharmacy", "pharm.d"},
			profile:  newProfile("pharmacy-bachelor", models.ProgramBachelor, 4, "04 YEARS", 1200),
		},
		{
			tag:      "pharmacy-master",
			keywords: []string{"m.pharm", "mpharm", "master of pharmacy"},
			profile:  newProfile("pharmacy-master", models.ProgramMaster, 2, "02 YEARS", 1600),
		},
		{
			tag:      "medical",
			keywords: []string{"bpt", "physiotherapy", "nursing", "mlt", "medical laboratory", "paramedical"},
			profile:  newProfile("medical", models.ProgramBachelor, 4, "04 YEARS", 1100),
		},
		// Engineering and other four-year bachelor tracks, checked before the
		// generic three-year bachelor set.
		{
			tag:      "engineering",
			keywords: []string{"b.tech", "btech", "b.e.", "beng", "engineering", "hons", "4 year", "4-year", "four year"},
			profile:  newProfile("engineering", models.ProgramBachelor, 4, "04 YEARS", 1000),
		},
		{
			tag:      "bachelor",
			keywords: []string{"bachelor", "bsc", "b.sc", "b.a", "bba", "bca", "b.com", "bcom", "undergraduate"},
			profile:  newProfile("bachelor", models.ProgramBachelor, 3, "03 YEARS", 1000),
		},
		// Master keywords run after every bachelor-family rule: bachelor
		// names are strictly more specific in this catalog, so an ambiguous
		// name must never resolve to a master profile.
		{
			tag:      "master",
			keywords: []string{"master", "msc", "m.sc", "m.a", "mca", "m.tech", "mtech", "m.com", "mcom", "postgraduate"},
			profile:  newProfile("master", models.ProgramMaster, 2, "02 YEARS", 1500),
		},
		{
			tag:      "phd",
			keywords: []string{"phd", "ph.d", "doctorate", "doctoral", "dphil"},
			profile:  newProfile("phd", models.ProgramPhD, 3, "03 YEARS", 2000),
		},
	}
}

func fallbackProfile() models.ProgramProfile {
	p := newProfile("default", models.ProgramBachelor, 3, "03 YEARS", 1000)
	p.Fallback = true
	return p
}

func newProfile(tag string, typ models.ProgramType, years int, label string, tuition int) models.ProgramProfile {
	return models.ProgramProfile{
		Type:          typ,
		DurationYears: years,
		DurationLabel: label,
		TuitionFee:    tuition,
		OneTimeFee:    oneTimeFee,
		HostelFee:     hostelFee,
		Scholarship:   ScholarshipLabel,
		Rule:          tag,
	}
}
