package models

// ProgramType enumerates the program categories a profile can resolve to.
type ProgramType string

const (
	ProgramBachelor ProgramType = "bachelor"
	ProgramMaster   ProgramType = "master"
	ProgramPhD      ProgramType = "phd"
	ProgramDiploma  ProgramType = "diploma"
)

// ProgramProfile bundles the fee schedule and duration derived from a raw
// program name. Profiles are value types; classification never mutates a
// profile after returning it.
type ProgramProfile struct {
	Type          ProgramType `json:"type"`
	DurationYears int         `json:"duration_years"`
	DurationLabel string      `json:"duration_label"`
	TuitionFee    int         `json:"tuition_fee"`
	OneTimeFee    int         `json:"one_time_fee"`
	ELPFee        int         `json:"elp_fee"`
	HostelFee     int         `json:"hostel_fee"`
	Scholarship   string      `json:"scholarship"`
	Rule          string      `json:"rule"`
	Fallback      bool        `json:"fallback"`
}

// FirstPeriodTotal sums the fee components due for the first study period.
func (p ProgramProfile) FirstPeriodTotal() int {
	return p.OneTimeFee + p.TuitionFee + p.ELPFee + p.HostelFee
}
