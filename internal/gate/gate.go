package gate

import (
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/material"
)

// #region gate
// Eligibility is the hard-gate verdict for one candidate process.
type Eligibility struct {
	Eligible bool
	Reason   string // empty when eligible
}

// Result maps every candidate process to its verdict. An ineligible
// process never appears in scoring output, not even as not-recommended.
type Result map[inputs.Process]Eligibility

// polymer-only and metal-only candidate groups.
var (
	polymerOnly = []inputs.Process{
		inputs.ProcessInjectionMolding,
		inputs.ProcessCompressionMolding,
		inputs.ProcessThermoforming,
	}
	metalOnly = []inputs.Process{
		inputs.ProcessForging,
		inputs.ProcessMIM,
		inputs.ProcessCasting,
	}
)

// Evaluate applies material-family compatibility vetoes across the full
// candidate set. Unknown family vetoes nothing: absence of evidence is
// never grounds for exclusion.
func Evaluate(materialText string) Result {
	family := material.ClassifyFamily(materialText)
	out := make(Result, len(inputs.Candidates))
	for _, p := range inputs.Candidates {
		out[p] = Eligibility{Eligible: true}
	}
	switch family {
	case material.FamilyMetal:
		for _, p := range polymerOnly {
			out[p] = Eligibility{Eligible: false, Reason: "polymer process"}
		}
	case material.FamilyPolymer:
		for _, p := range metalOnly {
			out[p] = Eligibility{Eligible: false, Reason: "metal process"}
		}
	}
	return out
}

// Eligible reports whether p survived the gate. Processes outside the
// candidate set are ineligible by definition.
func (r Result) Eligible(p inputs.Process) bool {
	e, ok := r[p]
	return ok && e.Eligible
}

// #endregion gate
