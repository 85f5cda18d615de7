package rules

// #region finding

// Severity of a finding; drives the decision loop.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Category groups findings for report sections.
type Category string

const (
	CategoryDFM              Category = "DFM"
	CategoryProcessSelection Category = "PROCESS_SELECTION"
)

// Finding is one manufacturability or process-selection flag.
type Finding struct {
	ID             string   `json:"id"`
	Category       Category `json:"category"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	WhyItMatters   string   `json:"why_it_matters"`
	Recommendation string   `json:"recommendation"`
}

// #endregion

// #region result

// Result carries the produced findings and the audit trace.
type Result struct {
	Findings []Finding
	Trace    []string
}

// Count returns the number of findings at the given severity.
func (r Result) Count(sev Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// Has reports whether any finding carries the given severity.
func (r Result) Has(sev Severity) bool { return r.Count(sev) > 0 }

func (r Result) hasID(id string) bool {
	for _, f := range r.Findings {
		if f.ID == id {
			return true
		}
	}
	return false
}

// #endregion
