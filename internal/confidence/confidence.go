// Package confidence computes the deterministic confidence baseline
// the decision loop consumes. No model calls: every term is derived
// from evidence availability and findings.
package confidence

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/rules"
)

// #region inputs

// Evidence is everything the score depends on.
type Evidence struct {
	Inputs   *inputs.Inputs
	Part     *inputs.PartSummary
	Conf     inputs.ConfidenceInputs
	Findings rules.Result

	// ProcessMismatch is set when the recommendation primary differs
	// from an eligible user selection.
	ProcessMismatch bool
	// RetrievalEmpty is set when a retrieval pass was requested but
	// returned no sources.
	RetrievalEmpty bool
	// SourceCount is the number of retrieved knowledge sources.
	SourceCount int
}

// Score is the result with its term-by-term audit trail.
type Score struct {
	Value float64
	Terms []string
}

// #endregion

// #region score

const (
	base    = 0.75
	clampLo = 0.35
	clampHi = 0.90
)

// Compute applies fixed penalties and bonuses to the base score, then
// clamps and rounds to two decimals.
func Compute(ev Evidence) Score {
	s := Score{Value: base}
	s.Terms = append(s.Terms, fmt.Sprintf("base %.2f", base))

	apply := func(delta float64, cond bool, label string) {
		if !cond {
			return
		}
		s.Value += delta
		s.Terms = append(s.Terms, fmt.Sprintf("%+.2f %s", delta, label))
	}

	apply(-0.05, !ev.Conf.Has2DDrawing, "no 2D drawing")
	apply(-0.03, !ev.Conf.StepScaleConfirmed, "STEP scale unconfirmed")
	apply(-0.08, ev.ProcessMismatch, "selected process differs from recommendation")
	apply(-0.05, ev.Findings.Has(rules.SeverityHigh), "HIGH-severity finding present")
	apply(-0.03, ev.Findings.Count(rules.SeverityMedium) >= 2, "multiple MEDIUM findings")
	apply(-0.03, ev.RetrievalEmpty, "retrieval returned no sources")
	apply(-0.03, ev.Part != nil && ev.Part.UnknownCriticalBins() >= 2, "multiple Unknown geometry bins")

	apply(+0.03, ev.SourceCount >= 3, "multiple knowledge sources")
	apply(+0.01, ev.Inputs != nil && ev.Inputs.Process == inputs.ProcessCNC &&
		ev.Part != nil && ev.Part.HasClampingFaces, "CNC with clamping faces")

	if s.Value < clampLo {
		s.Value = clampLo
		s.Terms = append(s.Terms, fmt.Sprintf("clamped to %.2f", clampLo))
	}
	if s.Value > clampHi {
		s.Value = clampHi
		s.Terms = append(s.Terms, fmt.Sprintf("clamped to %.2f", clampHi))
	}
	s.Value = math.Round(s.Value*100) / 100
	return s
}

// #endregion
