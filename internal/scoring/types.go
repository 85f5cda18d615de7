package scoring

import (
	"fmt"

	"github.com/danielpatrickdp/dfm-advisor/internal/gate"
	"github.com/danielpatrickdp/dfm-advisor/internal/geometry"
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/material"
)

// #region breakdown

// Severity grades a breakdown entry for report rendering.
const (
	SeverityInfo = "info"
	SeverityWarn = "warn"
)

// BreakdownEntry is one audited score contribution. Emit controls
// whether Reason surfaces in the user-facing rationale; the delta
// always counts either way.
type BreakdownEntry struct {
	Delta    int    `json:"delta"`
	Reason   string `json:"reason"`
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Emit     bool   `json:"-"`
}

// #endregion

// #region score-state

// ScoreState accumulates scores and their breakdown during one pass.
// All mutation goes through add, which keeps score(p) equal to the sum
// of breakdown deltas for p at all times.
type ScoreState struct {
	Scores    map[inputs.Process]int
	Breakdown map[inputs.Process][]BreakdownEntry
	Gates     gate.Result
	Eligible  []inputs.Process // candidate order, gate survivors only

	// AMExclusive is set when the exclusive AM keyword cluster fired;
	// the tie-break override pipeline reads it.
	AMExclusive bool
}

func newScoreState(gates gate.Result) *ScoreState {
	s := &ScoreState{
		Scores:    make(map[inputs.Process]int, len(inputs.Candidates)),
		Breakdown: make(map[inputs.Process][]BreakdownEntry, len(inputs.Candidates)),
		Gates:     gates,
	}
	for _, p := range inputs.Candidates {
		if gates.Eligible(p) {
			s.Eligible = append(s.Eligible, p)
			s.Scores[p] = 0
			s.Breakdown[p] = nil
		}
	}
	// Gate removed everything: substitute the most general-purpose
	// process so downstream always has one candidate.
	if len(s.Eligible) == 0 {
		s.Eligible = []inputs.Process{inputs.ProcessCNC}
		s.Scores[inputs.ProcessCNC] = 0
	}
	return s
}

func (s *ScoreState) add(p inputs.Process, delta int, ruleID, reason string, severity string, emit bool) {
	if delta == 0 {
		return
	}
	if _, ok := s.Scores[p]; !ok {
		return // ineligible, never scored
	}
	s.Scores[p] += delta
	s.Breakdown[p] = append(s.Breakdown[p], BreakdownEntry{
		Delta:    delta,
		Reason:   reason,
		RuleID:   ruleID,
		Severity: severity,
		Emit:     emit,
	})
}

func (s *ScoreState) eligible(p inputs.Process) bool {
	_, ok := s.Scores[p]
	return ok
}

// #endregion

// #region geo-evidence

// GeoEvidence bundles the discretized geometry signals handed to the
// scorer, plus the collaborator status that tells us how much to trust
// them.
type GeoEvidence struct {
	CADStatus geometry.Status
	Sheet     geometry.Signal
	Extrusion geometry.Signal
	Turning   geometry.Signal
}

// Reliable reports whether CAD-backed evidence is available. When
// false the tie-break runs in bins-only mode and user anchoring may
// apply.
func (g GeoEvidence) Reliable() bool { return g.CADStatus == geometry.StatusOK }

// #endregion

// #region request

// Request is the immutable snapshot one scoring pass operates on.
type Request struct {
	Inputs   *inputs.Inputs
	Part     *inputs.PartSummary
	Material material.Resolution
	Gates    gate.Result
	Geo      GeoEvidence
}

// #endregion

// #region recommendation

// Recommendation is the terminal output of score + tie-break. Immutable
// once returned.
type Recommendation struct {
	Primary          inputs.Process                       `json:"primary"`
	Secondary        []inputs.Process                     `json:"secondary"`
	NotRecommended   []inputs.Process                     `json:"not_recommended"`
	Reasons          []string                             `json:"reasons"`
	ReasonsPrimary   []string                             `json:"reasons_primary"`
	ReasonsSecondary []string                             `json:"reasons_secondary"`
	Tradeoffs        []string                             `json:"tradeoffs"`
	Scores           map[inputs.Process]int               `json:"scores"`
	ScoreBreakdown   map[inputs.Process][]BreakdownEntry  `json:"score_breakdown"`
	ProcessGates     gate.Result                          `json:"process_gates"`
	EligibleProcs    []inputs.Process                     `json:"eligible_processes"`
	UserSelected     inputs.Process                       `json:"user_selected"` // original value, including AUTO
	Trace            []string                             `json:"trace,omitempty"`
}

// ScoreGap returns scores[primary] - scores[p], clamped at 0 when p is
// unknown.
func (r Recommendation) ScoreGap(p inputs.Process) int {
	return r.Scores[r.Primary] - r.Scores[p]
}

// CheckBreakdown verifies the audit invariant: every score equals the
// sum of its breakdown deltas. Used by tests and the replay harness.
func (r Recommendation) CheckBreakdown() error {
	for p, score := range r.Scores {
		sum := 0
		for _, e := range r.ScoreBreakdown[p] {
			sum += e.Delta
		}
		if sum != score {
			return fmt.Errorf("process %s: score %d != breakdown sum %d", p, score, sum)
		}
	}
	return nil
}

// #endregion
