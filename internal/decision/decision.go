package decision

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/rules"
	"github.com/danielpatrickdp/dfm-advisor/internal/scoring"
)

// #region types

// Outcome is one decision-loop routing result.
type Outcome string

const (
	Accept   Outcome = "accept"
	RAG      Outcome = "rag"
	Reassess Outcome = "reassess"
)

// State tracks the bounded decision loop across one advisory run.
// Round never decreases and the trace is append-only.
type State struct {
	Round     int
	MaxRounds int
	Last      Outcome
	Trace     []string
}

// NewState starts a fresh loop. maxRounds 2 matches the default policy.
func NewState(maxRounds int) *State {
	return &State{MaxRounds: maxRounds}
}

// Evidence is the per-iteration snapshot the decision rules read.
type Evidence struct {
	Inputs        inputs.Inputs
	Part          inputs.PartSummary
	ConfInputs    inputs.ConfidenceInputs
	Findings      []rules.Finding
	Confidence    float64
	Rec           scoring.Recommendation
	RetrievalUsed bool   // a prior round retrieved evidence
	ForceRAG      bool   // user asked for retrieval regardless of triggers
	ForgingHint   string // subprocess hint, trace only
}

// #endregion types

// #region keywords

// Risk keywords per user-selected process. Any hit routes to retrieval
// so the explanation can cite process-specific guidance.
var moldingRiskKeywords = []string{
	"draft", "eject", "ejection", "texture", "textured",
	"gate", "gating", "weld line", "weldline", "knit line",
	"vent", "venting", "sink", "warpage", "warp", "shrink",
	"rib", "boss", "snap", "latch", "living hinge",
	"insert", "overmold", "over-mold", "metal insert",
	"undercut", "side action", "lifter",
}

var castingRiskKeywords = []string{
	"die cast", "diecasting", "hpdc", "lpdc",
	"investment", "lost wax", "ceramic shell",
	"urethane", "vacuum casting", "silicone mold", "soft tooling",
	"porosity", "shrink", "warpage", "misrun", "cold shut",
	"gating", "gate", "runner", "sprue", "vent", "overflow",
	"parting line", "draft", "ejection", "ejector", "slide", "lifter", "core",
	"weld repair", "heat treat", "radiography", "x-ray",
}

var forgingRiskKeywords = []string{
	"forging", "forged", "flash", "die", "hammer", "press",
	"closed die", "impression die", "parting line", "draft",
	"grain flow", "laps", "fold", "cold shut", "underfill", "die fill", "flow",
	"rib", "boss", "thin section", "sharp corner", "radius", "fillet",
	"heat treat", "quench", "distortion",
	"open die", "ring rolling",
	"trim", "coining", "die machining",
}

var moldingEjectKeywords = []string{"eject", "ejection", "insert", "overmold", "over-mold"}

func anyKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// #endregion keywords

// #region next

// Next evaluates one decision. Non-accept outcomes increment Round, so
// the loop terminates within MaxRounds+1 evaluations.
func (s *State) Next(ev Evidence) Outcome {
	// Hard stop: prevent runaway loops.
	if s.Round >= s.MaxRounds {
		return s.record(Accept, "decision: accept (max rounds reached)")
	}

	// Retrieval already enriched a prior round; a second pass is redundant.
	if s.Round >= 1 && ev.RetrievalUsed {
		return s.record(Accept, "decision: accept (retrieval already used)")
	}

	if ev.ForceRAG && !ev.RetrievalUsed {
		return s.record(RAG, "decision: enrich via retrieval (forced by user)")
	}

	hasHigh := hasSeverity(ev.Findings, rules.SeverityHigh)
	hasMedium := hasSeverity(ev.Findings, rules.SeverityMedium)

	outcome := Accept
	reason := "decision: accept"
	switch {
	case hasHigh:
		outcome, reason = RAG, "retrieval triggered: HIGH severity findings"
	case ev.Confidence < 0.65 && hasMedium:
		outcome, reason = RAG, fmt.Sprintf("retrieval triggered: confidence %.2f with MEDIUM findings", ev.Confidence)
	case ev.Confidence < 0.45:
		outcome, reason = Reassess, fmt.Sprintf("decision: reassess explanation (confidence %.2f)", ev.Confidence)
	}

	if outcome != RAG {
		if fired, why := s.mismatchTrigger(ev); fired {
			outcome, reason = RAG, why
		}
	}
	if outcome != RAG {
		if fired, why := s.processTrigger(ev); fired {
			outcome, reason = RAG, why
		}
	}

	out := s.record(outcome, reason)
	if outcome == RAG && ev.Part.UnknownCriticalBins() > 0 {
		s.Trace = append(s.Trace, "retrieval note: unknown critical bins present")
	}
	return out
}

// mismatchTrigger fires when the recommendation disagrees with the
// user's selection by 2 or more points.
func (s *State) mismatchTrigger(ev Evidence) (bool, string) {
	selected := ev.Inputs.UserSelected()
	if selected == "" || ev.Rec.Primary == "" || ev.Rec.Primary == selected {
		return false, ""
	}
	gap := ev.Rec.Scores[ev.Rec.Primary] - ev.Rec.Scores[selected]
	if gap < 2 {
		return false, ""
	}
	return true, fmt.Sprintf("retrieval triggered: process mismatch (recommended %s vs selected %s, gap %d)",
		ev.Rec.Primary, selected, gap)
}

// processTrigger fires process-specific risk combinations for the
// tooling-heavy selections.
func (s *State) processTrigger(ev Evidence) (bool, string) {
	tolHighNo2D := ev.Inputs.ToleranceCriticality == inputs.ToleranceHigh && !ev.ConfInputs.Has2DDrawing

	switch ev.Inputs.Process {
	case inputs.ProcessInjectionMolding:
		switch {
		case anyKeyword(ev.Inputs.UserText, moldingRiskKeywords):
			return true, "retrieval triggered: injection molding keywords present"
		case tolHighNo2D:
			return true, "retrieval triggered: tight tolerances without 2D drawing"
		case !ev.ConfInputs.StepScaleConfirmed:
			return true, "retrieval triggered: STEP scale not confirmed"
		case ev.Part.AccessibilityRisk == inputs.AccessHigh && anyKeyword(ev.Inputs.UserText, moldingEjectKeywords):
			return true, "retrieval triggered: ejection risk with poor access"
		}
	case inputs.ProcessCasting:
		switch {
		case anyKeyword(ev.Inputs.UserText, castingRiskKeywords):
			return true, "retrieval triggered: casting keywords present"
		case tolHighNo2D:
			return true, "retrieval triggered: tight tolerances without 2D drawing"
		case ev.Part.MinWallThickness == inputs.WallThin:
			return true, "retrieval triggered: thin walls / fill risk"
		case ev.Part.AccessibilityRisk == inputs.AccessHigh:
			return true, "retrieval triggered: poor access / coring or slides risk"
		}
	case inputs.ProcessForging:
		hint := ""
		if ev.ForgingHint != "" {
			hint = fmt.Sprintf(" (hint=%s)", ev.ForgingHint)
		}
		switch {
		case anyKeyword(ev.Inputs.UserText, forgingRiskKeywords):
			return true, "retrieval triggered: forging keywords present" + hint
		case tolHighNo2D:
			return true, "retrieval triggered: tight tolerances without 2D drawing" + hint
		case ev.Part.MinWallThickness == inputs.WallThin:
			return true, "retrieval triggered: thin walls / flow risk" + hint
		case ev.Part.MinInternalRadius == inputs.RadiusSmall:
			return true, "retrieval triggered: small radii / sharp transitions" + hint
		case ev.Part.AccessibilityRisk == inputs.AccessHigh:
			return true, "retrieval triggered: poor access / die complexity risk" + hint
		}
	}
	return false, ""
}

func (s *State) record(outcome Outcome, reason string) Outcome {
	s.Trace = append(s.Trace, reason)
	s.Last = outcome
	if outcome != Accept {
		s.Round++
	}
	return outcome
}

func hasSeverity(findings []rules.Finding, sev rules.Severity) bool {
	for _, f := range findings {
		if f.Severity == sev {
			return true
		}
	}
	return false
}

// #endregion next
