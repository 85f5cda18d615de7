package rules

import (
	"fmt"

	"github.com/danielpatrickdp/dfm-advisor/internal/geometry"
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/scoring"
)

// #region context

// Context is the read-only snapshot the findings engine evaluates.
type Context struct {
	Inputs *inputs.Inputs
	Part   *inputs.PartSummary
	Rec    scoring.Recommendation
	Geo    scoring.GeoEvidence
}

// #endregion

// #region engine
// Run evaluates all finding rules in fixed order: geometry findings,
// then process-selection findings, then LOW pass findings when nothing
// else fired. Pure and deterministic.
func Run(ctx Context) Result {
	var r Result
	if ctx.Inputs == nil || ctx.Part == nil {
		r.Trace = append(r.Trace, "rules: skipped, missing inputs or part summary")
		return r
	}

	geometryFindings(&r, ctx)
	processSelectionFindings(&r, ctx)
	passFindings(&r, ctx)

	r.Trace = append(r.Trace, fmt.Sprintf("rules: %d findings (HIGH=%d MEDIUM=%d LOW=%d) cad_status=%s",
		len(r.Findings), r.Count(SeverityHigh), r.Count(SeverityMedium), r.Count(SeverityLow), ctx.Geo.CADStatus))
	return r
}

// #endregion engine

// #region geometry-findings

func geometryFindings(r *Result, ctx Context) {
	part := ctx.Part

	if part.MinWallThickness == inputs.WallThin {
		sev := SeverityMedium
		if ctx.Rec.Primary == inputs.ProcessSheetMetal || ctx.Rec.Primary == inputs.ProcessThermoforming {
			sev = SeverityLow // thin walls are the point of these processes
		}
		r.Findings = append(r.Findings, Finding{
			ID:             "DFM_WALL1",
			Category:       CategoryDFM,
			Severity:       sev,
			Title:          "Thin minimum wall thickness",
			WhyItMatters:   "Thin walls risk deflection, chatter and short-shot or warp defects depending on process.",
			Recommendation: "Verify the minimum wall against process-specific limits; add ribs or thickness locally where loads demand it.",
		})
	}

	if part.HoleDepthClass == inputs.HoleDeep {
		r.Findings = append(r.Findings, Finding{
			ID:             "DFM_HOLE1",
			Category:       CategoryDFM,
			Severity:       SeverityMedium,
			Title:          "Deep holes detected",
			WhyItMatters:   "High depth-to-diameter holes need peck drilling or gun drilling and raise scrap risk.",
			Recommendation: "Relax hole depth where possible or specify drilling strategy with the supplier.",
		})
	}

	switch part.PocketAspectClass {
	case inputs.PocketExtreme:
		r.Findings = append(r.Findings, Finding{
			ID:             "DFM_POCKET1",
			Category:       CategoryDFM,
			Severity:       SeverityHigh,
			Title:          "Extreme pocket aspect ratio",
			WhyItMatters:   "Very deep, narrow pockets need long slender tooling with poor rigidity; cost and scrap rise sharply.",
			Recommendation: "Open up pocket aspect, split the part, or consider additive for the internal geometry.",
		})
	case inputs.PocketRisky:
		r.Findings = append(r.Findings, Finding{
			ID:             "DFM_POCKET1",
			Category:       CategoryDFM,
			Severity:       SeverityMedium,
			Title:          "Risky pocket aspect ratio",
			WhyItMatters:   "Deep pockets increase machining time and tool deflection.",
			Recommendation: "Add corner radii matching standard tooling and review pocket depth.",
		})
	}

	if part.AccessibilityRisk == inputs.AccessHigh {
		r.Findings = append(r.Findings, Finding{
			ID:             "DFM_ACCESS1",
			Category:       CategoryDFM,
			Severity:       SeverityMedium,
			Title:          "High tool-access risk",
			WhyItMatters:   "Features hard to reach force extra setups or special fixturing.",
			Recommendation: "Re-orient features toward open faces or plan 5-axis / multi-setup machining.",
		})
	}
}

// #endregion

// #region process-selection

func processSelectionFindings(r *Result, ctx Context) {
	selected := ctx.Inputs.UserSelected()
	primary := ctx.Rec.Primary
	if primary == "" {
		return
	}

	// PSI_HARD: the user's selection did not survive the gate.
	if selected != "" && !ctx.Rec.ProcessGates.Eligible(selected) {
		reason := ctx.Rec.ProcessGates[selected].Reason
		if reason == "" {
			reason = "not applicable for material family"
		}
		r.Findings = append(r.Findings, Finding{
			ID:             "PSI_HARD",
			Category:       CategoryProcessSelection,
			Severity:       SeverityHigh,
			Title:          "Selected process is not applicable",
			WhyItMatters:   fmt.Sprintf("Selected %s is not applicable given the material family: %s.", selected, reason),
			Recommendation: fmt.Sprintf("Choose an applicable process. Recommended: %s.", primary),
		})
		r.Trace = append(r.Trace, fmt.Sprintf("PSI_HARD: selected=%s ineligible reason=%s", selected, reason))
	}

	mismatch := selected != "" && primary != selected && ctx.Rec.ProcessGates.Eligible(selected)
	gap := 0
	if mismatch {
		gap = ctx.Rec.ScoreGap(selected)
	}

	hybridOffered := hybridFindings(r, ctx, mismatch, gap)

	if mismatch && !hybridOffered {
		switch {
		case gap <= 1:
			r.Trace = append(r.Trace, fmt.Sprintf("PSI borderline: selected=%s recommended=%s gap=%d (too close to flag)", selected, primary, gap))
		default:
			sev := psiSeverity(gap, ctx.Geo.Reliable())
			r.Findings = append(r.Findings, Finding{
				ID:             "PSI1",
				Category:       CategoryProcessSelection,
				Severity:       sev,
				Title:          "Selected process differs from recommended process",
				WhyItMatters:   fmt.Sprintf("Scoring recommends %s (score advantage: %d points) over selected %s. This may indicate a suboptimal choice for material, volume, or geometry.", primary, gap, selected),
				Recommendation: fmt.Sprintf("Consider %s as the alternative. Evaluate tradeoffs: tooling lead time vs unit cost, tolerance and finish, and volume sensitivity.", primary),
			})
			r.Trace = append(r.Trace, fmt.Sprintf("PSI1: selected=%s recommended=%s gap=%d severity=%s", selected, primary, gap, sev))
		}
	}

	extrusionFindings(r, ctx)
}

// psiSeverity downgrades mismatch findings in bins-only mode: without
// CAD evidence an eligible selection is never flagged HIGH.
func psiSeverity(gap int, cadReliable bool) Severity {
	if cadReliable {
		if gap >= 3 {
			return SeverityHigh
		}
		return SeverityMedium
	}
	if gap <= 2 {
		return SeverityLow
	}
	return SeverityMedium
}

// hybridFindings emits HYBRID1 when a tooling-intensive recommendation
// strongly beats the user's selection and finishing demand exists.
// Returns true when the offer replaced a would-be PSI1.
func hybridFindings(r *Result, ctx Context, mismatch bool, gap int) bool {
	primary := ctx.Rec.Primary
	if !mismatch || !scoring.ToolingIntensive(primary) || gap < 4 {
		return false
	}
	if !scoring.HasFinishingSignals(ctx.Inputs, ctx.Part) {
		return false
	}
	sev := SeverityMedium
	if ctx.Inputs.ToleranceCriticality == inputs.ToleranceHigh {
		sev = SeverityHigh
	}
	secondaryText := "CNC for critical datums, tight tolerances, holes, and interfaces"
	if primary == inputs.ProcessExtrusion {
		secondaryText = "CNC for cut-to-length, drilling, tapping, and milling"
	}
	r.Findings = append(r.Findings, Finding{
		ID:             "HYBRID1",
		Category:       CategoryProcessSelection,
		Severity:       sev,
		Title:          fmt.Sprintf("Consider %s + CNC finishing", primary),
		WhyItMatters:   fmt.Sprintf("Scoring recommends %s (score advantage: %d points) for near-net shape and economics, while the request indicates secondary finishing needs.", primary, gap),
		Recommendation: fmt.Sprintf("Primary: %s for near-net shape. Secondary: %s. Define machining datums and leave stock only where needed.", primary, secondaryText),
	})
	r.Trace = append(r.Trace, fmt.Sprintf("hybrid offer: %s + CNC finishing", primary))
	return true
}

// extrusionFindings covers the extrusion-specific pairings and the
// steel supplier-risk flag.
func extrusionFindings(r *Result, ctx Context) {
	primary := ctx.Rec.Primary
	extrusionRanked := primary == inputs.ProcessExtrusion || containsProc(ctx.Rec.Secondary, inputs.ProcessExtrusion)

	level := ctx.Geo.Extrusion.Level
	cncPaired := (primary == inputs.ProcessCNC && containsProc(ctx.Rec.Secondary, inputs.ProcessExtrusion)) ||
		(primary == inputs.ProcessExtrusion && containsProc(ctx.Rec.Secondary, inputs.ProcessCNC))
	if (level == geometry.LevelMed || level == geometry.LevelHigh) && cncPaired &&
		!r.hasID("HYBRID1") && !r.hasID("HYBRID_EXTR1") {
		r.Findings = append(r.Findings, Finding{
			ID:             "HYBRID_EXTR1",
			Category:       CategoryProcessSelection,
			Severity:       SeverityMedium,
			Title:          "Consider EXTRUSION + CNC finishing",
			WhyItMatters:   "Geometry indicates an extrusion-friendly profile. Secondary CNC for cut-to-length, drilling, tapping, and milling improves interface quality.",
			Recommendation: "Use extrusion for the base profile and CNC for critical features; define machining datums up front.",
		})
		r.Trace = append(r.Trace, "hybrid offer: EXTRUSION + CNC finishing")
	}

	if ctx.Inputs.Material == inputs.MaterialSteel && extrusionRanked && !r.hasID("EXTR_STEEL1") {
		r.Findings = append(r.Findings, Finding{
			ID:             "EXTR_STEEL1",
			Category:       CategoryProcessSelection,
			Severity:       SeverityMedium,
			Title:          "Steel extrusion supplier availability / cost risk",
			WhyItMatters:   "Steel extrusion is less common than aluminum; fewer suppliers and higher cost and lead-time risk, depending on alloy and profile.",
			Recommendation: "Confirm alloy, tolerances, and supplier capability early; consider aluminum extrusion or CNC-from-bar if supplier risk is high.",
		})
		r.Trace = append(r.Trace, "steel extrusion risk flagged")
	}
}

// #endregion

// #region pass-findings

// passFindings adds 1-2 LOW findings from bins alone when nothing else
// fired, so the report never claims a review happened with zero output.
func passFindings(r *Result, ctx Context) {
	if len(r.Findings) > 0 {
		return
	}
	part := ctx.Part
	if part.FeatureVariety == inputs.VarietyLow {
		r.Findings = append(r.Findings, Finding{
			ID:             "PASS1",
			Category:       CategoryDFM,
			Severity:       SeverityLow,
			Title:          "Low feature variety (favorable for cycle time and tooling)",
			WhyItMatters:   "Low complexity reduces cycle time and tooling risk.",
			Recommendation: "No change needed.",
		})
	}
	if part.AccessibilityRisk == inputs.AccessLow {
		r.Findings = append(r.Findings, Finding{
			ID:             "PASS2",
			Category:       CategoryDFM,
			Severity:       SeverityLow,
			Title:          "Low accessibility risk (good tool access)",
			WhyItMatters:   "Good tool access reduces setup and machining risk.",
			Recommendation: "No change needed.",
		})
	}
	if len(r.Findings) == 0 {
		r.Findings = append(r.Findings, Finding{
			ID:             "PASS1",
			Category:       CategoryDFM,
			Severity:       SeverityLow,
			Title:          "Part summary reviewed; no issues flagged",
			WhyItMatters:   "Inputs reviewed; no high- or medium-risk items triggered.",
			Recommendation: "No change needed.",
		})
	}
}

func containsProc(list []inputs.Process, p inputs.Process) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}

// #endregion
