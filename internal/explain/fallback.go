package explain

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/rules"
)

// #region fallback
// Fallback renders a deterministic markdown report from the payload
// alone. Used whenever the LLM is disabled or unavailable, so a run
// always produces a readable result.
func Fallback(p Payload) string {
	var b strings.Builder
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	w("# Design Review + DFM Report (offline mode)")
	w("")
	w("## Input summary")
	w("")
	if p.Inputs.Process == inputs.ProcessAuto && p.Rec.Primary != "" {
		w("- Manufacturing process: AUTO")
		w("- Recommended process: %s", p.Rec.Primary)
	} else {
		w("- Manufacturing process: %s", p.Inputs.Process)
	}
	w("- Material: %s", p.Inputs.Material)
	w("- Production volume: %s", p.Inputs.ProductionVolume)
	w("- Load type: %s", p.Inputs.LoadType)
	w("- Tolerance criticality: %s", p.Inputs.ToleranceCriticality)
	w("")

	w("## Part summary (bins)")
	w("")
	w("- part_size: %s", p.Part.PartSize)
	w("- min_internal_radius: %s", p.Part.MinInternalRadius)
	w("- min_wall_thickness: %s", p.Part.MinWallThickness)
	w("- hole_depth_class: %s", p.Part.HoleDepthClass)
	w("- pocket_aspect_class: %s", p.Part.PocketAspectClass)
	w("- feature_variety: %s", p.Part.FeatureVariety)
	w("- accessibility_risk: %s", p.Part.AccessibilityRisk)
	w("- has_clamping_faces: %t", p.Part.HasClampingFaces)
	w("")

	w("## Process recommendation")
	w("")
	w("- Primary: **%s**", p.Rec.Primary)
	w("- Secondary: %s", joinProcs(p.Rec.Secondary))
	if len(p.Rec.NotRecommended) > 0 {
		w("- Less suitable (given current inputs): %s", joinProcs(p.Rec.NotRecommended))
	}
	w("")

	if len(p.Rec.Tradeoffs) > 0 {
		w("### Tradeoffs")
		w("")
		for _, t := range p.Rec.Tradeoffs {
			w("- %s", t)
		}
		w("")
	}

	if p.CADStatus != "" {
		w("## Geometry evidence")
		w("")
		w("- CAD analysis: %s", p.CADStatus)
		w("")
	}

	for _, sev := range []rules.Severity{rules.SeverityHigh, rules.SeverityMedium, rules.SeverityLow} {
		group := findingsBySeverity(p.Findings, sev)
		if len(group) == 0 {
			continue
		}
		w("## Findings (%s)", sev)
		w("")
		for _, f := range group {
			w("- **%s** (%s)", f.Title, f.ID)
			if f.WhyItMatters != "" {
				w("  - Why it matters: %s", f.WhyItMatters)
			}
			if f.Recommendation != "" {
				w("  - Recommendation: %s", f.Recommendation)
			}
		}
		w("")
	}

	w("## Action checklist")
	w("")
	if len(p.Findings) > 0 {
		for _, f := range p.Findings {
			if f.Recommendation != "" {
				w("- [ ] %s: %s", f.Title, f.Recommendation)
			} else {
				w("- [ ] %s", f.Title)
			}
		}
	} else {
		w("- [ ] No findings. Validate with a prototype or supplier quote.")
	}
	w("")

	w("## Advisor confidence")
	w("")
	w("- Score: %.2f", p.Confidence.Value)
	w("")

	w("## Notes")
	w("")
	w("- This report was generated without an online LLM (deterministic fallback).")
	w("- For best results, provide a 2D drawing (GD&T) and confirm STEP scale.")
	return b.String()
}

func joinProcs(procs []inputs.Process) string {
	if len(procs) == 0 {
		return "None"
	}
	parts := make([]string, len(procs))
	for i, p := range procs {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}

func findingsBySeverity(findings []rules.Finding, sev rules.Severity) []rules.Finding {
	var out []rules.Finding
	for _, f := range findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// #endregion fallback
