package geometry

import (
	"math"

	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
)

// #region thresholds

const (
	wallThinMM     = 1.0
	wallMediumMM   = 2.5
	radiusSmallMM  = 0.5
	radiusMediumMM = 1.5
	accessHigh     = 0.70
	accessMedium   = 0.40
	accessMinFaces = 20
)

// #endregion

// #region refine

// Evidence records which numeric metrics drove a bin override, keyed by
// metric name. Carried into the report for audit.
type Evidence map[string]float64

// RefineBins maps validated numeric metrics onto the categorical bins,
// returning a new PartSummary. Bins are overridden only when the metric
// is present and finite; everything else passes through unchanged.
func RefineBins(part inputs.PartSummary, m Metrics) (inputs.PartSummary, Evidence) {
	if m.Status != StatusOK {
		return part, nil
	}
	ev := Evidence{}
	out := part

	if v, ok := finite(m.MinWallThicknessMM); ok {
		ev["min_wall_thickness_mm"] = v
		switch {
		case v <= wallThinMM:
			out.MinWallThickness = inputs.WallThin
		case v <= wallMediumMM:
			out.MinWallThickness = inputs.WallMedium
		default:
			out.MinWallThickness = inputs.WallThick
		}
	}

	if v, ok := finite(m.MinInternalRadiusMM); ok {
		ev["min_internal_radius_mm"] = v
		switch {
		case v <= radiusSmallMM:
			out.MinInternalRadius = inputs.RadiusSmall
		case v <= radiusMediumMM:
			out.MinInternalRadius = inputs.RadiusMedium
		default:
			out.MinInternalRadius = inputs.RadiusLarge
		}
	}

	if v, ok := finite(m.ToolAccessProxy); ok {
		ev["tool_access_proxy"] = v
		// The access proxy is noisy on simple solids; require a face
		// count that suggests real feature complexity before overriding.
		if m.Faces >= accessMinFaces {
			switch {
			case v >= accessHigh:
				out.AccessibilityRisk = inputs.AccessHigh
			case v >= accessMedium:
				out.AccessibilityRisk = inputs.AccessMedium
			default:
				out.AccessibilityRisk = inputs.AccessLow
			}
		}
	}

	if len(ev) == 0 {
		return part, nil
	}
	return out, ev
}

func finite(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	v := *p
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// #endregion
