package geometry

import (
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
)

// #region thresholds

const (
	extrusionCVHigh    = 0.20
	extrusionCVMed     = 0.35
	extrusionAxisRatio = 1.30 // below this the part is not meaningfully elongated

	sheetFlatnessMax = 0.60
	sheetThinnessMax = 0.20
	sheetThinnessHi  = 0.08
	sheetThinnessMed = 0.15
	sheetMinDimHigh  = 6.0 // mm
	sheetAVRatioHigh = 50.0

	bboxThinnessMed = 0.08 // min/max bbox dim, cheap thinness proxy

	turningRoundnessHigh   = 0.15
	turningSlendernessHigh = 1.60
	turningRoundnessMed    = 0.20
	turningSlendernessMed  = 1.40

	epsilon = 1e-6
)

// #endregion

// #region extrusion

// ExtrusionLikelihood discretizes the cross-section CV into a level.
// The axis-ratio gate caps rotationally symmetric parts to low: a cube
// or an impeller has a constant cross-section but is not an extrusion.
func ExtrusionLikelihood(m Metrics) Signal {
	if m.Status != StatusOK {
		return Signal{Level: LevelNone, Source: "none"}
	}
	cv := m.RobustCoeffVar
	if cv == nil {
		cv = m.CoeffVar
	}
	if cv == nil {
		return Signal{Level: LevelNone, Source: "cad"}
	}
	a, b, c := m.SortedDims()
	if b <= epsilon {
		return Signal{Level: LevelNone, Source: "cad"}
	}

	level := LevelLow
	switch {
	case *cv <= extrusionCVHigh:
		level = LevelHigh
	case *cv <= extrusionCVMed:
		level = LevelMed
	}

	var axisRatio *float64
	if cross := maxf(b, c); cross > epsilon {
		r := a / cross
		axisRatio = &r
		if r < extrusionAxisRatio {
			level = LevelLow
		}
	}
	return Signal{
		Level:       level,
		Source:      "cad",
		CoeffVar:    cv,
		AxisRatio:   axisRatio,
		TurningAxis: m.ExtrusionAxis,
	}
}

// #endregion

// #region sheet-metal

// SheetMetalLikelihood works through three evidence tiers: full CAD
// metrics, a bbox-only thinness proxy, then bins-only hints.
func SheetMetalLikelihood(m Metrics, part inputs.PartSummary) Signal {
	if m.Status == StatusOK && m.TOverMinDim != nil && m.AVRatio != nil {
		return sheetFromCAD(m, part)
	}
	if m.Status == StatusOK || m.Status == StatusFailed || m.Status == StatusTimeout {
		if sig, ok := sheetFromBBox(m); ok {
			return sig
		}
	}
	return sheetFromBins(part)
}

func sheetFromCAD(m Metrics, part inputs.PartSummary) Signal {
	a, b, c := m.SortedDims()
	base := LevelLow
	if a > epsilon && b > epsilon {
		flatness := c / b
		thinness := c / a
		if flatness <= sheetFlatnessMax && thinness <= sheetThinnessMax {
			switch {
			case c <= sheetMinDimHigh, thinness <= sheetThinnessHi, *m.AVRatio > sheetAVRatioHigh:
				base = LevelHigh
			case thinness <= sheetThinnessMed:
				base = LevelMed
			}
		}
	}

	// Bins hints only bump low->med; high-variety parts read as CNC
	// candidates, so variety demotes instead.
	if base == LevelLow &&
		(part.HoleDepthClass == inputs.HoleNone || part.HoleDepthClass == inputs.HoleUnknown) &&
		part.PocketAspectClass == inputs.PocketOK {
		base = LevelMed
	}
	if part.FeatureVariety == inputs.VarietyHigh {
		switch base {
		case LevelHigh:
			base = LevelMed
		case LevelMed:
			base = LevelLow
		}
	}
	return Signal{Level: base, Source: "cad"}
}

func sheetFromBBox(m Metrics) (Signal, bool) {
	a, _, c := m.SortedDims()
	if a <= epsilon {
		return Signal{}, false
	}
	thinness := c / a
	if thinness <= bboxThinnessMed {
		return Signal{Level: LevelMed, Source: "bbox_fallback", ThinnessBBox: &thinness}, true
	}
	return Signal{}, false
}

func sheetFromBins(part inputs.PartSummary) Signal {
	if part.MinWallThickness == inputs.WallThin &&
		(part.PartSize == inputs.SizeMedium || part.PartSize == inputs.SizeLarge) {
		if part.FeatureVariety == inputs.VarietyHigh {
			return Signal{Level: LevelLow, Source: "bins_only"}
		}
		return Signal{Level: LevelMed, Source: "bins_only"}
	}
	return Signal{Level: LevelLow, Source: "none"}
}

// #endregion

// #region turning

// TurningLikelihood discretizes roundness and slenderness of the bbox.
// Levels below med are reported as none: a weak turning hint carries no
// scoring weight.
func TurningLikelihood(m Metrics) Signal {
	if m.Status != StatusOK {
		return Signal{Level: LevelNone, Source: "none"}
	}
	a, b, c := m.SortedDims()
	if b <= epsilon || c <= epsilon {
		return Signal{Level: LevelNone, Source: "none"}
	}
	roundness := absf(b-c) / maxf(b, c)
	slenderness := a / maxf(b, c)

	level := LevelLow
	switch {
	case roundness <= turningRoundnessHigh && slenderness >= turningSlendernessHigh:
		level = LevelHigh
	case roundness <= turningRoundnessMed && slenderness >= turningSlendernessMed:
		level = LevelMed
	}
	if level == LevelLow {
		return Signal{Level: LevelNone, Source: "none"}
	}
	return Signal{
		Level:       level,
		Source:      "cad",
		Roundness:   &roundness,
		Slenderness: &slenderness,
		TurningAxis: longestAxis(m.BBoxDims),
	}
}

func longestAxis(d [3]float64) string {
	switch {
	case d[0] >= d[1] && d[0] >= d[2]:
		return "X"
	case d[1] >= d[2]:
		return "Y"
	default:
		return "Z"
	}
}

// #endregion

// #region helpers

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// #endregion
