package geometry

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
)

func basePart() inputs.PartSummary {
	return inputs.PartSummary{
		PartSize:          inputs.SizeMedium,
		MinInternalRadius: inputs.RadiusUnknown,
		MinWallThickness:  inputs.WallUnknown,
		HoleDepthClass:    inputs.HoleUnknown,
		PocketAspectClass: inputs.PocketUnknown,
		FeatureVariety:    inputs.VarietyMedium,
		AccessibilityRisk: inputs.AccessLow,
	}
}

func TestRefineBinsOverridesFromMetrics(t *testing.T) {
	m := Metrics{
		Status:              StatusOK,
		MinWallThicknessMM:  f(0.8),
		MinInternalRadiusMM: f(2.0),
		ToolAccessProxy:     f(0.75),
		Faces:               40,
	}
	got, ev := RefineBins(basePart(), m)
	if got.MinWallThickness != inputs.WallThin {
		t.Errorf("wall = %q, want Thin", got.MinWallThickness)
	}
	if got.MinInternalRadius != inputs.RadiusLarge {
		t.Errorf("radius = %q, want Large", got.MinInternalRadius)
	}
	if got.AccessibilityRisk != inputs.AccessHigh {
		t.Errorf("access = %q, want High", got.AccessibilityRisk)
	}
	for _, k := range []string{"min_wall_thickness_mm", "min_internal_radius_mm", "tool_access_proxy"} {
		if _, ok := ev[k]; !ok {
			t.Errorf("missing evidence key %q", k)
		}
	}
	// Untouched bins pass through.
	if got.HoleDepthClass != inputs.HoleUnknown {
		t.Errorf("hole depth mutated: %q", got.HoleDepthClass)
	}
}

func TestRefineBinsAccessNeedsFaces(t *testing.T) {
	m := Metrics{Status: StatusOK, ToolAccessProxy: f(0.9), Faces: 6}
	got, ev := RefineBins(basePart(), m)
	if got.AccessibilityRisk != inputs.AccessLow {
		t.Errorf("access overridden on simple solid: %q", got.AccessibilityRisk)
	}
	if _, ok := ev["tool_access_proxy"]; !ok {
		t.Error("proxy should still be recorded as evidence")
	}
}

func TestRefineBinsSkipsDegradedAndInvalid(t *testing.T) {
	part := basePart()
	if got, ev := RefineBins(part, Metrics{Status: StatusFailed, MinWallThicknessMM: f(0.5)}); got != part || ev != nil {
		t.Error("degraded metrics must not refine bins")
	}
	nan := math.NaN()
	if got, ev := RefineBins(part, Metrics{Status: StatusOK, MinWallThicknessMM: &nan}); got != part || ev != nil {
		t.Error("non-finite metric must be ignored")
	}
}
