package geometry

import (
	"testing"

	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
)

func f(v float64) *float64 { return &v }

// #region extrusion

func TestExtrusionLikelihood(t *testing.T) {
	cases := []struct {
		name string
		m    Metrics
		want Level
	}{
		{
			"elongated constant section",
			Metrics{Status: StatusOK, BBoxDims: [3]float64{200, 40, 40}, CoeffVar: f(0.10)},
			LevelHigh,
		},
		{
			"moderate variation",
			Metrics{Status: StatusOK, BBoxDims: [3]float64{200, 40, 40}, CoeffVar: f(0.30)},
			LevelMed,
		},
		{
			"high variation",
			Metrics{Status: StatusOK, BBoxDims: [3]float64{200, 40, 40}, CoeffVar: f(0.50)},
			LevelLow,
		},
		{
			"cube capped despite low cv",
			Metrics{Status: StatusOK, BBoxDims: [3]float64{100, 100, 100}, CoeffVar: f(0.05)},
			LevelLow,
		},
		{
			"robust cv preferred over raw",
			Metrics{Status: StatusOK, BBoxDims: [3]float64{200, 40, 40}, CoeffVar: f(0.50), RobustCoeffVar: f(0.15)},
			LevelHigh,
		},
		{
			"degraded status",
			Metrics{Status: StatusTimeout, BBoxDims: [3]float64{200, 40, 40}, CoeffVar: f(0.10)},
			LevelNone,
		},
		{
			"missing cv",
			Metrics{Status: StatusOK, BBoxDims: [3]float64{200, 40, 40}},
			LevelNone,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtrusionLikelihood(tc.m)
			if got.Level != tc.want {
				t.Errorf("level = %q, want %q", got.Level, tc.want)
			}
		})
	}
}

// #endregion

// #region sheet-metal

func TestSheetMetalLikelihoodCAD(t *testing.T) {
	// Flat plate 300x200x3: flatness 0.015, thinness 0.01, min dim 3mm.
	m := Metrics{
		Status:      StatusOK,
		BBoxDims:    [3]float64{300, 200, 3},
		TOverMinDim: f(0.01),
		AVRatio:     f(80),
	}
	got := SheetMetalLikelihood(m, inputs.PartSummary{})
	if got.Level != LevelHigh || got.Source != "cad" {
		t.Fatalf("got %q/%q, want high/cad", got.Level, got.Source)
	}
}

func TestSheetMetalLikelihoodBlockyCapped(t *testing.T) {
	// Near-cubic solid fails the flatness gate regardless of t_over.
	m := Metrics{
		Status:      StatusOK,
		BBoxDims:    [3]float64{100, 90, 80},
		TOverMinDim: f(0.02),
		AVRatio:     f(10),
	}
	part := inputs.PartSummary{
		HoleDepthClass:    inputs.HoleDeep,
		PocketAspectClass: inputs.PocketRisky,
	}
	got := SheetMetalLikelihood(m, part)
	if got.Level != LevelLow {
		t.Fatalf("level = %q, want low", got.Level)
	}
}

func TestSheetMetalLikelihoodVarietyDemotes(t *testing.T) {
	m := Metrics{
		Status:      StatusOK,
		BBoxDims:    [3]float64{300, 200, 3},
		TOverMinDim: f(0.01),
		AVRatio:     f(80),
	}
	part := inputs.PartSummary{FeatureVariety: inputs.VarietyHigh}
	got := SheetMetalLikelihood(m, part)
	if got.Level != LevelMed {
		t.Fatalf("level = %q, want med after demotion", got.Level)
	}
}

func TestSheetMetalLikelihoodBBoxFallback(t *testing.T) {
	m := Metrics{Status: StatusFailed, BBoxDims: [3]float64{300, 200, 3}}
	got := SheetMetalLikelihood(m, inputs.PartSummary{})
	if got.Level != LevelMed || got.Source != "bbox_fallback" {
		t.Fatalf("got %q/%q, want med/bbox_fallback", got.Level, got.Source)
	}
	if got.ThinnessBBox == nil {
		t.Fatal("missing thinness evidence")
	}
}

func TestSheetMetalLikelihoodBinsOnly(t *testing.T) {
	part := inputs.PartSummary{
		PartSize:          inputs.SizeMedium,
		MinWallThickness:  inputs.WallThin,
		HoleDepthClass:    inputs.HoleNone,
		PocketAspectClass: inputs.PocketOK,
		FeatureVariety:    inputs.VarietyLow,
	}
	got := SheetMetalLikelihood(Metrics{Status: StatusNone}, part)
	if got.Level != LevelMed || got.Source != "bins_only" {
		t.Fatalf("got %q/%q, want med/bins_only", got.Level, got.Source)
	}
}

// #endregion

// #region turning

func TestTurningLikelihood(t *testing.T) {
	cases := []struct {
		name string
		dims [3]float64
		want Level
	}{
		{"long round shaft", [3]float64{200, 40, 40}, LevelHigh},
		{"short round boss", [3]float64{50, 40, 40}, LevelNone},
		{"flat plate", [3]float64{300, 200, 3}, LevelNone},
		{"stubby round bar", [3]float64{70, 44, 40}, LevelMed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TurningLikelihood(Metrics{Status: StatusOK, BBoxDims: tc.dims})
			if got.Level != tc.want {
				t.Errorf("level = %q, want %q", got.Level, tc.want)
			}
		})
	}
}

// #endregion
