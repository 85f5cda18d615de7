package scoring

import (
	"reflect"
	"testing"

	"github.com/danielpatrickdp/dfm-advisor/internal/gate"
	"github.com/danielpatrickdp/dfm-advisor/internal/geometry"
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/material"
)

func testRequest(in inputs.Inputs, part inputs.PartSummary) Request {
	reg, err := material.Load()
	if err != nil {
		panic(err)
	}
	return Request{
		Inputs:   &in,
		Part:     &part,
		Material: reg.Resolve(string(in.Material)),
		Gates:    gate.Evaluate(string(in.Material)),
		Geo:      GeoEvidence{CADStatus: geometry.StatusNone},
	}
}

func defaultPart() inputs.PartSummary {
	return inputs.PartSummary{
		PartSize:          inputs.SizeMedium,
		MinInternalRadius: inputs.RadiusMedium,
		MinWallThickness:  inputs.WallMedium,
		HoleDepthClass:    inputs.HoleNone,
		PocketAspectClass: inputs.PocketOK,
		FeatureVariety:    inputs.VarietyMedium,
		AccessibilityRisk: inputs.AccessLow,
	}
}

// #region invariants

func TestBreakdownSumMatchesScores(t *testing.T) {
	cases := []inputs.Inputs{
		{Process: inputs.ProcessAuto, Material: inputs.MaterialSteel, ProductionVolume: inputs.VolumeProduction},
		{Process: inputs.ProcessCNC, Material: inputs.MaterialPlastic, ProductionVolume: inputs.VolumeProto, UserText: "snap fit housing with ribs"},
		{Process: inputs.ProcessAM, Material: inputs.MaterialAluminum, ProductionVolume: inputs.VolumeSmallBatch, UserText: "lattice with internal channels"},
	}
	for _, in := range cases {
		rec := Recommend(DefaultConfig(), testRequest(in, defaultPart()))
		if err := rec.CheckBreakdown(); err != nil {
			t.Errorf("inputs %+v: %v", in, err)
		}
	}
}

func TestPrimarySecondaryDisjoint(t *testing.T) {
	in := inputs.Inputs{Process: inputs.ProcessAuto, Material: inputs.MaterialSteel, ProductionVolume: inputs.VolumeProduction}
	rec := Recommend(DefaultConfig(), testRequest(in, defaultPart()))

	if rec.Primary == "" {
		t.Fatal("no primary")
	}
	seen := map[inputs.Process]bool{}
	for _, p := range rec.Secondary {
		if p == rec.Primary {
			t.Errorf("primary %s appears in secondary", p)
		}
		if seen[p] {
			t.Errorf("duplicate secondary %s", p)
		}
		seen[p] = true
	}
	for _, p := range rec.NotRecommended {
		if p == rec.Primary {
			t.Errorf("primary %s appears in not_recommended", p)
		}
	}
	if len(rec.Secondary) > 2 {
		t.Errorf("secondary too long: %v", rec.Secondary)
	}
}

func TestUserSelectionNeverNotRecommended(t *testing.T) {
	for _, sel := range inputs.Candidates {
		in := inputs.Inputs{Process: sel, Material: inputs.MaterialSteel, ProductionVolume: inputs.VolumeProto}
		rec := Recommend(DefaultConfig(), testRequest(in, defaultPart()))
		for _, p := range rec.NotRecommended {
			if p == sel {
				t.Errorf("user-selected %s listed as not recommended", sel)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	in := inputs.Inputs{
		Process:              inputs.ProcessAuto,
		Material:             inputs.MaterialAluminum,
		ProductionVolume:     inputs.VolumeSmallBatch,
		ToleranceCriticality: inputs.ToleranceMedium,
		UserText:             "extruded rail profile, cut to length, drilled",
	}
	a := Recommend(DefaultConfig(), testRequest(in, defaultPart()))
	b := Recommend(DefaultConfig(), testRequest(in, defaultPart()))
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different recommendations")
	}
}

func TestMissingInputsNullRecommendation(t *testing.T) {
	rec := Recommend(DefaultConfig(), Request{})
	if rec.Primary != "" {
		t.Fatalf("expected null primary, got %s", rec.Primary)
	}
	if len(rec.Reasons) == 0 {
		t.Fatal("null recommendation must carry a reason")
	}
}

// #endregion

// #region scenarios

func TestSteelProductionThinWallFavorsSheetMetal(t *testing.T) {
	in := inputs.Inputs{Process: inputs.ProcessAuto, Material: inputs.MaterialSteel, ProductionVolume: inputs.VolumeProduction}
	part := defaultPart()
	part.MinWallThickness = inputs.WallThin

	rec := Recommend(DefaultConfig(), testRequest(in, part))

	var geoDelta int
	for _, e := range rec.ScoreBreakdown[inputs.ProcessSheetMetal] {
		if e.RuleID == "GEO_SM1" {
			geoDelta = e.Delta
		}
	}
	if geoDelta < 3 {
		t.Errorf("sheet metal geometry delta = %d, want >= 3", geoDelta)
	}
	if rec.Primary != inputs.ProcessSheetMetal && !containsProc(rec.Secondary, inputs.ProcessSheetMetal) {
		t.Errorf("sheet metal not primary or secondary: primary=%s secondary=%v", rec.Primary, rec.Secondary)
	}
	if rec.ProcessGates.Eligible(inputs.ProcessInjectionMolding) {
		t.Error("injection molding must be gated out for steel")
	}
}

func TestSmallBatchInjectionMoldingToolingPenalty(t *testing.T) {
	in := inputs.Inputs{Process: inputs.ProcessInjectionMolding, Material: inputs.MaterialPlastic, ProductionVolume: inputs.VolumeSmallBatch}
	rec := Recommend(DefaultConfig(), testRequest(in, defaultPart()))

	var found bool
	for _, e := range rec.ScoreBreakdown[inputs.ProcessInjectionMolding] {
		if e.RuleID == "IM1" {
			found = true
			if e.Delta >= 0 {
				t.Errorf("IM1 delta = %d, want negative", e.Delta)
			}
		}
	}
	if !found {
		t.Fatal("missing IM1 tooling penalty entry")
	}
	if rec.Primary == inputs.ProcessInjectionMolding {
		t.Errorf("injection molding should not win small batch on penalty alone; scores=%v", rec.Scores)
	}
}

func TestAMExclusiveKeywordsOverrideCNC(t *testing.T) {
	in := inputs.Inputs{
		Process:          inputs.ProcessCNC,
		Material:         inputs.MaterialAluminum,
		ProductionVolume: inputs.VolumeProto,
		UserText:         "manifold with internal channels and a lattice core",
	}
	rec := Recommend(DefaultConfig(), testRequest(in, defaultPart()))

	var amBoost int
	for _, e := range rec.ScoreBreakdown[inputs.ProcessAM] {
		if e.RuleID == "AM_GEOM" {
			amBoost = e.Delta
		}
	}
	if amBoost != 4 {
		t.Fatalf("AM_GEOM delta = %d, want 4", amBoost)
	}
	if rec.Scores[inputs.ProcessAM] >= rec.Scores[inputs.ProcessCNC] && rec.Primary != inputs.ProcessAM {
		t.Errorf("AM score %d >= CNC %d but primary = %s",
			rec.Scores[inputs.ProcessAM], rec.Scores[inputs.ProcessCNC], rec.Primary)
	}
}

// #endregion

// #region reasons

func TestIrrelevantVolumeReasonSuppressed(t *testing.T) {
	// Unknown-family material keeps MIM eligible with a neutral base
	// fit; its tooling penalty must count without leaking a reason.
	in := inputs.Inputs{Process: inputs.ProcessAuto, Material: "ceramic", ProductionVolume: inputs.VolumeProto}
	req := testRequest(in, defaultPart())
	st := Score(req)

	for _, e := range st.Breakdown[inputs.ProcessMIM] {
		if e.RuleID == "MIM1" {
			if e.Delta >= 0 {
				t.Errorf("MIM1 delta = %d, want negative", e.Delta)
			}
			if e.Emit {
				t.Error("MIM1 reason should not be emitted for a non-fit material")
			}
		}
	}
}

// #endregion
