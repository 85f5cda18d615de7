package scoring

import (
	"testing"

	"github.com/danielpatrickdp/dfm-advisor/internal/gate"
	"github.com/danielpatrickdp/dfm-advisor/internal/geometry"
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
)

// #region anchoring

func TestUserAnchorBinsOnly(t *testing.T) {
	in := inputs.Inputs{
		Process:          inputs.ProcessCNCTurning,
		Material:         inputs.MaterialSteel,
		ProductionVolume: inputs.VolumeProto,
	}
	// Raw top is CNC (base 3 + proto 2); turning trails by 1, inside
	// the anchor margin.
	rec := Recommend(DefaultConfig(), testRequest(in, defaultPart()))
	if rec.Primary != inputs.ProcessCNCTurning {
		t.Fatalf("primary = %s, want anchored CNC_TURNING (scores %v)", rec.Primary, rec.Scores)
	}
}

func TestUserAnchorSkippedWithCADEvidence(t *testing.T) {
	in := inputs.Inputs{
		Process:          inputs.ProcessCNCTurning,
		Material:         inputs.MaterialSteel,
		ProductionVolume: inputs.VolumeProto,
	}
	req := testRequest(in, defaultPart())
	req.Geo = GeoEvidence{CADStatus: geometry.StatusOK}

	rec := Recommend(DefaultConfig(), req)
	if rec.Primary != inputs.ProcessCNC {
		t.Fatalf("primary = %s, want CNC (CAD evidence outranks anchoring)", rec.Primary)
	}
}

func TestUserAnchorRespectsMargin(t *testing.T) {
	in := inputs.Inputs{
		Process:          inputs.ProcessForging,
		Material:         inputs.MaterialSteel,
		ProductionVolume: inputs.VolumeProto,
	}
	// Forging takes FORG1 at proto; the gap to the raw top exceeds the
	// anchor margin, so the selection must not be anchored.
	rec := Recommend(DefaultConfig(), testRequest(in, defaultPart()))
	if rec.Primary == inputs.ProcessForging {
		t.Fatalf("anchored across too wide a gap: scores %v", rec.Scores)
	}
}

// #endregion

// #region auto-mode

func TestAutoTieExposesRunnerUp(t *testing.T) {
	in := inputs.Inputs{Process: inputs.ProcessAuto, Material: inputs.MaterialSteel, ProductionVolume: inputs.VolumeProduction}
	part := defaultPart()

	req := testRequest(in, part)
	rec := Recommend(DefaultConfig(), req)

	// Casting, forging, extrusion and MIM all land on base 2 + production 2.
	top := rec.Scores[rec.Primary]
	var tied []inputs.Process
	for _, p := range rec.EligibleProcs {
		if p != rec.Primary && rec.Scores[p] == top {
			tied = append(tied, p)
		}
	}
	if len(tied) == 0 {
		t.Skip("no exact tie in this configuration")
	}
	if len(rec.Secondary) == 0 || rec.Secondary[0] != tied[0] {
		t.Errorf("tie runner-up %s not exposed first in secondary %v", tied[0], rec.Secondary)
	}
	found := false
	for _, tr := range rec.Trace {
		if len(tr) >= 8 && tr[:8] == "auto_tie" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing auto_tie trace entry: %v", rec.Trace)
	}
}

func TestAutoGuardDemotesLowVolumeSteelExtrusion(t *testing.T) {
	in := inputs.Inputs{
		Process:          inputs.ProcessAuto,
		Material:         inputs.MaterialSteel,
		ProductionVolume: inputs.VolumeSmallBatch,
		UserText:         "extruded profile",
	}
	part := defaultPart()
	part.FeatureVariety = inputs.VarietyLow

	rec := Recommend(DefaultConfig(), testRequest(in, part))
	if rec.Primary == inputs.ProcessExtrusion {
		// Guard applies only when a runner-up is within the margin.
		gap := rec.Scores[inputs.ProcessExtrusion] - rec.Scores[rec.Secondary[0]]
		if gap <= DefaultConfig().AutoGuardMargin {
			t.Fatalf("low-volume steel extrusion kept primary despite close runner-up: %v", rec.Scores)
		}
	}
}

// #endregion

// #region hybrid

func TestHybridOfferAddsCNCFinishing(t *testing.T) {
	in := inputs.Inputs{
		Process:              inputs.ProcessAuto,
		Material:             inputs.MaterialSteel,
		ProductionVolume:     inputs.VolumeProduction,
		ToleranceCriticality: inputs.ToleranceHigh,
		UserText:             "cast bracket, drill and tap mounting holes",
	}
	part := defaultPart()
	part.MinWallThickness = inputs.WallThick

	rec := Recommend(DefaultConfig(), testRequest(in, part))
	if !toolingIntensive[rec.Primary] {
		t.Skipf("primary %s not tooling-intensive in this configuration", rec.Primary)
	}
	if !containsProc(rec.Secondary, inputs.ProcessCNC) {
		t.Fatalf("hybrid offer missing: primary=%s secondary=%v scores=%v", rec.Primary, rec.Secondary, rec.Scores)
	}
}

// #endregion

// #region empty-gate

func TestEmptyEligibleSetFallsBackToCNC(t *testing.T) {
	st := newScoreState(gate.Result{}) // nothing eligible
	if len(st.Eligible) != 1 || st.Eligible[0] != inputs.ProcessCNC {
		t.Fatalf("fallback candidate = %v, want [CNC]", st.Eligible)
	}
}

// #endregion
