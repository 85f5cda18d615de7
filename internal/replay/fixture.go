package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a set
// of advisory cases with expected outcomes.
type Fixture struct {
	Description string `json:"description"`
	Cases       []Case `json:"cases"`
}

// Case is one recorded advisory request plus expectations.
type Case struct {
	Name     string            `json:"name"`
	Inputs   FixtureInputs     `json:"inputs"`
	Part     FixturePart       `json:"part_summary"`
	Conf     FixtureConf       `json:"confidence_inputs"`
	Evidence []FixtureEvidence `json:"evidence,omitempty"`
	Expected Expected          `json:"expected"`
}

// FixtureInputs mirrors inputs.Inputs with JSON tags.
type FixtureInputs struct {
	Process              string `json:"process"`
	Material             string `json:"material"`
	ProductionVolume     string `json:"production_volume"`
	LoadType             string `json:"load_type"`
	ToleranceCriticality string `json:"tolerance_criticality"`
	AMTech               string `json:"am_tech,omitempty"`
	UserText             string `json:"user_text,omitempty"`
}

// FixturePart mirrors inputs.PartSummary with JSON tags.
type FixturePart struct {
	PartSize          string `json:"part_size"`
	MinInternalRadius string `json:"min_internal_radius"`
	MinWallThickness  string `json:"min_wall_thickness"`
	HoleDepthClass    string `json:"hole_depth_class"`
	PocketAspectClass string `json:"pocket_aspect_class"`
	FeatureVariety    string `json:"feature_variety"`
	AccessibilityRisk string `json:"accessibility_risk"`
	HasClampingFaces  bool   `json:"has_clamping_faces"`
}

// FixtureConf mirrors inputs.ConfidenceInputs with JSON tags.
type FixtureConf struct {
	Has2DDrawing       bool `json:"has_2d_drawing"`
	StepScaleConfirmed bool `json:"step_scale_confirmed"`
}

// FixtureEvidence is canned knowledge-base evidence served to the run
// when its decision loop asks for retrieval.
type FixtureEvidence struct {
	ChunkID    string `json:"chunk_id"`
	Title      string `json:"title"`
	SourcePath string `json:"source_path"`
	Text       string `json:"text"`
}

// Expected captures the assertions for one case. Zero values skip the
// corresponding check; Rounds uses a pointer so 0 is assertable.
type Expected struct {
	Primary        string   `json:"primary,omitempty"`
	Secondary      []string `json:"secondary,omitempty"`
	NotRecommended []string `json:"not_recommended,omitempty"`
	Decision       string   `json:"decision,omitempty"`
	Rounds         *int     `json:"rounds,omitempty"`
}

// #endregion fixture-types

// #region load

// LoadFixture reads and parses a fixture JSON file.
func LoadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if len(f.Cases) == 0 {
		return Fixture{}, fmt.Errorf("fixture has no cases")
	}
	return f, nil
}

// #endregion load

// #region convert

// ToInputs converts fixture JSON shapes into domain values. Validation
// happens inside the advisor, not here.
func (fi FixtureInputs) ToInputs() inputs.Inputs {
	return inputs.Inputs{
		Process:              inputs.Process(fi.Process),
		Material:             inputs.Material(fi.Material),
		ProductionVolume:     inputs.Volume(fi.ProductionVolume),
		LoadType:             inputs.LoadType(fi.LoadType),
		ToleranceCriticality: inputs.Tolerance(fi.ToleranceCriticality),
		AMTech:               inputs.AMTech(fi.AMTech),
		UserText:             fi.UserText,
	}
}

func (fp FixturePart) ToPart() inputs.PartSummary {
	return inputs.PartSummary{
		PartSize:          inputs.SizeBin(fp.PartSize),
		MinInternalRadius: inputs.RadiusBin(fp.MinInternalRadius),
		MinWallThickness:  inputs.WallBin(fp.MinWallThickness),
		HoleDepthClass:    inputs.HoleDepthBin(fp.HoleDepthClass),
		PocketAspectClass: inputs.PocketBin(fp.PocketAspectClass),
		FeatureVariety:    inputs.VarietyBin(fp.FeatureVariety),
		AccessibilityRisk: inputs.AccessBin(fp.AccessibilityRisk),
		HasClampingFaces:  fp.HasClampingFaces,
	}
}

func (fc FixtureConf) ToConf() inputs.ConfidenceInputs {
	return inputs.ConfidenceInputs{
		Has2DDrawing:       fc.Has2DDrawing,
		StepScaleConfirmed: fc.StepScaleConfirmed,
	}
}

// #endregion convert
