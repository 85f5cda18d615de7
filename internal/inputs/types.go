package inputs

// #region process

// Process identifies a candidate manufacturing process.
type Process string

const (
	ProcessAuto               Process = "AUTO"
	ProcessCNC                Process = "CNC"
	ProcessCNCTurning         Process = "CNC_TURNING"
	ProcessAM                 Process = "AM"
	ProcessSheetMetal         Process = "SHEET_METAL"
	ProcessInjectionMolding   Process = "INJECTION_MOLDING"
	ProcessCasting            Process = "CASTING"
	ProcessForging            Process = "FORGING"
	ProcessExtrusion          Process = "EXTRUSION"
	ProcessMIM                Process = "MIM"
	ProcessThermoforming      Process = "THERMOFORMING"
	ProcessCompressionMolding Process = "COMPRESSION_MOLDING"
)

// Candidates is the fixed candidate set the scorer ranks.
// AUTO is a mode, never a candidate.
var Candidates = []Process{
	ProcessCNC,
	ProcessCNCTurning,
	ProcessAM,
	ProcessSheetMetal,
	ProcessInjectionMolding,
	ProcessCasting,
	ProcessForging,
	ProcessExtrusion,
	ProcessMIM,
	ProcessThermoforming,
	ProcessCompressionMolding,
}

// #endregion

// #region material

// Material is the coarse material selection from the request form.
type Material string

const (
	MaterialAluminum Material = "Aluminum"
	MaterialSteel    Material = "Steel"
	MaterialPlastic  Material = "Plastic"
)

// #endregion

// #region volume

// Volume is the production volume bracket.
type Volume string

const (
	VolumeProto      Volume = "Proto"
	VolumeSmallBatch Volume = "Small batch"
	VolumeProduction Volume = "Production"
)

// #endregion

// #region load-type

// LoadType classifies the mechanical load case.
type LoadType string

const (
	LoadStatic  LoadType = "Static"
	LoadDynamic LoadType = "Dynamic"
	LoadShock   LoadType = "Shock"
)

// #endregion

// #region tolerance

// Tolerance is the tolerance criticality bracket.
type Tolerance string

const (
	ToleranceLow    Tolerance = "Low"
	ToleranceMedium Tolerance = "Medium"
	ToleranceHigh   Tolerance = "High"
)

// #endregion

// #region am-tech

// AMTech narrows the additive process when Process == AM.
type AMTech string

const (
	AMTechAuto      AMTech = "AUTO"
	AMTechFDM       AMTech = "FDM"
	AMTechMetalLPBF AMTech = "METAL_LPBF"
	AMTechSLA       AMTech = "SLA"
	AMTechSLS       AMTech = "SLS"
	AMTechMJF       AMTech = "MJF"
)

// #endregion

// #region inputs

// Inputs is the immutable per-request form data. Created once by the
// caller; the engine never mutates it.
type Inputs struct {
	Process              Process
	Material             Material
	ProductionVolume     Volume
	LoadType             LoadType
	ToleranceCriticality Tolerance
	AMTech               AMTech // only meaningful when Process == AM
	UserText             string // free-text notes, may be empty
}

// UserSelected returns the concrete user selection, or "" when AUTO.
func (in Inputs) UserSelected() Process {
	if in.Process == ProcessAuto {
		return ""
	}
	return in.Process
}

// #endregion

// #region part-summary

// Bin domains for PartSummary fields. "Unknown" is a first-class value
// for the four critical geometry bins.
type (
	SizeBin       string
	RadiusBin     string
	WallBin       string
	HoleDepthBin  string
	PocketBin     string
	VarietyBin    string
	AccessBin     string
)

const (
	SizeSmall  SizeBin = "Small"
	SizeMedium SizeBin = "Medium"
	SizeLarge  SizeBin = "Large"

	RadiusSmall   RadiusBin = "Small"
	RadiusMedium  RadiusBin = "Medium"
	RadiusLarge   RadiusBin = "Large"
	RadiusUnknown RadiusBin = "Unknown"

	WallThin    WallBin = "Thin"
	WallMedium  WallBin = "Medium"
	WallThick   WallBin = "Thick"
	WallUnknown WallBin = "Unknown"

	HoleNone     HoleDepthBin = "None"
	HoleModerate HoleDepthBin = "Moderate"
	HoleDeep     HoleDepthBin = "Deep"
	HoleUnknown  HoleDepthBin = "Unknown"

	PocketOK      PocketBin = "OK"
	PocketRisky   PocketBin = "Risky"
	PocketExtreme PocketBin = "Extreme"
	PocketUnknown PocketBin = "Unknown"

	VarietyLow    VarietyBin = "Low"
	VarietyMedium VarietyBin = "Medium"
	VarietyHigh   VarietyBin = "High"

	AccessLow    AccessBin = "Low"
	AccessMedium AccessBin = "Medium"
	AccessHigh   AccessBin = "High"
)

// PartSummary is the categorical geometry description. Built from
// manual bins or CAD-derived bins; the numeric adapter may replace it
// (as a new value) once, before scoring.
type PartSummary struct {
	PartSize          SizeBin
	MinInternalRadius RadiusBin
	MinWallThickness  WallBin
	HoleDepthClass    HoleDepthBin
	PocketAspectClass PocketBin
	FeatureVariety    VarietyBin
	AccessibilityRisk AccessBin
	HasClampingFaces  bool
}

// UnknownCriticalBins counts the critical geometry bins still Unknown.
func (p PartSummary) UnknownCriticalBins() int {
	n := 0
	if p.MinInternalRadius == RadiusUnknown {
		n++
	}
	if p.MinWallThickness == WallUnknown {
		n++
	}
	if p.HoleDepthClass == HoleUnknown {
		n++
	}
	if p.PocketAspectClass == PocketUnknown {
		n++
	}
	return n
}

// #endregion

// #region confidence-inputs

// ConfidenceInputs carries evidence-availability facts supplied by the
// caller (drawing uploads, scale confirmation).
type ConfidenceInputs struct {
	Has2DDrawing       bool
	StepScaleConfirmed bool
}

// #endregion
