package material

// #region family

// Family is the coarse material family used by the hard gate.
type Family string

const (
	FamilyMetal   Family = "metal"
	FamilyPolymer Family = "polymer"
	FamilyUnknown Family = "unknown"
)

// ProfileFamily is the finer family carried on a resolved profile.
type ProfileFamily string

const (
	ProfileSteel          ProfileFamily = "STEEL"
	ProfileAluminum       ProfileFamily = "ALUMINUM"
	ProfileStainlessSteel ProfileFamily = "STAINLESS_STEEL"
	ProfileTitanium       ProfileFamily = "TITANIUM"
	ProfileThermoplastic  ProfileFamily = "THERMOPLASTIC"
)

// #endregion

// #region property-levels

// Level is the shared three-step property scale.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// Machinability has its own four-step scale.
type Machinability string

const (
	MachinabilityEasy     Machinability = "EASY"
	MachinabilityMedium   Machinability = "MEDIUM"
	MachinabilityHard     Machinability = "HARD"
	MachinabilityVeryHard Machinability = "VERY_HARD"
)

// Hardness classification.
type Hardness string

const (
	HardnessSoft   Hardness = "SOFT"
	HardnessMedium Hardness = "MEDIUM"
	HardnessHard   Hardness = "HARD"
)

// #endregion

// #region properties

// Properties is the resolved material property vector consumed by the
// scorer's material-property family.
type Properties struct {
	Machinability          Machinability `yaml:"machinability"`
	Formability            Level         `yaml:"formability"`
	Castability            Level         `yaml:"castability"`
	Extrudability          Level         `yaml:"extrudability"`
	Weldability            Level         `yaml:"weldability"`
	HardnessClass          Hardness      `yaml:"hardness_class"`
	ThermalConductivity    Level         `yaml:"thermal_conductivity"`
	CorrosionSensitivity   Level         `yaml:"corrosion_sensitivity"`
	AMReadiness            Level         `yaml:"am_readiness"`
	AMPostprocessIntensity Level         `yaml:"am_postprocess_intensity"`
}

// #endregion

// #region profile

// Profile is one material entry from the embedded profile set.
type Profile struct {
	ID         string        `yaml:"id"`
	Label      string        `yaml:"label"`
	Family     ProfileFamily `yaml:"family"`
	Aliases    []string      `yaml:"aliases"`
	Properties Properties    `yaml:"properties"`
}

// ResolutionSource tags how a resolution was reached, for audit.
type ResolutionSource string

const (
	SourceProfileID       ResolutionSource = "profile_id"
	SourceAlias           ResolutionSource = "alias"
	SourceFamilyDefault   ResolutionSource = "family_default"
	SourceFallbackUnknown ResolutionSource = "fallback_unknown"
)

// Resolution is the resolver output.
type Resolution struct {
	Profile     Profile
	Source      ResolutionSource
	MatchedText string // the input text that matched, when Source == alias
}

// #endregion
