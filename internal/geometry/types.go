package geometry

// #region status

// Status reports the outcome of the external geometry collaborator.
// Anything other than StatusOK degrades scoring to bins-only heuristics.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
	StatusNone    Status = "none"
)

// #endregion

// #region level

// Level is the discretized likelihood scale shared by the process
// signal helpers.
type Level string

const (
	LevelNone Level = "none"
	LevelLow  Level = "low"
	LevelMed  Level = "med"
	LevelHigh Level = "high"
)

// #endregion

// #region metrics

// Metrics is the read-only bundle returned by the geometry-analysis
// collaborator. Fields are pointers where absence is meaningful.
type Metrics struct {
	Status         Status
	BBoxDims       [3]float64 // unsorted, mm
	VolumeMM3      float64
	SurfaceAreaMM2 float64

	// Thin-shell metrics.
	TOverMinDim *float64 // thin-shell thickness / min bbox dim
	AVRatio     *float64 // surface area / volume

	// Extrusion metrics.
	CoeffVar       *float64 // cross-section area CV along best axis
	RobustCoeffVar *float64 // outlier-trimmed CV, preferred when set
	ExtrusionAxis  string

	// Numeric feature metrics for bin refinement.
	MinWallThicknessMM  *float64
	MinInternalRadiusMM *float64
	ToolAccessProxy     *float64
	Faces               int
}

// SortedDims returns bbox dims descending (a >= b >= c).
func (m Metrics) SortedDims() (a, b, c float64) {
	d := m.BBoxDims
	if d[0] < d[1] {
		d[0], d[1] = d[1], d[0]
	}
	if d[1] < d[2] {
		d[1], d[2] = d[2], d[1]
	}
	if d[0] < d[1] {
		d[0], d[1] = d[1], d[0]
	}
	return d[0], d[1], d[2]
}

// #endregion

// #region signal

// Signal is one discretized likelihood with its evidence trail.
type Signal struct {
	Level  Level
	Source string // "cad", "bbox_fallback", "bins_only", "none"

	// Optional evidence, populated per signal kind.
	CoeffVar     *float64
	AxisRatio    *float64
	Roundness    *float64
	Slenderness  *float64
	TurningAxis  string
	ThinnessBBox *float64
}

// #endregion
