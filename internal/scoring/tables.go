package scoring

import (
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/material"
)

// #region material-base

// materialBase is the family-1 fit table: how naturally a family maps
// onto each process before any other evidence is considered.
var materialBase = map[material.Family]map[inputs.Process]int{
	material.FamilyMetal: {
		inputs.ProcessCNC:        3,
		inputs.ProcessCNCTurning: 2,
		inputs.ProcessSheetMetal: 2,
		inputs.ProcessCasting:    2,
		inputs.ProcessForging:    2,
		inputs.ProcessExtrusion:  2,
		inputs.ProcessMIM:        2,
		inputs.ProcessAM:         1,
	},
	material.FamilyPolymer: {
		inputs.ProcessInjectionMolding:   3,
		inputs.ProcessAM:                 2,
		inputs.ProcessThermoforming:      2,
		inputs.ProcessCompressionMolding: 2,
		inputs.ProcessExtrusion:          1,
		inputs.ProcessCNC:                1,
	},
	// Neutral values: unknown material keeps coverage without biasing
	// toward either family.
	material.FamilyUnknown: {
		inputs.ProcessCNC:                1,
		inputs.ProcessCNCTurning:         1,
		inputs.ProcessAM:                 1,
		inputs.ProcessInjectionMolding:   1,
		inputs.ProcessCasting:            1,
		inputs.ProcessForging:            1,
		inputs.ProcessExtrusion:          1,
		inputs.ProcessMIM:                1,
		inputs.ProcessThermoforming:      1,
		inputs.ProcessCompressionMolding: 1,
	},
}

// #endregion

// #region volume-economics

// toolingPenalty is the low-volume tooling-ROI penalty per process.
// Small batch is one step milder than Proto.
var toolingPenalty = map[inputs.Process]struct {
	RuleID string
	Proto  int
	Small  int
}{
	inputs.ProcessInjectionMolding: {"IM1", -3, -2},
	inputs.ProcessMIM:              {"MIM1", -3, -2},
	inputs.ProcessCasting:          {"CAST1", -2, -1},
	inputs.ProcessForging:          {"FORG1", -2, -1},
}

// flexibleReward rewards tooling-free processes at low volume.
var flexibleReward = map[inputs.Process]struct {
	Proto int
	Small int
}{
	inputs.ProcessCNC:        {2, 1},
	inputs.ProcessCNCTurning: {2, 1},
	inputs.ProcessAM:         {3, 2},
}

// productionReward amortizes tooling at production volume.
var productionReward = map[inputs.Process]int{
	inputs.ProcessInjectionMolding:   3,
	inputs.ProcessMIM:                2,
	inputs.ProcessCasting:            2,
	inputs.ProcessForging:            2,
	inputs.ProcessExtrusion:          2,
	inputs.ProcessSheetMetal:         2,
	inputs.ProcessThermoforming:      2,
	inputs.ProcessCompressionMolding: 2,
}

// productionPenalty: unit economics that degrade at volume.
var productionPenalty = map[inputs.Process]int{
	inputs.ProcessAM: -1,
}

// #endregion

// #region keyword-clusters

// keywordCluster is one declarative free-text rule: matches are
// case-insensitive substring hits; MinStrong hits in one cluster fire
// the strong delta, exactly one hit fires the weak delta.
type keywordCluster struct {
	Process   inputs.Process
	RuleID    string
	Keywords  []string
	Weak      int
	Strong    int
	MinStrong int
}

var keywordClusters = []keywordCluster{
	{inputs.ProcessSheetMetal, "KW_SHEET",
		[]string{"sheet metal", "bend", "bent", "brake", "punch", "laser cut", "fold", "flange", "gauge", "enclosure panel"}, 1, 3, 2},
	{inputs.ProcessExtrusion, "KW_EXTR",
		[]string{"extrusion", "extruded", "profile", "rail", "heat sink", "constant cross-section", "cut to length"}, 1, 3, 2},
	{inputs.ProcessAM, "KW_AM",
		[]string{"3d print", "3d-print", "additive", "printed", "fdm", "sls", "slm", "lpbf", "mjf"}, 1, 3, 2},
	{inputs.ProcessCNC, "KW_CNC",
		[]string{"machined", "machining", "milled", "milling", "pocket", "tapped", "drilled", "datum", "fixture"}, 1, 3, 2},
	{inputs.ProcessCNCTurning, "KW_TURN",
		[]string{"turned", "lathe", "shaft", "spindle", "axisymmetric", "thread", "groove"}, 1, 3, 2},
	{inputs.ProcessCasting, "KW_CAST",
		[]string{"cast", "casting", "sand cast", "die cast", "investment cast", "draft angle", "riser"}, 1, 3, 2},
	{inputs.ProcessForging, "KW_FORG",
		[]string{"forged", "forging", "grain flow", "flash line", "upset"}, 1, 3, 2},
	{inputs.ProcessInjectionMolding, "KW_IM",
		[]string{"injection mold", "injection-mold", "ejector", "snap fit", "snap-fit", "living hinge", "boss", "rib pattern"}, 1, 3, 2},
	{inputs.ProcessMIM, "KW_MIM",
		[]string{"mim", "metal injection", "sinter", "feedstock"}, 1, 3, 2},
	{inputs.ProcessThermoforming, "KW_THERMO",
		[]string{"thermoform", "vacuum form", "blister", "tray", "clamshell"}, 1, 3, 2},
	{inputs.ProcessCompressionMolding, "KW_COMP",
		[]string{"compression mold", "smc", "bmc", "sheet molding", "rubber"}, 1, 3, 2},
}

// amExclusiveCluster captures geometry only AM can make. Two or more
// hits are exclusive evidence: the tie-break may override a
// user-selected milling/turning primary on its strength.
var amExclusiveCluster = keywordCluster{
	Process: inputs.ProcessAM,
	RuleID:  "AM_GEOM",
	Keywords: []string{
		"internal channel", "internal channels", "conformal cooling",
		"lattice", "topology", "gyroid", "enclosed cavity",
		"impossible to machine", "cannot machine", "not machinable",
		"monolithic", "part consolidation",
	},
	Strong:    4,
	MinStrong: 2,
}

// hybridFinishingKeywords signal secondary machining demand on a
// near-net-shape primary.
var hybridFinishingKeywords = []string{
	"machin", "datum", "tolerance", "drill", "tap", "mill",
	"trim", "finish", "interface", "critical", "hole", "holes",
}

// toolingIntensive processes are hybrid-override candidates: they
// deliver near-net shape but rarely final interfaces.
var toolingIntensive = map[inputs.Process]bool{
	inputs.ProcessExtrusion:          true,
	inputs.ProcessCasting:            true,
	inputs.ProcessForging:            true,
	inputs.ProcessMIM:                true,
	inputs.ProcessThermoforming:      true,
	inputs.ProcessCompressionMolding: true,
}

// #endregion
