package scoring

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/dfm-advisor/internal/geometry"
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/material"
)

// #region score
// Score runs the five signal families in fixed order over the eligible
// candidate set. Pure: identical requests produce identical states.
func Score(req Request) *ScoreState {
	st := newScoreState(req.Gates)
	family := material.ClassifyFamily(string(req.Inputs.Material))

	scoreMaterialBase(st, family)
	scoreVolume(st, req.Inputs, family)
	scoreGeometry(st, req.Part, req.Geo)
	scoreProperties(st, req.Material.Profile.Properties)
	scoreKeywords(st, req.Inputs.UserText)

	return st
}

// #endregion score

// #region family-material

func scoreMaterialBase(st *ScoreState, family material.Family) {
	table := materialBase[family]
	for _, p := range st.Eligible {
		delta := table[p]
		st.add(p, delta, "MAT1",
			fmt.Sprintf("Material family (%s) fits %s", family, p),
			SeverityInfo, delta > 0)
	}
}

// #endregion

// #region family-volume

func scoreVolume(st *ScoreState, in *inputs.Inputs, family material.Family) {
	selected := in.UserSelected()
	switch in.ProductionVolume {
	case inputs.VolumeProto, inputs.VolumeSmallBatch:
		small := in.ProductionVolume == inputs.VolumeSmallBatch
		for _, p := range st.Eligible {
			if pen, ok := toolingPenalty[p]; ok {
				delta := pen.Proto
				if small {
					delta = pen.Small
				}
				st.add(p, delta, pen.RuleID,
					fmt.Sprintf("Tooling cost is hard to amortize at %s volume", strings.ToLower(string(in.ProductionVolume))),
					SeverityWarn, volumeReasonRelevant(p, family, selected))
			}
			if rw, ok := flexibleReward[p]; ok {
				delta := rw.Proto
				if small {
					delta = rw.Small
				}
				st.add(p, delta, "VOL_FLEX",
					fmt.Sprintf("No tooling needed; %s suits low volume", p),
					SeverityInfo, volumeReasonRelevant(p, family, selected))
			}
		}
	case inputs.VolumeProduction:
		for _, p := range st.Eligible {
			if delta, ok := productionReward[p]; ok {
				st.add(p, delta, "VOL_TOOL",
					fmt.Sprintf("Tooling amortizes at production volume for %s", p),
					SeverityInfo, volumeReasonRelevant(p, family, selected))
			}
			if delta, ok := productionPenalty[p]; ok {
				st.add(p, delta, "VOL_FLEX",
					"Per-unit additive economics degrade at production volume",
					SeverityInfo, volumeReasonRelevant(p, family, selected))
			}
		}
	}
}

// volumeReasonRelevant gates reason emission for volume economics: a
// delta on a process that is a poor material fit anyway would leak a
// misleading rationale, so only natural-fit or user-selected processes
// surface their volume reasons.
func volumeReasonRelevant(p inputs.Process, family material.Family, selected inputs.Process) bool {
	return materialBase[family][p] >= 2 || p == selected
}

// #endregion

// #region family-geometry

func scoreGeometry(st *ScoreState, part *inputs.PartSummary, geo GeoEvidence) {
	// Bins: thin wall on a medium/large part is the classic sheet-metal
	// shape.
	if part.MinWallThickness == inputs.WallThin &&
		(part.PartSize == inputs.SizeMedium || part.PartSize == inputs.SizeLarge) {
		st.add(inputs.ProcessSheetMetal, 3, "GEO_SM1",
			"Thin wall on a medium/large part favors sheet metal", SeverityInfo, true)
		st.add(inputs.ProcessThermoforming, 1, "GEO_SM1",
			"Thin wall suits thermoformed shells", SeverityInfo, true)
	}

	switch part.FeatureVariety {
	case inputs.VarietyHigh:
		st.add(inputs.ProcessAM, 2, "GEO_FV",
			"High feature variety favors additive", SeverityInfo, true)
		st.add(inputs.ProcessMIM, 1, "GEO_FV",
			"High feature variety suits MIM at volume", SeverityInfo, true)
		for _, p := range []inputs.Process{inputs.ProcessCNC, inputs.ProcessCNCTurning, inputs.ProcessSheetMetal, inputs.ProcessExtrusion} {
			st.add(p, -1, "GEO_FV",
				"High feature variety raises setup and tooling effort", SeverityInfo, false)
		}
	case inputs.VarietyLow:
		for _, p := range []inputs.Process{inputs.ProcessExtrusion, inputs.ProcessCNCTurning, inputs.ProcessSheetMetal} {
			st.add(p, 1, "GEO_FV",
				"Low feature variety suits simple-profile processes", SeverityInfo, true)
		}
	}

	switch part.PocketAspectClass {
	case inputs.PocketRisky:
		st.add(inputs.ProcessCNC, -1, "GEO_POCKET",
			"Deep pocket aspect raises machining risk", SeverityInfo, true)
	case inputs.PocketExtreme:
		st.add(inputs.ProcessCNC, -2, "GEO_POCKET",
			"Extreme pocket aspect is hostile to milling", SeverityWarn, true)
		st.add(inputs.ProcessAM, 1, "GEO_POCKET",
			"Deep internal features print without tool access", SeverityInfo, true)
	}

	switch part.AccessibilityRisk {
	case inputs.AccessHigh:
		st.add(inputs.ProcessCNC, -2, "GEO_ACCESS",
			"Poor tool access penalizes machining", SeverityWarn, true)
		st.add(inputs.ProcessAM, 1, "GEO_ACCESS",
			"Additive does not need tool access", SeverityInfo, true)
	case inputs.AccessMedium:
		st.add(inputs.ProcessCNC, -1, "GEO_ACCESS",
			"Limited tool access adds machining setups", SeverityInfo, true)
	}

	if part.HoleDepthClass == inputs.HoleDeep {
		st.add(inputs.ProcessCNC, -1, "GEO_HOLE",
			"Deep holes need special drilling strategy", SeverityInfo, true)
	}

	if part.MinWallThickness == inputs.WallThick {
		st.add(inputs.ProcessCasting, 1, "GEO_WALL",
			"Thick sections cast well", SeverityInfo, true)
		st.add(inputs.ProcessForging, 1, "GEO_WALL",
			"Thick sections forge well", SeverityInfo, true)
		st.add(inputs.ProcessAM, -1, "GEO_WALL",
			"Thick solid sections print slowly", SeverityInfo, false)
	}

	// CAD-derived likelihood signals. The bins-only sheet signal is
	// skipped here: GEO_SM1 above already covers that evidence and the
	// two must not double-count.
	switch geo.Extrusion.Level {
	case geometry.LevelHigh:
		st.add(inputs.ProcessExtrusion, 3, "GEO_EXTR",
			"Constant cross-section along an elongated axis", SeverityInfo, true)
	case geometry.LevelMed:
		st.add(inputs.ProcessExtrusion, 1, "GEO_EXTR",
			"Mostly constant cross-section", SeverityInfo, true)
	}
	switch geo.Turning.Level {
	case geometry.LevelHigh:
		st.add(inputs.ProcessCNCTurning, 3, "GEO_TURN",
			"Round, slender envelope suits turning", SeverityInfo, true)
	case geometry.LevelMed:
		st.add(inputs.ProcessCNCTurning, 1, "GEO_TURN",
			"Near-round envelope may suit turning", SeverityInfo, true)
	}
	if geo.Sheet.Source == "cad" || geo.Sheet.Source == "bbox_fallback" {
		switch geo.Sheet.Level {
		case geometry.LevelHigh:
			st.add(inputs.ProcessSheetMetal, 3, "GEO_SHEET",
				"Flat, thin envelope confirmed by geometry", SeverityInfo, true)
		case geometry.LevelMed:
			st.add(inputs.ProcessSheetMetal, 1, "GEO_SHEET",
				"Moderately flat envelope", SeverityInfo, true)
		}
	}
}

// #endregion

// #region family-properties

func scoreProperties(st *ScoreState, props material.Properties) {
	switch props.Machinability {
	case material.MachinabilityHard:
		st.add(inputs.ProcessCNC, -1, "PROP_MACH",
			"Hard-to-machine material raises cycle time and tool wear", SeverityInfo, true)
		st.add(inputs.ProcessCNCTurning, -1, "PROP_MACH",
			"Hard-to-machine material raises cycle time and tool wear", SeverityInfo, false)
	case material.MachinabilityVeryHard:
		st.add(inputs.ProcessCNC, -2, "PROP_MACH",
			"Very hard machining: expect slow cycles and heavy tool wear", SeverityWarn, true)
		st.add(inputs.ProcessCNCTurning, -2, "PROP_MACH",
			"Very hard machining: expect slow cycles and heavy tool wear", SeverityWarn, false)
	}

	switch props.Formability {
	case material.LevelLow:
		st.add(inputs.ProcessSheetMetal, -2, "PROP_FORM",
			"Low formability risks cracking in bends", SeverityWarn, true)
		st.add(inputs.ProcessForging, -1, "PROP_FORM",
			"Low formability limits forging reductions", SeverityInfo, true)
	case material.LevelHigh:
		st.add(inputs.ProcessSheetMetal, 1, "PROP_FORM",
			"High formability suits bending and forming", SeverityInfo, true)
	}

	if props.Castability == material.LevelHigh {
		st.add(inputs.ProcessCasting, 2, "PROP_CAST",
			"Material casts well", SeverityInfo, true)
	}
	if props.Extrudability == material.LevelHigh {
		st.add(inputs.ProcessExtrusion, 2, "PROP_EXTR",
			"Material extrudes well", SeverityInfo, true)
	}
	if props.AMReadiness == material.LevelHigh {
		st.add(inputs.ProcessAM, 1, "PROP_AM",
			"Material is well supported by additive platforms", SeverityInfo, true)
	}
	if props.AMPostprocessIntensity == material.LevelHigh {
		st.add(inputs.ProcessAM, -1, "PROP_AM_POST",
			"Heavy post-processing burden after printing", SeverityInfo, true)
	}
}

// #endregion

// #region family-keywords

func scoreKeywords(st *ScoreState, userText string) {
	text := strings.ToLower(userText)
	if strings.TrimSpace(text) == "" {
		return
	}

	for _, cluster := range keywordClusters {
		hits := countHits(text, cluster.Keywords)
		switch {
		case hits >= cluster.MinStrong:
			st.add(cluster.Process, cluster.Strong, cluster.RuleID,
				fmt.Sprintf("Description strongly suggests %s (%d keyword matches)", cluster.Process, hits),
				SeverityInfo, true)
		case hits == 1:
			st.add(cluster.Process, cluster.Weak, cluster.RuleID,
				fmt.Sprintf("Description hints at %s", cluster.Process),
				SeverityInfo, true)
		}
	}

	if hits := countHits(text, amExclusiveCluster.Keywords); hits >= amExclusiveCluster.MinStrong {
		st.add(amExclusiveCluster.Process, amExclusiveCluster.Strong, amExclusiveCluster.RuleID,
			"AM-only geometry described (internal channels/lattice/conformal cooling)",
			SeverityInfo, true)
		st.AMExclusive = true
	}
}

func countHits(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// #endregion
