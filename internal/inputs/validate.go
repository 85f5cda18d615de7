package inputs

import "fmt"

// #region domains

var processDomain = map[Process]bool{
	ProcessAuto: true, ProcessCNC: true, ProcessCNCTurning: true,
	ProcessAM: true, ProcessSheetMetal: true, ProcessInjectionMolding: true,
	ProcessCasting: true, ProcessForging: true, ProcessExtrusion: true,
	ProcessMIM: true, ProcessThermoforming: true, ProcessCompressionMolding: true,
}

var materialDomain = map[Material]bool{
	MaterialAluminum: true, MaterialSteel: true, MaterialPlastic: true,
}

var volumeDomain = map[Volume]bool{
	VolumeProto: true, VolumeSmallBatch: true, VolumeProduction: true,
}

var loadDomain = map[LoadType]bool{
	LoadStatic: true, LoadDynamic: true, LoadShock: true,
}

var toleranceDomain = map[Tolerance]bool{
	ToleranceLow: true, ToleranceMedium: true, ToleranceHigh: true,
}

var sizeDomain = map[SizeBin]bool{
	SizeSmall: true, SizeMedium: true, SizeLarge: true,
}

var radiusDomain = map[RadiusBin]bool{
	RadiusSmall: true, RadiusMedium: true, RadiusLarge: true, RadiusUnknown: true,
}

var wallDomain = map[WallBin]bool{
	WallThin: true, WallMedium: true, WallThick: true, WallUnknown: true,
}

var holeDomain = map[HoleDepthBin]bool{
	HoleNone: true, HoleModerate: true, HoleDeep: true, HoleUnknown: true,
}

var pocketDomain = map[PocketBin]bool{
	PocketOK: true, PocketRisky: true, PocketExtreme: true, PocketUnknown: true,
}

var varietyDomain = map[VarietyBin]bool{
	VarietyLow: true, VarietyMedium: true, VarietyHigh: true,
}

var accessDomain = map[AccessBin]bool{
	AccessLow: true, AccessMedium: true, AccessHigh: true,
}

// #endregion

// #region validate

// Validate checks every enum field against its domain. Returns all
// violations, not just the first. Validation happens at the boundary;
// the scorer and tie-breaker assume validated values.
func Validate(in Inputs, part PartSummary) []error {
	var errs []error

	check := func(ok bool, field string, got any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%s invalid: %q", field, got))
		}
	}

	check(processDomain[in.Process], "inputs.process", in.Process)
	check(materialDomain[in.Material], "inputs.material", in.Material)
	check(volumeDomain[in.ProductionVolume], "inputs.production_volume", in.ProductionVolume)
	check(loadDomain[in.LoadType], "inputs.load_type", in.LoadType)
	check(toleranceDomain[in.ToleranceCriticality], "inputs.tolerance_criticality", in.ToleranceCriticality)

	check(sizeDomain[part.PartSize], "part_summary.part_size", part.PartSize)
	check(radiusDomain[part.MinInternalRadius], "part_summary.min_internal_radius", part.MinInternalRadius)
	check(wallDomain[part.MinWallThickness], "part_summary.min_wall_thickness", part.MinWallThickness)
	check(holeDomain[part.HoleDepthClass], "part_summary.hole_depth_class", part.HoleDepthClass)
	check(pocketDomain[part.PocketAspectClass], "part_summary.pocket_aspect_class", part.PocketAspectClass)
	check(varietyDomain[part.FeatureVariety], "part_summary.feature_variety", part.FeatureVariety)
	check(accessDomain[part.AccessibilityRisk], "part_summary.accessibility_risk", part.AccessibilityRisk)

	return errs
}

// #endregion
