package power

// Modeled draw per building category and tier, MW at full load.
// Negative means the building generates while "consuming" (ray
// receivers); zero means externally powered.
var buildingPowerTable = map[string]map[string]float64{
	"smelter":           {"mk1": 0.36, "mk2": 0.72},
	"assembler":         {"mk1": 0.27, "mk2": 0.54, "mk3": 1.08},
	"chemical":          {"mk1": 0.72, "mk2": 1.44},
	"refinery":          {"mk1": 0.96, "mk2": 1.92},
	"particle":          {"mk1": 12.0, "mk2": 24.0},
	"lab":               {"mk1": 0.48, "mk2": 0.96},
	"mining":            {"mk1": 0.42, "mk2": 0.84, "mk3": 1.68},
	"oil_extractor":     {"mk1": 0.84, "mk2": 1.68},
	"fractionator":      {"mk1": 0.72},
	"orbital_collector": {"mk1": 0},
	"ray_receiver":      {"mk1": -15.0},
}

// defaultBuildingPowerMW is used when a building category has no mk2
// entry in the table (or is not in the table at all). Snapshots do not
// carry the tier, so the mid tier is the modeling assumption.
const defaultBuildingPowerMW = 0.5

// buildingPower returns the modeled per-building draw for a category.
func buildingPower(building string) float64 {
	tiers, ok := buildingPowerTable[building]
	if !ok {
		return defaultBuildingPowerMW
	}
	if v, ok := tiers["mk2"]; ok {
		return v
	}
	return defaultBuildingPowerMW
}
