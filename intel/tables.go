package intel

// Category buckets a canonical type for force accounting.
const (
	CategoryBuilding  = "building"
	CategoryDefense   = "defense"
	CategoryInfantry  = "infantry"
	CategoryVehicle   = "vehicle"
	CategoryAir       = "air"
	CategoryHarvester = "harvester"
	CategoryMCV       = "mcv"
	CategorySupport   = "support"
	CategoryUnknown   = "unknown"
)

// unitCategories is the static canonical-name → category table. Polymorphism
// over unit type is expressed as data, not type hierarchies.
var unitCategories = map[string]string{
	"construction_yard":    CategoryBuilding,
	"power_plant":          CategoryBuilding,
	"advanced_power_plant": CategoryBuilding,
	"refinery":             CategoryBuilding,
	"silo":                 CategoryBuilding,
	"barracks":             CategoryBuilding,
	"war_factory":          CategoryBuilding,
	"radar":                CategoryBuilding,
	"tech_center":          CategoryBuilding,
	"airfield":             CategoryBuilding,
	"helipad":              CategoryBuilding,
	"repair_depot":         CategoryBuilding,

	"pillbox":     CategoryDefense,
	"gun_turret":  CategoryDefense,
	"flame_tower": CategoryDefense,
	"tesla_coil":  CategoryDefense,
	"aa_gun":      CategoryDefense,
	"sam_site":    CategoryDefense,

	"rifleman":       CategoryInfantry,
	"rocket_soldier": CategoryInfantry,
	"flamethrower":   CategoryInfantry,
	"shock_trooper":  CategoryInfantry,
	"attack_dog":     CategoryInfantry,

	"engineer": CategorySupport,
	"medic":    CategorySupport,

	"apc":          CategoryVehicle,
	"jeep":         CategoryVehicle,
	"flak_truck":   CategoryVehicle,
	"artillery":    CategoryVehicle,
	"v2_launcher":  CategoryVehicle,
	"light_tank":   CategoryVehicle,
	"medium_tank":  CategoryVehicle,
	"heavy_tank":   CategoryVehicle,
	"mammoth_tank": CategoryVehicle,

	"yak":     CategoryAir,
	"mig":     CategoryAir,
	"hind":    CategoryAir,
	"longbow": CategoryAir,
	"chinook": CategoryAir,

	"harvester": CategoryHarvester,
	"mcv":       CategoryMCV,
}

// defaultUnitValue is the weight assumed for any type missing from
// unitValues.
const defaultUnitValue = 10.0

// unitValues weights each canonical type for army-value, threat and
// opportunity scoring. These are coarse heuristics, not balance data.
var unitValues = map[string]float64{
	"rifleman":       10,
	"rocket_soldier": 15,
	"flamethrower":   14,
	"shock_trooper":  25,
	"attack_dog":     7,
	"engineer":       8,
	"medic":          9,

	"apc":          30,
	"jeep":         25,
	"flak_truck":   35,
	"artillery":    55,
	"v2_launcher":  70,
	"light_tank":   45,
	"medium_tank":  60,
	"heavy_tank":   90,
	"mammoth_tank": 120,
	"harvester":    60,
	"mcv":          100,

	"yak":     55,
	"mig":     75,
	"hind":    70,
	"longbow": 85,
	"chinook": 40,

	"pillbox":     30,
	"gun_turret":  35,
	"flame_tower": 35,
	"tesla_coil":  80,
	"aa_gun":      40,
	"sam_site":    45,

	"construction_yard":    200,
	"power_plant":          45,
	"advanced_power_plant": 70,
	"refinery":             140,
	"silo":                 20,
	"barracks":             50,
	"war_factory":          130,
	"radar":                80,
	"tech_center":          150,
	"airfield":             90,
	"helipad":              60,
	"repair_depot":         60,
}

// highValueTargets are the enemy types worth raiding: economy and tech
// rather than line units.
var highValueTargets = map[string]bool{
	"mcv":               true,
	"harvester":         true,
	"construction_yard": true,
	"refinery":          true,
	"war_factory":       true,
	"radar":             true,
	"tech_center":       true,
	"airfield":          true,
	"v2_launcher":       true,
	"mammoth_tank":      true,
}

// antiAirCapable marks mobile units that can shoot up; static anti-air is
// covered by the defense category.
var antiAirCapable = map[string]bool{
	"flak_truck":     true,
	"rocket_soldier": true,
	"aa_gun":         true,
	"sam_site":       true,
}

// Tech probe lists, in dependency order. A probe failure aborts the rest of
// its list for the cycle.
var (
	techProbeBuildings = []string{"power_plant", "refinery", "war_factory", "radar", "tech_center", "airfield"}
	techProbeUnits     = []string{"rifleman", "harvester", "flak_truck", "apc", "heavy_tank", "v2_launcher", "mammoth_tank"}
)

// keyBuildings are tracked for the tech-tier estimate, in tier order.
var keyBuildings = []string{"barracks", "war_factory", "radar", "tech_center", "airfield", "repair_depot"}

// Categorize resolves a canonical type to its category.
func Categorize(canonical string) string {
	if canonical == "" {
		return CategoryUnknown
	}
	if c, ok := unitCategories[canonical]; ok {
		return c
	}
	return CategoryUnknown
}

// unitValue resolves a canonical type to its value weight.
func unitValue(canonical string) float64 {
	if v, ok := unitValues[canonical]; ok {
		return v
	}
	return defaultUnitValue
}

// isKnownBuilding and isKnownUnit report table membership for snapshot
// bucketing.
func isKnownBuilding(canonical string) bool {
	c := unitCategories[canonical]
	return c == CategoryBuilding || c == CategoryDefense
}

func isKnownUnit(canonical string) bool {
	switch unitCategories[canonical] {
	case CategoryInfantry, CategoryVehicle, CategoryAir, CategoryHarvester, CategorySupport, CategoryMCV:
		return true
	}
	return false
}
