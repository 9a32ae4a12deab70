package intel

import "strings"

// UnknownType is the canonical name for anything the table cannot resolve.
const UnknownType = "unknown"

// nameAliases maps raw type strings from the query server to canonical
// names. Two vocabularies show up on the wire: the OpenRA rule codes
// ("proc", "weap", "harv") and the copilot server's display names when it
// runs in zh mode. Everything downstream branches on the canonical name.
var nameAliases = map[string]string{
	// Buildings — rule codes.
	"fact": "construction_yard",
	"powr": "power_plant",
	"apwr": "advanced_power_plant",
	"proc": "refinery",
	"silo": "silo",
	"tent": "barracks",
	"barr": "barracks",
	"weap": "war_factory",
	"dome": "radar",
	"atek": "tech_center", // Allied
	"stek": "tech_center", // Soviet
	"afld": "airfield",
	"hpad": "helipad",
	"fix":  "repair_depot",

	// Defenses.
	"pbox": "pillbox",
	"hbox": "pillbox",
	"gun":  "gun_turret",
	"ftur": "flame_tower",
	"tsla": "tesla_coil",
	"agun": "aa_gun",
	"sam":  "sam_site",

	// Infantry.
	"e1":   "rifleman",
	"e3":   "rocket_soldier",
	"e4":   "flamethrower",
	"e6":   "engineer",
	"dog":  "attack_dog",
	"medi": "medic",
	"shok": "shock_trooper",

	// Vehicles.
	"harv": "harvester",
	"mcv":  "mcv",
	"apc":  "apc",
	"jeep": "jeep",
	"ftrk": "flak_truck",
	"arty": "artillery",
	"v2rl": "v2_launcher",
	"1tnk": "light_tank",
	"2tnk": "medium_tank",
	"3tnk": "heavy_tank",
	"4tnk": "mammoth_tank",

	// Aircraft.
	"yak":  "yak",
	"mig":  "mig",
	"heli": "hind",
	"mh60": "longbow",
	"tran": "chinook",

	// zh display names used by the copilot query server.
	"基地车":  "mcv",
	"建造厂":  "construction_yard",
	"电厂":   "power_plant",
	"核电":   "advanced_power_plant",
	"矿场":   "refinery",
	"兵营":   "barracks",
	"车间":   "war_factory",
	"雷达":   "radar",
	"科技中心": "tech_center",
	"机场":   "airfield",
	"维修中心": "repair_depot",
	"矿车":   "harvester",
	"步兵":   "rifleman",
	"火箭兵":  "rocket_soldier",
	"工程师":  "engineer",
	"狗":    "attack_dog",
	"防空车":  "flak_truck",
	"装甲车":  "apc",
	"重坦":   "heavy_tank",
	"v2":   "v2_launcher",
	"猛犸坦克": "mammoth_tank",
}

// NormalizeName resolves a raw type string to its canonical name. Faction
// variants carry a dot suffix ("fact.england") which is stripped before the
// alias lookup. Unmapped names pass through cleaned so unknown-but-consistent
// types still bucket together.
func NormalizeName(raw string) string {
	if raw == "" {
		return UnknownType
	}
	name := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		return UnknownType
	}
	if canonical, ok := nameAliases[name]; ok {
		return canonical
	}
	return name
}

// buildingSuffixes mark type names that read like structures even when the
// table has never seen them. Both wire vocabularies are covered.
var buildingSuffixes = []string{"厂", "站", "中心", "_plant", "_factory", "_center", "_yard", "_depot"}

// looksLikeBuilding reports whether an unclassified canonical name carries a
// building-like suffix.
func looksLikeBuilding(canonical string) bool {
	for _, suffix := range buildingSuffixes {
		if strings.HasSuffix(canonical, suffix) {
			return true
		}
	}
	return false
}
