package rules

import (
	"fmt"
	"sort"

	"github.com/kmacleod/sitrep/intel"
	"github.com/kmacleod/sitrep/model"
	"github.com/kmacleod/sitrep/skills"
)

// SkillFunc invokes one macro skill with the rule's arguments.
type SkillFunc func(kit *skills.Kit, env Env, args map[string]any) skills.Result

// skillRegistry resolves the skill names a doctrine may reference.
var skillRegistry = map[string]SkillFunc{
	"opening_economy":  runOpeningEconomy,
	"ensure_buildings": runEnsureBuildings,
	"produce_units":    runProduceUnits,
	"scout_unexplored": runScoutUnexplored,
	"defend_base":      runDefendBase,
	"rally_production": runRallyProduction,
}

// KnownSkill reports whether a doctrine skill name resolves.
func KnownSkill(name string) bool {
	_, ok := skillRegistry[name]
	return ok
}

func runOpeningEconomy(kit *skills.Kit, env Env, args map[string]any) skills.Result {
	return kit.OpeningEconomy()
}

func runEnsureBuildings(kit *skills.Kit, env Env, args map[string]any) skills.Result {
	buildings := stringList(args["buildings"])
	if len(buildings) == 0 {
		// Default to the next tech gap the intel layer reports.
		if missing := env.NextMissing(); missing != "" {
			buildings = []string{missing}
		}
	}
	if len(buildings) == 0 {
		return skills.Success("nothing to build")
	}
	return kit.EnsureBuildings(buildings)
}

func runProduceUnits(kit *skills.Kit, env Env, args map[string]any) skills.Result {
	order := stringList(args["order"])
	units := map[string]int{}
	if raw, ok := args["units"].(map[string]any); ok {
		for name, v := range raw {
			units[name] = intArg(v, 0)
		}
	}
	if len(order) == 0 {
		// No explicit order given; sort so production is stable tick to tick.
		for name := range units {
			order = append(order, name)
		}
		sort.Strings(order)
	}
	if len(units) == 0 {
		return skills.Fail("produce_units rule has no units argument")
	}
	return kit.ProduceUnits(units, order)
}

func runScoutUnexplored(kit *skills.Kit, env Env, args map[string]any) skills.Result {
	maxScouts := intArg(args["max_scouts"], 1)
	radius := intArg(args["radius"], 30)
	return kit.ScoutUnexplored(maxScouts, radius)
}

func runDefendBase(kit *skills.Kit, env Env, args map[string]any) skills.Result {
	return kit.DefendBase()
}

func runRallyProduction(kit *skills.Kit, env Env, args map[string]any) skills.Result {
	x, xok := args["x"]
	y, yok := args["y"]
	if xok && yok {
		return kit.RallyProductionTo(model.Location{X: intArg(x, 0), Y: intArg(y, 0)})
	}
	// Without explicit coordinates, rally toward the nearest resource so
	// fresh units gather on the economy's doorstep.
	if pos := env.Brief.Map.NearestResource; pos != nil {
		return kit.RallyProductionTo(*pos)
	}
	return skills.Fail("no rally target")
}

// stringList coerces a YAML sequence into []string, normalizing names on
// the way through.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, intel.NormalizeName(s))
		}
	}
	return out
}

// intArg coerces the numeric types YAML decoding can produce.
func intArg(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}

// describe renders a result for the fired-rule log line.
func describe(res skills.Result) string {
	if res.OK {
		return fmt.Sprintf("ok: %s", res.Reason)
	}
	return fmt.Sprintf("failed: %s (replan=%v)", res.Reason, res.NeedReplan)
}
