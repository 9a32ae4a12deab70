package skills

import (
	"fmt"
	"log/slog"

	"github.com/kmacleod/sitrep/intel"
	"github.com/kmacleod/sitrep/model"
)

// Commander is the command surface a skill needs. *ipc.Client satisfies it.
type Commander interface {
	Produce(queue, item string, count int) error
	PlaceBuilding(queue, item string) error
	MoveUnits(actorIDs []string, to model.Location, attackMove bool) error
	SetRally(actorIDs []string, to model.Location) error
	Deploy(actorID string) error
	CanProduce(name string) (bool, error)
	UnexploredNearby(info *model.MapInfo, origin model.Location, maxDistance int) ([]model.Location, error)
}

// rallyBuildings are the production structures whose rally point
// RallyProductionTo adjusts.
var rallyBuildings = map[string]bool{
	"barracks":    true,
	"war_factory": true,
	"airfield":    true,
}

// supportUnits never fight and never scout on purpose; DefendBase leaves
// them at home.
var supportUnits = map[string]bool{
	"harvester": true,
	"engineer":  true,
	"mcv":       true,
}

// scoutPriority orders unit types by how expendable and fast they are.
// Anything off the list scouts last.
var scoutPriority = []string{"rifleman", "attack_dog", "engineer", "rocket_soldier"}

// openingBuildings is the build order OpeningEconomy drives through after
// the MCV deploys.
var openingBuildings = []string{"power_plant", "refinery", "war_factory"}

// queueByCategory routes a unit category to the production queue that
// builds it.
var queueByCategory = map[string]string{
	intel.CategoryBuilding:  model.QueueBuilding,
	intel.CategoryDefense:   model.QueueDefense,
	intel.CategoryInfantry:  model.QueueInfantry,
	intel.CategoryVehicle:   model.QueueVehicle,
	intel.CategoryHarvester: model.QueueVehicle,
	intel.CategoryMCV:       model.QueueVehicle,
	intel.CategoryAir:       model.QueueAircraft,
}

// Kit bundles the macro skills the commander can invoke. Skills read game
// state through the intel service and act through the command surface.
// They never panic; a failed query fails the skill with a reason.
type Kit struct {
	cmd     Commander
	service *intel.Service
	logger  *slog.Logger
}

func NewKit(cmd Commander, service *intel.Service, logger *slog.Logger) *Kit {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kit{cmd: cmd, service: service, logger: logger}
}

// OpeningEconomy deploys the MCV and queues the opening build order. Each
// building is probed before production so a missing prerequisite fails the
// skill instead of silently stalling the queue.
func (k *Kit) OpeningEconomy() Result {
	actions := []map[string]any{}

	snap := k.service.Snapshot(true)
	if mcvID, ok := findMCV(snap.MyActors); ok {
		if err := k.cmd.Deploy(mcvID); err != nil {
			return Fail(fmt.Sprintf("deploy mcv: %v", err),
				withActions(actions), withReplan(false))
		}
		actions = append(actions, map[string]any{"step": "deploy_mcv", "actor": mcvID})
	}

	for _, building := range openingBuildings {
		res, done := k.ensureBuilding(building, &actions)
		if done {
			return res
		}
	}
	return Success("opening economy queued", withActions(actions))
}

// EnsureBuildings probes and queues each named building in order, stopping
// at the first one that cannot be built.
func (k *Kit) EnsureBuildings(buildings []string) Result {
	actions := []map[string]any{}
	for _, building := range buildings {
		res, done := k.ensureBuilding(intel.NormalizeName(building), &actions)
		if done {
			return res
		}
	}
	return Success("buildings queued", withActions(actions))
}

// ensureBuilding probes one building and queues it. The bool result is true
// when the caller should stop and return the Result.
func (k *Kit) ensureBuilding(name string, actions *[]map[string]any) (Result, bool) {
	ok, err := k.cmd.CanProduce(name)
	if err != nil {
		return Fail(fmt.Sprintf("probe %s: %v", name, err),
			withActions(*actions), withReplan(false)), true
	}
	*actions = append(*actions, map[string]any{"step": "ensure_building", "name": name, "ok": ok})
	if !ok {
		return Fail(fmt.Sprintf("cannot build %s", name),
			withActions(*actions),
			withObservations(map[string]any{"missing": name})), true
	}

	queue := model.QueueBuilding
	if intel.Categorize(name) == intel.CategoryDefense {
		queue = model.QueueDefense
	}
	if err := k.cmd.Produce(queue, name, 1); err != nil {
		return Fail(fmt.Sprintf("queue %s: %v", name, err),
			withActions(*actions), withReplan(false)), true
	}
	return Result{}, false
}

// ProduceUnits queues the requested unit counts. A unit whose prerequisite
// is missing fails the whole skill so the commander can re-plan the tech
// path.
func (k *Kit) ProduceUnits(units map[string]int, order []string) Result {
	actions := []map[string]any{}
	for _, raw := range order {
		count := units[raw]
		if count <= 0 {
			continue
		}
		name := intel.NormalizeName(raw)

		ok, err := k.cmd.CanProduce(name)
		if err != nil {
			return Fail(fmt.Sprintf("probe %s: %v", name, err),
				withActions(actions), withReplan(false))
		}
		if !ok {
			return Fail(fmt.Sprintf("cannot produce %s", name),
				withActions(actions),
				withObservations(map[string]any{"missing_prereq": name}))
		}

		queue, ok := queueByCategory[intel.Categorize(name)]
		if !ok {
			queue = model.QueueInfantry
		}
		if err := k.cmd.Produce(queue, name, count); err != nil {
			return Fail(fmt.Sprintf("queue %s: %v", name, err),
				withActions(actions), withReplan(false))
		}
		actions = append(actions, map[string]any{"unit": name, "count": count, "queue": queue})
	}
	return Success("units queued", withActions(actions))
}

// ScoutUnexplored sends up to maxScouts cheap units toward the nearest
// unexplored cells around the base.
func (k *Kit) ScoutUnexplored(maxScouts, radius int) Result {
	if maxScouts <= 0 {
		maxScouts = 1
	}
	if radius <= 0 {
		radius = 30
	}

	snap := k.service.Snapshot(true)
	info := k.service.MapInfo(false)
	if info == nil {
		return Fail("no map info", withReplan(false))
	}

	scouts := selectScouts(snap.MyActors, maxScouts)
	if len(scouts) == 0 {
		return Fail("no scout unit available")
	}

	center := k.service.BaseCenter(snap)
	targets, err := k.cmd.UnexploredNearby(info, center, radius)
	if err != nil {
		return Fail(fmt.Sprintf("scout targets: %v", err), withReplan(false))
	}
	if len(targets) == 0 {
		return Success("nearby map fully explored")
	}

	actions := []map[string]any{}
	for i, scout := range scouts {
		if i >= len(targets) {
			break
		}
		target := targets[i]
		err := k.cmd.MoveUnits([]string{scout.ID}, target, false)
		if err != nil {
			k.logger.Warn("scout move failed", "actor", scout.ID, "error", err)
		}
		actions = append(actions, map[string]any{
			"unit": scout.ID, "type": scout.Type,
			"target": map[string]int{"x": target.X, "y": target.Y},
			"ok":     err == nil,
		})
	}
	return Success("scouts dispatched", withActions(actions))
}

// DefendBase attack-moves every combat unit onto the top threat near the
// base. No threat in the intel picture is a success, not a failure.
func (k *Kit) DefendBase() Result {
	report := k.service.Intel(true)
	threats := report.Forces.Enemy.Threats
	if len(threats) == 0 {
		return Success("no threats near base", withMessage("no threats near base"))
	}
	top := threats[0]

	snap := k.service.Snapshot(false)
	defenders := selectCombatants(snap.MyActors)
	if len(defenders) == 0 {
		return Fail("no combat units available")
	}

	if err := k.cmd.MoveUnits(defenders, top.Pos, true); err != nil {
		return Fail(fmt.Sprintf("dispatch defenders: %v", err), withReplan(false))
	}

	msg := fmt.Sprintf("%d units defending, threat %d cells from base", len(defenders), top.Distance)
	return Success("defenders dispatched",
		withActions([]map[string]any{{
			"target":    map[string]int{"x": top.Pos.X, "y": top.Pos.Y},
			"defenders": len(defenders),
		}}),
		withMessage(msg))
}

// RallyProductionTo points every production building's rally at pos.
func (k *Kit) RallyProductionTo(pos model.Location) Result {
	snap := k.service.Snapshot(true)

	var ids []string
	for _, a := range snap.MyActors {
		view := intel.NewActorView(a)
		if rallyBuildings[view.Type] {
			ids = append(ids, view.ID)
		}
	}
	if len(ids) == 0 {
		return Fail("no production building for rally point")
	}

	if err := k.cmd.SetRally(ids, pos); err != nil {
		return Fail(fmt.Sprintf("set rally: %v", err), withReplan(false))
	}
	return Success("rally point updated",
		withActions([]map[string]any{{
			"buildings": len(ids),
			"pos":       map[string]int{"x": pos.X, "y": pos.Y},
		}}))
}

func findMCV(actors []model.Actor) (string, bool) {
	for _, a := range actors {
		view := intel.NewActorView(a)
		if view.Type == "mcv" {
			return view.ID, true
		}
	}
	return "", false
}

// selectScouts picks up to max units, cheapest and fastest first per
// scoutPriority. Order among equal-priority units follows the snapshot.
func selectScouts(actors []model.Actor, max int) []intel.ActorView {
	ranked := make([]intel.ActorView, 0, len(actors))
	for _, a := range actors {
		view := intel.NewActorView(a)
		cat := intel.Categorize(view.Type)
		if cat == intel.CategoryBuilding || cat == intel.CategoryDefense {
			continue
		}
		ranked = append(ranked, view)
	}

	// Stable selection sort keeps snapshot order within a priority band.
	picked := make([]intel.ActorView, 0, max)
	for rank := 0; rank <= len(scoutPriority) && len(picked) < max; rank++ {
		for _, view := range ranked {
			if len(picked) >= max {
				break
			}
			if scoutRank(view.Type) == rank {
				picked = append(picked, view)
			}
		}
	}
	return picked
}

func scoutRank(unitType string) int {
	for i, name := range scoutPriority {
		if name == unitType {
			return i
		}
	}
	return len(scoutPriority)
}

// selectCombatants returns the ids of every own unit that can fight:
// mobile, not a support unit.
func selectCombatants(actors []model.Actor) []string {
	var ids []string
	for _, a := range actors {
		view := intel.NewActorView(a)
		if view.Type == intel.UnknownType || supportUnits[view.Type] {
			continue
		}
		cat := intel.Categorize(view.Type)
		if cat == intel.CategoryBuilding || cat == intel.CategoryDefense {
			continue
		}
		ids = append(ids, view.ID)
	}
	return ids
}
