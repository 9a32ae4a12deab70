package intel

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kmacleod/sitrep/model"
)

// Querier is the remote game query boundary. Every method may fail
// independently; the engine treats each failure as a recoverable loss of
// that one data source.
type Querier interface {
	OwnActors() ([]model.Actor, error)
	EnemyActors() ([]model.Actor, error)
	BaseInfo() (*model.BaseInfo, error)
	MapInfo() (*model.MapInfo, error)
	ProductionQueue(kind string) (*model.QueueSnapshot, error)
	UnitAttributes(actors []model.Actor) (*model.UnitAttributes, error)
	CanProduce(name string) (bool, error)
	UnexploredNearby(info *model.MapInfo, origin model.Location, maxDistance int) ([]model.Location, error)
}

// Alert strings raised by the engine. Exported so downstream rule conditions
// can match on them.
const (
	AlertPowerDeficit = "power deficit"
	AlertNoRefinery   = "no refinery built"
	AlertNoMiners     = "no miners in the field"
	AlertNoBarracks   = "no barracks, cannot train infantry"
	AlertAntiAirGap   = "anti-air coverage insufficient"
	AlertArmyBehind   = "army value behind enemy"
	AlertScoutStalled = "scouting stalled"

	alertQueueBlockedPrefix = "production queue blocked: "
)

// TTLs are the per-source cache lifetimes. A cache entry fetched at T is
// valid while now-T <= ttl; the boundary is inclusive.
type TTLs struct {
	Snapshot   time.Duration
	Intel      time.Duration
	Map        time.Duration
	Queues     time.Duration
	Attributes time.Duration
}

// DefaultTTLs returns the stock lifetimes: intel/snapshot well inside the
// natural drift of their inputs.
func DefaultTTLs() TTLs {
	return TTLs{
		Snapshot:   250 * time.Millisecond,
		Intel:      250 * time.Millisecond,
		Map:        800 * time.Millisecond,
		Queues:     1500 * time.Millisecond,
		Attributes: 2 * time.Second,
	}
}

const attributeBatchLimit = 15

// Service is the intel aggregation engine: it polls the query boundary at
// per-source refresh rates, normalizes the results and assembles the intel
// model. A single mutex serializes callers; the engine itself never spawns
// background work.
type Service struct {
	mu   sync.Mutex
	q    Querier
	ttls TTLs

	snapCache  slot[Snapshot]
	intelCache slot[*Model]
	mem        *Memory

	now func() time.Time
}

// NewService builds an engine over the given query boundary. Zero TTL fields
// fall back to the defaults.
func NewService(q Querier, ttls TTLs) *Service {
	def := DefaultTTLs()
	if ttls.Snapshot <= 0 {
		ttls.Snapshot = def.Snapshot
	}
	if ttls.Intel <= 0 {
		ttls.Intel = def.Intel
	}
	if ttls.Map <= 0 {
		ttls.Map = def.Map
	}
	if ttls.Queues <= 0 {
		ttls.Queues = def.Queues
	}
	if ttls.Attributes <= 0 {
		ttls.Attributes = def.Attributes
	}
	return &Service{
		q:    q,
		ttls: ttls,
		mem:  NewMemory(),
		now:  time.Now,
	}
}

// Snapshot returns the cached actor/economy snapshot, refetching when the
// cache is expired or force is set.
func (s *Service) Snapshot(force bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(force)
}

// MapInfo returns the cached map query result, refetching under the map TTL.
// A failed fetch returns nil and leaves the cache untouched.
func (s *Service) MapInfo(force bool) *model.MapInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapInfoLocked(force)
}

// Intel returns the aggregated intel model, rebuilt when the intel cache is
// expired or force is set. The model is always complete: every failed source
// degrades to an empty section rather than aborting the build.
func (s *Service) Intel(force bool) *Model {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !force {
		if m, ok := s.intelCache.get(s.now(), s.ttls.Intel); ok {
			return m
		}
	}

	snap := s.snapshotLocked(force)
	info := s.mapInfoLocked(false)
	queues := s.queuesLocked()
	attrs := s.attributesLocked(snap.MyActors)

	m := s.buildIntel(snap, info, queues, attrs)
	s.intelCache.put(m, s.now())
	return m
}

// BaseCenter estimates the own base position: centroid of own buildings,
// falling back to the first own actor, then the origin. Deterministic for a
// given snapshot.
func (s *Service) BaseCenter(snap Snapshot) model.Location {
	var buildings []model.Location
	for _, a := range snap.MyActors {
		v := NewActorView(a)
		if isKnownBuilding(v.Type) && v.PosKnown {
			buildings = append(buildings, v.Pos)
		}
	}
	if len(buildings) > 0 {
		sumX, sumY := 0, 0
		for _, p := range buildings {
			sumX += p.X
			sumY += p.Y
		}
		return model.Location{X: sumX / len(buildings), Y: sumY / len(buildings)}
	}
	if len(snap.MyActors) > 0 {
		first := NewActorView(snap.MyActors[0])
		if first.PosKnown {
			return first.Pos
		}
	}
	return model.Location{}
}

func (s *Service) snapshotLocked(force bool) Snapshot {
	if !force {
		if snap, ok := s.snapCache.get(s.now(), s.ttls.Snapshot); ok {
			return snap
		}
	}

	snap := s.fetchSnapshot()
	s.snapCache.put(snap, s.now())
	s.mem.prevSnapshotTime = s.mem.lastSnapshotTime
	s.mem.lastSnapshotTime = snap.T
	return snap
}

// fetchSnapshot performs the three independent snapshot queries. Each one is
// fault-isolated: a failure degrades its field and the rest proceed. Own
// actor failures cost the most intel, so only they log at warning.
func (s *Service) fetchSnapshot() Snapshot {
	snap := Snapshot{T: s.now()}

	mine, err := s.q.OwnActors()
	if err != nil {
		slog.Warn("own actor query failed", "error", err)
	} else {
		snap.MyActors = mine
	}

	enemies, err := s.q.EnemyActors()
	if err != nil {
		slog.Info("enemy actor query failed", "error", err)
	} else {
		snap.EnemyActors = enemies
	}

	base, err := s.q.BaseInfo()
	if err != nil {
		slog.Info("base info query failed", "error", err)
	} else {
		snap.BaseInfo = base
	}

	return snap
}

func (s *Service) mapInfoLocked(force bool) *model.MapInfo {
	if !force {
		if info, ok := s.mem.mapCache.get(s.now(), s.ttls.Map); ok {
			return info
		}
	}
	info, err := s.q.MapInfo()
	if err != nil {
		slog.Info("map query failed", "error", err)
		return nil
	}
	s.mem.mapCache.put(info, s.now())
	return info
}

// queuesLocked fetches each production queue kind under its own cache entry.
// A failed kind stays absent for this build and its cache entry is left
// alone.
func (s *Service) queuesLocked() map[string]QueueState {
	queues := make(map[string]QueueState, len(model.QueueKinds))
	for _, kind := range model.QueueKinds {
		cache := s.mem.queueCache(kind)
		if state, ok := cache.get(s.now(), s.ttls.Queues); ok {
			queues[kind] = state
			continue
		}
		raw, err := s.q.ProductionQueue(kind)
		if err != nil {
			slog.Info("production queue query failed", "kind", kind, "error", err)
			continue
		}
		state := simplifyQueue(kind, raw)
		queues[kind] = state
		cache.put(state, s.now())
	}
	return queues
}

func simplifyQueue(kind string, raw *model.QueueSnapshot) QueueState {
	state := QueueState{Kind: kind, Items: []QueueItem{}}
	if raw == nil {
		return state
	}
	if raw.QueueType != "" {
		state.Kind = raw.QueueType
	}
	for _, item := range raw.Items {
		state.Items = append(state.Items, QueueItem{
			Name:          item.Name,
			DisplayName:   item.DisplayName,
			Progress:      item.Progress,
			Status:        item.Status,
			Paused:        item.Paused,
			OwnerActorID:  item.OwnerActorID,
			RemainingTime: item.RemainingTime,
			TotalTime:     item.TotalTime,
			Done:          item.Done,
		})
	}
	state.HasReadyItem = raw.HasReadyItem
	state.BlockedReason = detectQueueBlock(state.Kind, raw)
	return state
}

// detectQueueBlock classifies why a queue is stuck. "Ready but not placed"
// only applies to queues whose product needs placement.
func detectQueueBlock(kind string, raw *model.QueueSnapshot) BlockReason {
	if raw == nil {
		return BlockNone
	}
	placeable := kind == model.QueueBuilding || kind == model.QueueDefense
	if raw.HasReadyItem && placeable {
		return BlockReadyNotPlaced
	}
	if len(raw.Items) == 0 {
		return BlockNone
	}
	if raw.Items[0].Done && placeable {
		return BlockReadyNotPlaced
	}
	allPaused := true
	for _, item := range raw.Items {
		if !item.Paused {
			allPaused = false
			break
		}
	}
	if allPaused {
		return BlockPaused
	}
	return BlockNone
}

// attributesLocked fetches combat attributes for up to the first 15 own
// actors. The cache is keyed by the id set, so a selection change
// invalidates it even before the TTL runs out.
func (s *Service) attributesLocked(actors []model.Actor) *model.UnitAttributes {
	if len(actors) == 0 {
		return &model.UnitAttributes{}
	}
	limited := actors
	if len(limited) > attributeBatchLimit {
		limited = limited[:attributeBatchLimit]
	}
	key := attributeKey(limited)

	if attrs, ok := s.mem.attrsCache.get(s.now(), s.ttls.Attributes); ok && s.mem.attrsKey == key {
		return attrs
	}

	attrs, err := s.q.UnitAttributes(limited)
	if err != nil {
		slog.Info("unit attribute query failed", "error", err)
		return &model.UnitAttributes{}
	}
	if attrs == nil {
		attrs = &model.UnitAttributes{}
	}
	s.mem.attrsCache.put(attrs, s.now())
	s.mem.attrsKey = key
	return attrs
}

func attributeKey(actors []model.Actor) string {
	ids := make([]string, 0, len(actors))
	for _, a := range actors {
		id := a.ActorID
		if id == "" {
			id = a.LegacyID
		}
		ids = append(ids, id)
	}
	return strings.Join(ids, ",")
}

// actorSummary buckets a normalized actor list into building/unit/unknown
// counts.
type actorSummary struct {
	total     int
	buildings map[string]int
	units     map[string]int
	unknown   int
}

func summarizeActors(views []ActorView) actorSummary {
	sum := actorSummary{
		total:     len(views),
		buildings: make(map[string]int),
		units:     make(map[string]int),
	}
	for _, v := range views {
		switch {
		case isKnownBuilding(v.Type) || looksLikeBuilding(v.Type):
			sum.buildings[v.Type]++
		case isKnownUnit(v.Type):
			sum.units[v.Type]++
		default:
			sum.unknown++
		}
	}
	return sum
}

// buildIntel assembles the full intel model. Every step is pure given its
// inputs except the explicit memory updates (enemy last-seen, resource and
// explored-ratio samples).
func (s *Service) buildIntel(snap Snapshot, info *model.MapInfo, queues map[string]QueueState, attrs *model.UnitAttributes) *Model {
	myViews := newActorViews(snap.MyActors)
	enemyViews := newActorViews(snap.EnemyActors)
	baseCenter := s.BaseCenter(snap)

	mySum := summarizeActors(myViews)
	enemySum := summarizeActors(enemyViews)

	threats := computeThreats(enemyViews, baseCenter)

	mapControl, exploredRatio := s.summarizeMap(info, baseCenter)
	economy := s.summarizeEconomy(snap.BaseInfo, mySum, mapControl.Resources, queues)
	tech := s.summarizeTech(mySum)

	forces := Forces{
		My:    buildForceSummary(myViews, mySum),
		Enemy: buildForceSummary(enemyViews, enemySum),
	}
	forces.Enemy.Threats = threats
	forces.Enemy.LastSeen = s.updateEnemyMemory(enemyViews)

	battle := buildBattle(threats, enemyViews, attrs)
	opportunities := buildOpportunities(enemyViews, baseCenter, forces.My.Centroid)
	alerts, scoutStalled := s.buildAlerts(economy, mySum, forces, queues, exploredRatio)
	meta := s.buildMeta(snap, exploredRatio, scoutStalled)

	return &Model{
		Meta:          meta,
		Economy:       economy,
		Tech:          tech,
		Forces:        forces,
		Battle:        battle,
		Opportunities: opportunities,
		MapControl:    mapControl,
		Alerts:        alerts,
		Legacy:        Legacy{Match: map[string]any{}},
	}
}

func (s *Service) summarizeMap(info *model.MapInfo, baseCenter model.Location) (MapControl, *float64) {
	mc := MapControl{
		NearbyUnexplored: []model.Location{},
		FrontierPoints:   []model.Location{},
	}
	if info == nil {
		return mc, nil
	}

	grid := model.NewGrid(info)
	mc.Size = &Size{Width: info.Width, Height: info.Height}

	var exploredRatio *float64
	if len(info.Explored) > 0 && info.Width > 0 && info.Height > 0 {
		explored := 0
		for _, line := range info.Explored {
			for _, cell := range line {
				if cell {
					explored++
				}
			}
		}
		ratio := float64(explored) / float64(info.Width*info.Height)
		exploredRatio = &ratio
	}
	mc.ExploredRatio = exploredRatio

	unexplored, err := s.q.UnexploredNearby(info, baseCenter, 10)
	if err != nil {
		slog.Info("unexplored query failed", "error", err)
	} else {
		if len(unexplored) > 5 {
			unexplored = unexplored[:5]
		}
		mc.NearbyUnexplored = append(mc.NearbyUnexplored, unexplored...)
	}

	mc.FrontierPoints = computeFrontier(grid, 12)
	mc.FrontierCount = len(mc.FrontierPoints)
	mc.NearbyUnexploredCount = len(mc.NearbyUnexplored)
	mc.Resources = summarizeResources(grid, baseCenter)
	return mc, exploredRatio
}

// computeFrontier collects explored cells with at least one in-bounds
// unexplored orthogonal neighbor. The whole grid is scanned row-major; the
// limit truncates the result, it does not end the scan.
func computeFrontier(grid *model.Grid, limit int) []model.Location {
	frontier := []model.Location{}
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if !grid.Explored(x, y) {
				continue
			}
			neighbors := [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
			for _, n := range neighbors {
				if grid.InBounds(n[0], n[1]) && !grid.Explored(n[0], n[1]) {
					frontier = append(frontier, model.Location{X: x, Y: y})
					break
				}
			}
		}
	}
	if len(frontier) > limit {
		frontier = frontier[:limit]
	}
	return frontier
}

func summarizeResources(grid *model.Grid, baseCenter model.Location) *ResourceSummary {
	var positions []model.Location
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if grid.Resource(x, y) > 0 {
				positions = append(positions, model.Location{X: x, Y: y})
			}
		}
	}
	if len(positions) == 0 {
		return nil
	}

	sumX, sumY := 0, 0
	nearest := positions[0]
	for _, p := range positions {
		sumX += p.X
		sumY += p.Y
		if p.Manhattan(baseCenter) < nearest.Manhattan(baseCenter) {
			nearest = p
		}
	}
	return &ResourceSummary{
		Tiles:         len(positions),
		Centroid:      model.Location{X: sumX / len(positions), Y: sumY / len(positions)},
		NearestToBase: nearest,
	}
}

func (s *Service) summarizeEconomy(base *model.BaseInfo, mySum actorSummary, resources *ResourceSummary, queues map[string]QueueState) Economy {
	eco := Economy{
		Refineries:   mySum.buildings["refinery"],
		PowerPlants:  mySum.buildings["power_plant"] + mySum.buildings["advanced_power_plant"],
		WarFactories: mySum.buildings["war_factory"],
		Miners:       mySum.units["harvester"],
		Queues:       queues,
	}

	var resourcesNow *int
	if base != nil {
		cash := base.Cash
		res := base.Resources
		eco.Cash = &cash
		eco.Resources = &res
		eco.Power = &Power{Surplus: base.Power, Provided: base.PowerProvided, Drained: base.PowerDrained}
		resourcesNow = &res
	}

	now := s.now()
	if s.mem.lastResources != nil && resourcesNow != nil && !s.mem.lastResourceTime.IsZero() {
		dt := now.Sub(s.mem.lastResourceTime).Seconds()
		if dt > 0 {
			rate := float64(*resourcesNow-*s.mem.lastResources) / dt
			eco.IncomeRate = &rate
		}
	}
	s.mem.lastResources = resourcesNow
	s.mem.lastResourceTime = now

	eco.Harvest = Harvest{Miners: eco.Miners}
	if resources != nil {
		nearest := resources.NearestToBase
		eco.Harvest.NearbyResource = &nearest
	}
	return eco
}

// summarizeTech probes buildability down two fixed lists. A probe error
// stops its list for the cycle: probing cost scales with list length and an
// error means the probe channel itself is unusable right now. Partial
// results are returned as-is.
func (s *Service) summarizeTech(mySum actorSummary) Tech {
	tech := Tech{
		CanBuild:     []string{},
		CanTrain:     []string{},
		KeyBuildings: make(map[string]int, len(keyBuildings)),
	}

	for _, name := range techProbeBuildings {
		ok, err := s.q.CanProduce(name)
		if err != nil {
			slog.Info("build probe aborted", "at", name, "error", err)
			break
		}
		if ok {
			tech.CanBuild = append(tech.CanBuild, name)
		}
	}
	for _, name := range techProbeUnits {
		ok, err := s.q.CanProduce(name)
		if err != nil {
			slog.Info("train probe aborted", "at", name, "error", err)
			break
		}
		if ok {
			tech.CanTrain = append(tech.CanTrain, name)
		}
	}

	for _, name := range keyBuildings {
		tech.KeyBuildings[name] = mySum.buildings[name]
	}

	// Tier steps are assigned in list order and are deliberately independent
	// of each other: a radar grants tier 3 with or without the earlier
	// buildings. Later steps never lower the tier.
	tier := 0
	if tech.KeyBuildings["barracks"] > 0 {
		tier = 1
	}
	if tech.KeyBuildings["war_factory"] > 0 {
		tier = 2
	}
	if tech.KeyBuildings["radar"] > 0 {
		tier = 3
	}
	if tech.KeyBuildings["tech_center"] > 0 {
		tier = 4
	}
	if tech.KeyBuildings["airfield"] > 0 && tier < 4 {
		tier = 4
	}
	tech.TierEst = tier
	return tech
}

// threatClusterGap is the Manhattan gap that starts a new cluster during the
// distance-sorted sweep.
const threatClusterGap = 8

// computeThreats scores every enemy with a resolvable position against the
// base center, sorts by distance and assigns cluster ids with a 1-D sweep:
// a new cluster starts whenever the gap to the previous (distance-sorted)
// point exceeds the threshold. This is intentionally not true spatial
// clustering; downstream consumers rely on the exact grouping.
func computeThreats(enemyViews []ActorView, baseCenter model.Location) []Threat {
	threats := []Threat{}
	for _, v := range enemyViews {
		if !v.PosKnown {
			continue
		}
		value := unitValue(v.Type)
		hp := v.HPPercent
		if hp < 1 {
			hp = 1
		}
		threats = append(threats, Threat{
			ID:       v.ID,
			Type:     v.Type,
			Distance: v.Pos.Manhattan(baseCenter),
			Pos:      v.Pos,
			HP:       v.HPPercent,
			Value:    value,
			Score:    value * float64(hp) / 100,
		})
	}

	sort.SliceStable(threats, func(i, j int) bool { return threats[i].Distance < threats[j].Distance })

	cluster := 0
	for i := range threats {
		if i > 0 && threats[i].Pos.Manhattan(threats[i-1].Pos) > threatClusterGap {
			cluster++
		}
		threats[i].Cluster = cluster
	}

	if len(threats) > 8 {
		threats = threats[:8]
	}
	return threats
}

func buildForceSummary(views []ActorView, sum actorSummary) ForceSummary {
	counts := make(map[string]int, len(sum.buildings)+len(sum.units))
	for k, v := range sum.buildings {
		counts[k] = v
	}
	for k, v := range sum.units {
		counts[k] += v
	}

	fs := ForceSummary{
		CountsByType:     counts,
		CountsByCategory: make(map[string]int),
		Visible:          len(views),
	}

	var positions []model.Location
	hpSum := 0
	for _, v := range views {
		cat := Categorize(v.Type)
		fs.CountsByCategory[cat]++

		value := unitValue(v.Type)
		fs.ArmyValue += value

		switch cat {
		case CategoryVehicle, CategoryAir, CategoryDefense:
			fs.AntiArmor += value * 0.6
		}
		if antiAirCapable[v.Type] || cat == CategoryDefense {
			fs.AntiAir += value * 0.8
		}
		if cat == CategoryInfantry {
			fs.AntiInf += value * 0.5
		}

		switch cat {
		case CategoryHarvester, CategoryMCV, CategoryBuilding, CategorySupport:
		default:
			positions = append(positions, v.Pos)
		}

		if v.HPPercent > 0 {
			hpSum += v.HPPercent
		}
		if v.HPPercent < 30 {
			fs.HP.LowHPUnits++
		}
	}

	if len(positions) > 0 {
		sumX, sumY := 0, 0
		for _, p := range positions {
			sumX += p.X
			sumY += p.Y
		}
		fs.Centroid = &model.Location{X: sumX / len(positions), Y: sumY / len(positions)}
	}
	if len(views) > 0 {
		avg := float64(hpSum) / float64(len(views))
		fs.HP.AvgHPPercent = &avg
	}
	return fs
}

// updateEnemyMemory overwrites the last-seen record of every currently
// visible enemy. Entries for enemies out of sight are kept forever; this is
// a cumulative memory, not a sliding window.
func (s *Service) updateEnemyMemory(enemyViews []ActorView) map[string]LastSeen {
	now := s.now()
	for _, v := range enemyViews {
		s.mem.enemyLastSeen[v.ID] = LastSeen{
			Type: v.Type,
			Pos:  v.Pos,
			Time: now,
			HP:   v.HPPercent,
		}
	}
	return s.mem.enemyLastSeen
}

const reachableEnemyCap = 10

func buildBattle(threats []Threat, enemyViews []ActorView, attrs *model.UnitAttributes) Battle {
	eng := Engagements{
		TargetTypes:      make(map[string]int),
		ReachableEnemies: []string{},
	}

	reachable := make(map[string]bool)
	if attrs != nil {
		for _, attr := range attrs.Attributes {
			if len(attr.Targets) == 0 {
				continue
			}
			eng.EngagedUnits++
			for _, target := range attr.Targets {
				reachable[target] = true
			}
		}
	}

	ids := make([]string, 0, len(reachable))
	for id := range reachable {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > reachableEnemyCap {
		ids = ids[:reachableEnemyCap]
	}
	eng.ReachableEnemies = ids

	for _, v := range enemyViews {
		if reachable[v.ID] {
			eng.TargetTypes[v.Type]++
		}
	}

	return Battle{ThreatsToBase: threats, Engagements: eng}
}

const opportunityRiskPerCell = 0.5

// buildOpportunities ranks high-value enemy targets by value minus
// distance-scaled risk, measured from the own force centroid when one
// exists, else the base center.
func buildOpportunities(enemyViews []ActorView, baseCenter model.Location, myCentroid *model.Location) []Opportunity {
	point := baseCenter
	if myCentroid != nil {
		point = *myCentroid
	}

	opportunities := []Opportunity{}
	for _, v := range enemyViews {
		if !highValueTargets[v.Type] {
			continue
		}
		distance := v.Pos.Manhattan(point)
		value := unitValue(v.Type)
		risk := float64(distance) * opportunityRiskPerCell
		score := value - risk
		if score < 0 {
			score = 0
		}
		opportunities = append(opportunities, Opportunity{
			ID:       v.ID,
			Type:     v.Type,
			Pos:      v.Pos,
			Distance: distance,
			Value:    value,
			Risk:     risk,
			Score:    score,
		})
	}

	sort.SliceStable(opportunities, func(i, j int) bool { return opportunities[i].Score > opportunities[j].Score })
	if len(opportunities) > 10 {
		opportunities = opportunities[:10]
	}
	return opportunities
}

// scoutStallDelta is the minimum explored-ratio growth between samples below
// which scouting counts as stalled.
const scoutStallDelta = 0.001

// buildAlerts emits the ordered alert list. Conditions are checked in a
// fixed order and are not mutually exclusive; only the queue-block check
// stops at its first hit.
func (s *Service) buildAlerts(eco Economy, mySum actorSummary, forces Forces, queues map[string]QueueState, exploredRatio *float64) ([]string, bool) {
	alerts := []string{}
	scoutStalled := false

	if eco.Power != nil && eco.Power.Surplus < 0 {
		alerts = append(alerts, AlertPowerDeficit)
	}
	if eco.Refineries == 0 {
		alerts = append(alerts, AlertNoRefinery)
	}
	if eco.Miners == 0 {
		alerts = append(alerts, AlertNoMiners)
	}
	if mySum.buildings["barracks"] == 0 {
		alerts = append(alerts, AlertNoBarracks)
	}

	for _, kind := range model.QueueKinds {
		q, ok := queues[kind]
		if !ok || q.BlockedReason == BlockNone {
			continue
		}
		alerts = append(alerts, alertQueueBlockedPrefix+string(q.BlockedReason))
		break
	}

	enemyAir := forces.Enemy.CountsByCategory[CategoryAir]
	if enemyAir > 0 && forces.My.AntiAir < float64(enemyAir) {
		alerts = append(alerts, AlertAntiAirGap)
	}

	myValue := forces.My.ArmyValue
	enemyValue := forces.Enemy.ArmyValue
	if myValue > 0 && enemyValue > 0 && enemyValue > myValue*1.4 {
		alerts = append(alerts, AlertArmyBehind)
	}

	if s.mem.lastExploredRatio != nil && exploredRatio != nil {
		if *exploredRatio-*s.mem.lastExploredRatio < scoutStallDelta {
			alerts = append(alerts, AlertScoutStalled)
			scoutStalled = true
		}
	}
	s.mem.lastExploredRatio = exploredRatio

	return alerts, scoutStalled
}

func (s *Service) buildMeta(snap Snapshot, exploredRatio *float64, scoutStalled bool) Meta {
	meta := Meta{
		GameTime:      snap.T,
		ExploredRatio: exploredRatio,
		ScoutStalled:  scoutStalled,
		Version:       SchemaVersion,
	}
	if !s.mem.prevSnapshotTime.IsZero() && !s.mem.lastSnapshotTime.IsZero() {
		interval := s.mem.lastSnapshotTime.Sub(s.mem.prevSnapshotTime).Seconds()
		meta.SampleInterval = &interval
	}
	if age, ok := s.snapCache.age(s.now()); ok {
		seconds := age.Seconds()
		meta.CacheAge = &seconds
	}
	return meta
}
