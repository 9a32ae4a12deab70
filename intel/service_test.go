package intel

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/kmacleod/sitrep/model"
)

// fakeQuerier is a scriptable query boundary. Zero values degrade to empty
// responses, never errors.
type fakeQuerier struct {
	own, enemy []model.Actor
	base       *model.BaseInfo
	mapInfo    *model.MapInfo
	queues     map[string]*model.QueueSnapshot
	attrs      *model.UnitAttributes
	producible map[string]bool
	unexplored []model.Location

	ownErr, baseErr, mapErr, produceErr error

	ownCalls, mapCalls, attrCalls int
	queueCalls                    map[string]int
}

func (f *fakeQuerier) OwnActors() ([]model.Actor, error) {
	f.ownCalls++
	return f.own, f.ownErr
}

func (f *fakeQuerier) EnemyActors() ([]model.Actor, error) { return f.enemy, nil }

func (f *fakeQuerier) BaseInfo() (*model.BaseInfo, error) {
	if f.baseErr != nil {
		return nil, f.baseErr
	}
	if f.base == nil {
		return &model.BaseInfo{}, nil
	}
	return f.base, nil
}

func (f *fakeQuerier) MapInfo() (*model.MapInfo, error) {
	f.mapCalls++
	if f.mapErr != nil {
		return nil, f.mapErr
	}
	return f.mapInfo, nil
}

func (f *fakeQuerier) ProductionQueue(kind string) (*model.QueueSnapshot, error) {
	if f.queueCalls == nil {
		f.queueCalls = make(map[string]int)
	}
	f.queueCalls[kind]++
	if snap, ok := f.queues[kind]; ok {
		return snap, nil
	}
	return &model.QueueSnapshot{QueueType: kind}, nil
}

func (f *fakeQuerier) UnitAttributes(actors []model.Actor) (*model.UnitAttributes, error) {
	f.attrCalls++
	if f.attrs == nil {
		return &model.UnitAttributes{}, nil
	}
	return f.attrs, nil
}

func (f *fakeQuerier) CanProduce(name string) (bool, error) {
	if f.produceErr != nil {
		return false, f.produceErr
	}
	return f.producible[name], nil
}

func (f *fakeQuerier) UnexploredNearby(info *model.MapInfo, origin model.Location, maxDistance int) ([]model.Location, error) {
	return f.unexplored, nil
}

func testActor(id, unitType string, x, y int) model.Actor {
	return model.Actor{
		ActorID: id,
		Type:    unitType,
		Position: model.Position{
			Location: model.Location{X: x, Y: y},
			Known:    true,
		},
	}
}

// newTestService wires a service to a manual clock. The returned advance
// function moves the clock forward.
func newTestService(f *fakeQuerier, ttls TTLs) (*Service, func(time.Duration)) {
	s := NewService(f, ttls)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, func(d time.Duration) { now = now.Add(d) }
}

func viewsOf(actors ...model.Actor) []ActorView {
	return newActorViews(actors)
}

func TestSnapshotCacheBoundary(t *testing.T) {
	f := &fakeQuerier{}
	ttl := 250 * time.Millisecond
	s, advance := newTestService(f, TTLs{Snapshot: ttl})

	s.Snapshot(false)
	if f.ownCalls != 1 {
		t.Fatalf("ownCalls = %d", f.ownCalls)
	}

	advance(ttl)
	s.Snapshot(false)
	if f.ownCalls != 1 {
		t.Errorf("at d=ttl the cache must serve: ownCalls = %d", f.ownCalls)
	}

	advance(time.Nanosecond)
	s.Snapshot(false)
	if f.ownCalls != 2 {
		t.Errorf("past the ttl a refetch is due: ownCalls = %d", f.ownCalls)
	}
}

func TestSnapshotForceBypassesCache(t *testing.T) {
	f := &fakeQuerier{}
	s, _ := newTestService(f, TTLs{})

	s.Snapshot(false)
	s.Snapshot(true)
	if f.ownCalls != 2 {
		t.Errorf("ownCalls = %d", f.ownCalls)
	}
}

func TestSnapshotFailSoft(t *testing.T) {
	f := &fakeQuerier{
		ownErr:  errors.New("boom"),
		baseErr: errors.New("boom"),
		enemy:   []model.Actor{testActor("x1", "3tnk", 1, 1)},
	}
	s, _ := newTestService(f, TTLs{})

	snap := s.Snapshot(true)
	if snap.MyActors != nil {
		t.Errorf("failed own query must leave the field empty: %v", snap.MyActors)
	}
	if snap.BaseInfo != nil {
		t.Errorf("failed base query must leave the field empty: %v", snap.BaseInfo)
	}
	if len(snap.EnemyActors) != 1 {
		t.Errorf("surviving sources must still land: %v", snap.EnemyActors)
	}
}

func TestMapInfoFailureLeavesCache(t *testing.T) {
	f := &fakeQuerier{mapInfo: &model.MapInfo{Width: 4, Height: 4}}
	s, advance := newTestService(f, TTLs{Map: 800 * time.Millisecond})

	if s.MapInfo(false) == nil {
		t.Fatal("first fetch should succeed")
	}

	f.mapErr = errors.New("boom")
	advance(time.Second)
	if s.MapInfo(false) != nil {
		t.Error("an expired cache plus a failed fetch yields nil")
	}

	f.mapErr = nil
	if s.MapInfo(false) == nil {
		t.Error("recovery fetch should succeed")
	}
}

func TestBaseCenter(t *testing.T) {
	s, _ := newTestService(&fakeQuerier{}, TTLs{})

	snap := Snapshot{MyActors: []model.Actor{
		testActor("b1", "fact", 10, 10),
		testActor("b2", "proc", 20, 30),
	}}
	if got := s.BaseCenter(snap); got != (model.Location{X: 15, Y: 20}) {
		t.Errorf("centroid = %+v", got)
	}

	snap = Snapshot{MyActors: []model.Actor{testActor("u1", "e1", 7, 9)}}
	if got := s.BaseCenter(snap); got != (model.Location{X: 7, Y: 9}) {
		t.Errorf("first-actor fallback = %+v", got)
	}

	if got := s.BaseCenter(Snapshot{}); got != (model.Location{}) {
		t.Errorf("empty snapshot = %+v", got)
	}
}

func TestTechTierStepsAreIndependent(t *testing.T) {
	cases := []struct {
		name      string
		buildings []string
		want      int
	}{
		{"nothing", nil, 0},
		{"barracks only", []string{"barr"}, 1},
		{"war factory only", []string{"weap"}, 2},
		{"radar alone grants tier 3", []string{"dome"}, 3},
		{"tech center alone", []string{"atek"}, 4},
		{"airfield alone", []string{"afld"}, 4},
		{"full chain", []string{"barr", "weap", "dome", "atek"}, 4},
		{"radar beats earlier steps", []string{"barr", "dome"}, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestService(&fakeQuerier{}, TTLs{})
			var actors []model.Actor
			for i, b := range tc.buildings {
				actors = append(actors, testActor(string(rune('a'+i)), b, i, i))
			}
			sum := summarizeActors(viewsOf(actors...))
			tech := s.summarizeTech(sum)
			if tech.TierEst != tc.want {
				t.Errorf("tier = %d, want %d", tech.TierEst, tc.want)
			}
		})
	}
}

func TestTechProbeFailFast(t *testing.T) {
	f := &fakeQuerier{produceErr: errors.New("boom")}
	s, _ := newTestService(f, TTLs{})

	tech := s.summarizeTech(summarizeActors(nil))
	if len(tech.CanBuild) != 0 || len(tech.CanTrain) != 0 {
		t.Errorf("aborted probes must return partial results: %+v", tech)
	}
}

func TestOpportunityScores(t *testing.T) {
	enemies := viewsOf(
		testActor("near", "mcv", 0, 0),
		testActor("mid", "mcv", 40, 0),
		testActor("far", "mcv", 250, 0),
	)
	opportunities := buildOpportunities(enemies, model.Location{}, nil)

	if len(opportunities) != 3 {
		t.Fatalf("opportunities = %+v", opportunities)
	}
	wantScores := []float64{100, 80, 0}
	wantIDs := []string{"near", "mid", "far"}
	for i := range wantScores {
		if opportunities[i].Score != wantScores[i] {
			t.Errorf("score[%d] = %v, want %v", i, opportunities[i].Score, wantScores[i])
		}
		if opportunities[i].ID != wantIDs[i] {
			t.Errorf("id[%d] = %s, want %s", i, opportunities[i].ID, wantIDs[i])
		}
	}
}

func TestOpportunitySkipsLowValueTargets(t *testing.T) {
	enemies := viewsOf(testActor("x1", "e1", 2, 0))
	if got := buildOpportunities(enemies, model.Location{}, nil); len(got) != 0 {
		t.Errorf("rifleman is not a raid target: %+v", got)
	}
}

func TestThreatClustering(t *testing.T) {
	enemies := viewsOf(
		testActor("t20", "1tnk", 20, 0),
		testActor("t0", "1tnk", 0, 0),
		testActor("t5", "1tnk", 5, 0),
	)
	threats := computeThreats(enemies, model.Location{})

	if len(threats) != 3 {
		t.Fatalf("threats = %+v", threats)
	}
	wantClusters := []int{0, 0, 1}
	wantIDs := []string{"t0", "t5", "t20"}
	for i := range threats {
		if threats[i].ID != wantIDs[i] {
			t.Errorf("threat[%d].ID = %s, want %s", i, threats[i].ID, wantIDs[i])
		}
		if threats[i].Cluster != wantClusters[i] {
			t.Errorf("threat[%d].Cluster = %d, want %d", i, threats[i].Cluster, wantClusters[i])
		}
	}
}

func TestThreatSkipsUnknownPositions(t *testing.T) {
	hidden := model.Actor{ActorID: "ghost", Type: "3tnk"}
	threats := computeThreats(viewsOf(hidden), model.Location{})
	if len(threats) != 0 {
		t.Errorf("positionless enemies carry no threat score: %+v", threats)
	}
}

func TestThreatScoreScalesWithHP(t *testing.T) {
	hp := model.Health(50)
	wounded := model.Actor{
		ActorID:   "w1",
		Type:      "4tnk",
		Position:  model.Position{Location: model.Location{X: 3, Y: 0}, Known: true},
		HPPercent: &hp,
	}
	threats := computeThreats(viewsOf(wounded), model.Location{})
	if len(threats) != 1 {
		t.Fatalf("threats = %+v", threats)
	}
	if threats[0].Score != 60 { // 120 * 50/100
		t.Errorf("score = %v", threats[0].Score)
	}
}

func TestFrontierFullyExplored(t *testing.T) {
	explored := make([][]bool, 6)
	for i := range explored {
		explored[i] = []bool{true, true, true, true, true, true}
	}
	grid := model.NewGrid(&model.MapInfo{Width: 6, Height: 6, Explored: explored})
	if got := computeFrontier(grid, 12); len(got) != 0 {
		t.Errorf("fully explored grid has no frontier: %+v", got)
	}
}

func TestFrontierOriginOnly(t *testing.T) {
	explored := make([][]bool, 6)
	for i := range explored {
		explored[i] = make([]bool, 6)
	}
	explored[0][0] = true
	grid := model.NewGrid(&model.MapInfo{Width: 6, Height: 6, Explored: explored})

	got := computeFrontier(grid, 12)
	if len(got) != 1 || got[0] != (model.Location{X: 0, Y: 0}) {
		t.Errorf("frontier = %+v, want exactly the origin", got)
	}
}

func TestDetectQueueBlock(t *testing.T) {
	cases := []struct {
		name string
		kind string
		raw  *model.QueueSnapshot
		want BlockReason
	}{
		{"nil queue", model.QueueBuilding, nil, BlockNone},
		{"empty queue", model.QueueBuilding, &model.QueueSnapshot{}, BlockNone},
		{
			"ready item on a placeable queue",
			model.QueueBuilding,
			&model.QueueSnapshot{HasReadyItem: true},
			BlockReadyNotPlaced,
		},
		{
			"ready item on a unit queue is not a placement block",
			model.QueueInfantry,
			&model.QueueSnapshot{HasReadyItem: true},
			BlockNone,
		},
		{
			"done head on a placeable queue",
			model.QueueDefense,
			&model.QueueSnapshot{Items: []model.RawQueueItem{{Name: "pbox", Done: true}}},
			BlockReadyNotPlaced,
		},
		{
			"all items paused",
			model.QueueVehicle,
			&model.QueueSnapshot{Items: []model.RawQueueItem{{Paused: true}, {Paused: true}}},
			BlockPaused,
		},
		{
			"one active item clears the pause",
			model.QueueVehicle,
			&model.QueueSnapshot{Items: []model.RawQueueItem{{Paused: true}, {}}},
			BlockNone,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectQueueBlock(tc.kind, tc.raw); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAttributeCacheKeyedByIDSet(t *testing.T) {
	f := &fakeQuerier{}
	s, _ := newTestService(f, TTLs{Attributes: 2 * time.Second})

	squad := []model.Actor{testActor("a1", "e1", 0, 0), testActor("a2", "e1", 1, 0)}
	s.attributesLocked(squad)
	s.attributesLocked(squad)
	if f.attrCalls != 1 {
		t.Fatalf("attrCalls = %d", f.attrCalls)
	}

	// A different selection invalidates the cache before the TTL runs out.
	s.attributesLocked(squad[:1])
	if f.attrCalls != 2 {
		t.Errorf("attrCalls = %d", f.attrCalls)
	}
}

func TestAttributeBatchLimit(t *testing.T) {
	f := &fakeQuerier{}
	s, _ := newTestService(f, TTLs{})

	var crowd []model.Actor
	for i := 0; i < 20; i++ {
		crowd = append(crowd, testActor(string(rune('a'+i)), "e1", i, 0))
	}
	s.attributesLocked(crowd)

	key := s.mem.attrsKey
	want := attributeKey(crowd[:attributeBatchLimit])
	if key != want {
		t.Errorf("cache key covers %q, want first %d actors", key, attributeBatchLimit)
	}
}

func pausedQueue() *model.QueueSnapshot {
	return &model.QueueSnapshot{
		QueueType: model.QueueBuilding,
		Items:     []model.RawQueueItem{{Name: "powr", Paused: true}},
	}
}

func TestAlertOrderScenario(t *testing.T) {
	explored := [][]bool{{true, false}, {false, false}}
	f := &fakeQuerier{
		base:    &model.BaseInfo{Power: -10},
		mapInfo: &model.MapInfo{Width: 2, Height: 2, Explored: explored},
		queues:  map[string]*model.QueueSnapshot{model.QueueBuilding: pausedQueue()},
	}
	s, _ := newTestService(f, TTLs{})

	m := s.Intel(true)

	want := []string{
		AlertPowerDeficit,
		AlertNoRefinery,
		AlertNoMiners,
		AlertNoBarracks,
		alertQueueBlockedPrefix + string(BlockPaused),
	}
	if len(m.Alerts) != len(want) {
		t.Fatalf("alerts = %v, want %v", m.Alerts, want)
	}
	for i := range want {
		if m.Alerts[i] != want[i] {
			t.Errorf("alerts[%d] = %q, want %q", i, m.Alerts[i], want[i])
		}
	}
	if m.Meta.ScoutStalled {
		t.Error("scout stall needs a prior explored-ratio sample")
	}
}

func TestScoutStallNeedsTwoSamples(t *testing.T) {
	explored := [][]bool{{true, false}, {false, false}}
	f := &fakeQuerier{
		mapInfo: &model.MapInfo{Width: 2, Height: 2, Explored: explored},
	}
	s, advance := newTestService(f, TTLs{})

	first := s.Intel(true)
	if hasAlert(first.Alerts, AlertScoutStalled) {
		t.Fatal("first sample can never stall")
	}

	advance(time.Second)
	second := s.Intel(true)
	if !hasAlert(second.Alerts, AlertScoutStalled) {
		t.Error("unchanged explored ratio on the second sample is a stall")
	}
	if !second.Meta.ScoutStalled {
		t.Error("meta must carry the stall flag")
	}
}

func TestIncomeRate(t *testing.T) {
	f := &fakeQuerier{base: &model.BaseInfo{Resources: 100}}
	s, advance := newTestService(f, TTLs{})

	first := s.Intel(true)
	if first.Economy.IncomeRate != nil {
		t.Errorf("first sample has no income rate: %v", *first.Economy.IncomeRate)
	}

	f.base = &model.BaseInfo{Resources: 250}
	advance(10 * time.Second)
	second := s.Intel(true)
	if second.Economy.IncomeRate == nil {
		t.Fatal("second sample should carry a rate")
	}
	if *second.Economy.IncomeRate != 15 {
		t.Errorf("rate = %v, want 15", *second.Economy.IncomeRate)
	}
}

func TestEnemyMemoryIsCumulative(t *testing.T) {
	f := &fakeQuerier{enemy: []model.Actor{testActor("x1", "3tnk", 5, 5)}}
	s, advance := newTestService(f, TTLs{})

	s.Intel(true)

	// The tank slips out of sight; its record must survive.
	f.enemy = nil
	advance(time.Second)
	m := s.Intel(true)

	seen, ok := m.Forces.Enemy.LastSeen["x1"]
	if !ok {
		t.Fatal("out-of-sight enemy dropped from memory")
	}
	if seen.Type != "heavy_tank" {
		t.Errorf("remembered type = %q", seen.Type)
	}
}

func TestIntelCompleteDespiteFailures(t *testing.T) {
	f := &fakeQuerier{
		ownErr:     errors.New("boom"),
		baseErr:    errors.New("boom"),
		mapErr:     errors.New("boom"),
		produceErr: errors.New("boom"),
	}
	s, _ := newTestService(f, TTLs{})

	m := s.Intel(true)
	if m == nil {
		t.Fatal("intel build must always produce a model")
	}
	if m.Economy.Cash != nil {
		t.Error("no base info means no cash figure")
	}
	if m.MapControl.Size != nil {
		t.Error("no map info means no size")
	}
	if m.Alerts == nil {
		t.Error("alerts must be an empty list, not nil")
	}
}

func TestBattleEngagements(t *testing.T) {
	f := &fakeQuerier{
		own: []model.Actor{
			testActor("a1", "2tnk", 1, 1),
			testActor("a2", "e1", 2, 1),
			testActor("a3", "1tnk", 3, 1),
		},
		enemy: []model.Actor{
			testActor("e1", "3tnk", 6, 1),
			testActor("e3", "harv", 7, 1),
			testActor("e9", "e1", 30, 30),
		},
		attrs: &model.UnitAttributes{Attributes: []model.UnitAttribute{
			{ActorID: "a1", Targets: []string{"e5", "e3"}},
			{ActorID: "a2", Targets: nil},
			{ActorID: "a3", Targets: []string{"e3", "e1"}},
		}},
	}
	s, _ := newTestService(f, TTLs{})

	eng := s.Intel(true).Battle.Engagements
	if eng.EngagedUnits != 2 {
		t.Errorf("engaged units = %d, want 2 (targetless records do not count)", eng.EngagedUnits)
	}
	wantReachable := []string{"e1", "e3", "e5"}
	if !reflect.DeepEqual(eng.ReachableEnemies, wantReachable) {
		t.Errorf("reachable = %v, want sorted union %v", eng.ReachableEnemies, wantReachable)
	}
	wantTypes := map[string]int{"heavy_tank": 1, "harvester": 1}
	if !reflect.DeepEqual(eng.TargetTypes, wantTypes) {
		t.Errorf("target types = %v, want %v (only visible reachable enemies tally)", eng.TargetTypes, wantTypes)
	}
}

func TestBattleReachableCapSorted(t *testing.T) {
	targets := make([]string, 0, 12)
	for i := 12; i >= 1; i-- {
		targets = append(targets, fmt.Sprintf("t%02d", i))
	}
	attrs := &model.UnitAttributes{Attributes: []model.UnitAttribute{
		{ActorID: "a1", Targets: targets},
	}}

	battle := buildBattle(nil, nil, attrs)
	eng := battle.Engagements
	if eng.EngagedUnits != 1 {
		t.Errorf("engaged units = %d", eng.EngagedUnits)
	}
	if len(eng.ReachableEnemies) != reachableEnemyCap {
		t.Fatalf("reachable = %v, want %d ids", eng.ReachableEnemies, reachableEnemyCap)
	}
	for i, id := range eng.ReachableEnemies {
		want := fmt.Sprintf("t%02d", i+1)
		if id != want {
			t.Errorf("reachable[%d] = %s, want %s (sorted before the cap)", i, id, want)
		}
	}
}

func TestBattleNoAttributes(t *testing.T) {
	battle := buildBattle(nil, viewsOf(testActor("e1", "3tnk", 5, 5)), nil)
	eng := battle.Engagements
	if eng.EngagedUnits != 0 || len(eng.ReachableEnemies) != 0 || len(eng.TargetTypes) != 0 {
		t.Errorf("engagements = %+v, want empty", eng)
	}
	if eng.ReachableEnemies == nil {
		t.Error("reachable list must be empty, not nil")
	}
}
