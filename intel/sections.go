package intel

import (
	"time"

	"github.com/kmacleod/sitrep/model"
)

// SchemaVersion tags the intel model layout.
const SchemaVersion = "v2"

// BlockReason classifies why a production queue is stuck.
type BlockReason string

const (
	BlockNone           BlockReason = ""
	BlockReadyNotPlaced BlockReason = "ready_not_placed"
	BlockPaused         BlockReason = "paused"
	BlockUnknown        BlockReason = "unknown"
)

// QueueItem is the simplified projection of one raw queue entry.
type QueueItem struct {
	Name          string `json:"name"`
	DisplayName   string `json:"display_name,omitempty"`
	Progress      int    `json:"progress"`
	Status        string `json:"status,omitempty"`
	Paused        bool   `json:"paused"`
	OwnerActorID  string `json:"owner_actor_id,omitempty"`
	RemainingTime int    `json:"remaining_time"`
	TotalTime     int    `json:"total_time"`
	Done          bool   `json:"done"`
}

// QueueState is the per-kind production queue section.
type QueueState struct {
	Kind          string      `json:"queue_type"`
	Items         []QueueItem `json:"items"`
	HasReadyItem  bool        `json:"has_ready_item"`
	BlockedReason BlockReason `json:"queue_blocked_reason,omitempty"`
}

// Snapshot is one poll cycle's worth of actor and economy state. It is
// cached wholesale under the snapshot TTL and never merged incrementally.
type Snapshot struct {
	MyActors    []model.Actor
	EnemyActors []model.Actor
	BaseInfo    *model.BaseInfo
	T           time.Time
}

// Meta carries sampling provenance for one intel build.
type Meta struct {
	GameTime       time.Time `json:"t"`
	SampleInterval *float64  `json:"sample_interval,omitempty"` // seconds
	CacheAge       *float64  `json:"cache_age,omitempty"`       // seconds
	ExploredRatio  *float64  `json:"explored_ratio,omitempty"`
	ScoutStalled   bool      `json:"scout_stalled"`
	Version        string    `json:"version"`
}

// Power is the base power balance; nil fields mean the base query failed.
type Power struct {
	Surplus  int `json:"surplus"`
	Provided int `json:"provided"`
	Drained  int `json:"drained"`
}

// Harvest summarizes resource collection.
type Harvest struct {
	Miners         int             `json:"miners"`
	NearbyResource *model.Location `json:"nearby_resource,omitempty"`
}

// Economy is the economic section of the intel model.
type Economy struct {
	Cash         *int                  `json:"cash,omitempty"`
	Resources    *int                  `json:"resources,omitempty"`
	Power        *Power                `json:"power,omitempty"`
	Refineries   int                   `json:"refineries"`
	PowerPlants  int                   `json:"power_plants"`
	WarFactories int                   `json:"war_factories"`
	Miners       int                   `json:"miners"`
	IncomeRate   *float64              `json:"income_rate_est,omitempty"`
	Harvest      Harvest               `json:"harvest"`
	Queues       map[string]QueueState `json:"production_queues"`
}

// Tech is the capability section: probe results plus a tier estimate.
type Tech struct {
	CanBuild     []string       `json:"can_build"`
	CanTrain     []string       `json:"can_train"`
	KeyBuildings map[string]int `json:"owned_key_buildings"`
	TierEst      int            `json:"tech_level_est"`
}

// Threat is one enemy actor scored against the base.
type Threat struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Distance int            `json:"distance"`
	Pos      model.Location `json:"pos"`
	HP       int            `json:"hp"`
	Value    float64        `json:"value_est"`
	Score    float64        `json:"threat_score"`
	Cluster  int            `json:"cluster_id"`
}

// HPDistribution summarizes unit health for one side.
type HPDistribution struct {
	AvgHPPercent *float64 `json:"avg_hp_percent,omitempty"`
	LowHPUnits   int      `json:"low_hp_units"`
}

// ForceSummary is one side's force section.
type ForceSummary struct {
	CountsByType     map[string]int      `json:"counts_by_type"`
	CountsByCategory map[string]int      `json:"counts_by_category"`
	ArmyValue        float64             `json:"army_value_est"`
	AntiAir          float64             `json:"anti_air_est"`
	AntiArmor        float64             `json:"anti_armor_est"`
	AntiInf          float64             `json:"anti_inf_est"`
	Centroid         *model.Location     `json:"centroid,omitempty"`
	HP               HPDistribution      `json:"hp_distribution"`
	Visible          int                 `json:"visible_units"`
	Threats          []Threat            `json:"threats,omitempty"`
	LastSeen         map[string]LastSeen `json:"last_seen,omitempty"`
}

// Forces pairs the two sides.
type Forces struct {
	My    ForceSummary `json:"my"`
	Enemy ForceSummary `json:"enemy"`
}

// Engagements summarizes the unit-attribute query: which own units report
// reachable targets and what those targets are.
type Engagements struct {
	EngagedUnits     int            `json:"engaged_units"`
	TargetTypes      map[string]int `json:"target_types"`
	ReachableEnemies []string       `json:"reachable_enemies"`
}

// Battle is the combat section.
type Battle struct {
	ThreatsToBase []Threat    `json:"threats_to_base"`
	Engagements   Engagements `json:"engagements"`
}

// Opportunity is a scored high-value enemy target.
type Opportunity struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Pos      model.Location `json:"pos"`
	Distance int            `json:"distance"`
	Value    float64        `json:"value_score"`
	Risk     float64        `json:"risk_score"`
	Score    float64        `json:"opportunity_score"`
}

// Size is a map dimension pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResourceSummary locates the resource field relative to the base.
type ResourceSummary struct {
	Tiles         int            `json:"tiles"`
	Centroid      model.Location `json:"centroid"`
	NearestToBase model.Location `json:"nearest_to_base"`
}

// MapControl is the exploration/terrain section.
type MapControl struct {
	Size                  *Size            `json:"size,omitempty"`
	ExploredRatio         *float64         `json:"explored_ratio,omitempty"`
	NearbyUnexplored      []model.Location `json:"nearby_unexplored"`
	FrontierPoints        []model.Location `json:"frontier_points"`
	FrontierCount         int              `json:"frontier_count"`
	NearbyUnexploredCount int              `json:"nearby_unexplored_count"`
	Resources             *ResourceSummary `json:"resource_summary,omitempty"`
}

// Legacy is reserved for downstream consumers of the old report layout.
type Legacy struct {
	Match map[string]any `json:"match"`
}

// Model is the full aggregated intel result. It is rebuilt from scratch on
// every cache miss and derived purely from the source caches plus Memory.
type Model struct {
	Meta          Meta          `json:"meta"`
	Economy       Economy       `json:"economy"`
	Tech          Tech          `json:"tech"`
	Forces        Forces        `json:"forces"`
	Battle        Battle        `json:"battle"`
	Opportunities []Opportunity `json:"opportunities"`
	MapControl    MapControl    `json:"map_control"`
	Alerts        []string      `json:"alerts"`
	Legacy        Legacy        `json:"legacy"`
}
