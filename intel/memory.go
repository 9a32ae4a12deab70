package intel

import (
	"time"

	"github.com/kmacleod/sitrep/model"
)

// LastSeen is the most recent observation of one enemy actor.
type LastSeen struct {
	Type string         `json:"type"`
	Pos  model.Location `json:"pos"`
	Time time.Time      `json:"time"`
	HP   int            `json:"hp"`
}

// Memory is the engine's process-lifetime differential state: previous
// samples for rate-of-change estimates plus the per-source TTL caches.
// Single instance, mutated only by the aggregation engine; fields are
// replaced wholesale, never left as stale old/new mixes within one build.
type Memory struct {
	lastResources    *int
	lastResourceTime time.Time

	prevSnapshotTime time.Time
	lastSnapshotTime time.Time

	lastExploredRatio *float64

	// enemyLastSeen is cumulative: entries for enemies no longer visible are
	// kept indefinitely.
	enemyLastSeen map[string]LastSeen

	mapCache    slot[*model.MapInfo]
	queueCaches map[string]*slot[QueueState]
	attrsCache  slot[*model.UnitAttributes]
	attrsKey    string
}

// NewMemory returns an empty differential memory.
func NewMemory() *Memory {
	return &Memory{
		enemyLastSeen: make(map[string]LastSeen),
		queueCaches:   make(map[string]*slot[QueueState]),
	}
}

// EnemyLastSeen returns the cumulative per-enemy observation map. The map is
// shared with the intel model; callers must treat it as read-only.
func (m *Memory) EnemyLastSeen() map[string]LastSeen {
	return m.enemyLastSeen
}

func (m *Memory) queueCache(kind string) *slot[QueueState] {
	s, ok := m.queueCaches[kind]
	if !ok {
		s = &slot[QueueState]{}
		m.queueCaches[kind] = s
	}
	return s
}
