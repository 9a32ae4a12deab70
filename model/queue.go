package model

// Production queue kinds recognised by the query server.
const (
	QueueBuilding = "Building"
	QueueDefense  = "Defense"
	QueueInfantry = "Infantry"
	QueueVehicle  = "Vehicle"
	QueueAircraft = "Aircraft"
)

// QueueKinds lists every queue kind in fetch order.
var QueueKinds = []string{QueueBuilding, QueueDefense, QueueInfantry, QueueVehicle, QueueAircraft}

// QueueSnapshot is the raw production-queue query result for one kind.
type QueueSnapshot struct {
	QueueType    string         `json:"queue_type"`
	Items        []RawQueueItem `json:"queue_items"`
	HasReadyItem bool           `json:"has_ready_item"`
}

// RawQueueItem is one entry of a raw queue snapshot.
type RawQueueItem struct {
	Name          string `json:"name"`
	DisplayName   string `json:"chineseName"`
	Progress      int    `json:"progress_percent"`
	Status        string `json:"status"`
	Paused        bool   `json:"paused"`
	OwnerActorID  string `json:"owner_actor_id"`
	RemainingTime int    `json:"remaining_time"`
	TotalTime     int    `json:"total_time"`
	Done          bool   `json:"done"`
}

// UnitAttributes is the raw unit-attribute query result for a batch of own
// actors.
type UnitAttributes struct {
	Attributes []UnitAttribute `json:"attributes"`
}

// UnitAttribute describes one own unit's combat situation. Targets holds the
// enemy actor ids the unit can currently reach.
type UnitAttribute struct {
	ActorID string   `json:"actor_id"`
	Targets []string `json:"targets"`
}
