package ipc

import "github.com/kmacleod/sitrep/model"

// Message types understood by the query server. These must stay in sync
// with the server's dispatcher.
const (
	TypeQueryActors     = "query_actors"
	TypeQueryBaseInfo   = "query_base_info"
	TypeQueryMap        = "query_map"
	TypeQueryQueue      = "query_production_queue"
	TypeQueryAttributes = "query_unit_attributes"
	TypeCanProduce      = "can_produce"
	TypeError           = "error"
)

// Faction selectors for actor queries.
const (
	FactionOwn   = "own"
	FactionEnemy = "enemy"
)

type ActorQuery struct {
	Faction string `json:"faction"`
}

type ActorList struct {
	Actors []model.Actor `json:"actors"`
}

type QueueQuery struct {
	Queue string `json:"queue"`
}

type AttributeQuery struct {
	ActorIDs []string `json:"actor_ids"`
}

type ProduceQuery struct {
	Name string `json:"name"`
}

type ProduceAnswer struct {
	CanProduce bool `json:"can_produce"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}
