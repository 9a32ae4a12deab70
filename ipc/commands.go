package ipc

// Command types — must stay in sync with the server's command executor.
const (
	TypeProduce       = "produce"
	TypePlaceBuilding = "place_building"
	TypeMove          = "move"
	TypeAttackMove    = "attack_move"
	TypeSetRally      = "set_rally"
	TypeDeploy        = "deploy"
	TypeHarvest       = "harvest"
	TypeAck           = "ack"
)

type ProduceCommand struct {
	Queue string `json:"queue"`
	Item  string `json:"item"`
	Count int    `json:"count,omitempty"`
}

type PlaceBuildingCommand struct {
	Queue string `json:"queue"`
	Item  string `json:"item"`
}

type MoveCommand struct {
	ActorIDs []string `json:"actor_ids"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
}

type SetRallyCommand struct {
	ActorIDs []string `json:"actor_ids"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
}

type DeployCommand struct {
	ActorID string `json:"actor_id"`
}

type HarvestCommand struct {
	ActorID string `json:"actor_id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

type AckMessage struct {
	Status string `json:"status"`
}
