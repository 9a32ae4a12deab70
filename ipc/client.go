package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"sync"

	"github.com/kmacleod/sitrep/model"
)

// QueryError means a remote call did not complete: transport failure or an
// error envelope from the server. The intel engine recovers from these by
// degrading the affected data source.
type QueryError struct {
	Op      string
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("query %s: %s", e.Op, e.Message)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Client is a synchronous request/response connection to the game query
// server. One call is in flight at a time; a mutex serializes callers. There
// is no cancellation and no automatic retry — a failed call surfaces as a
// QueryError and retrying is the caller's decision.
type Client struct {
	mu   sync.Mutex
	conn net.Conn
}

// Dial connects to the query server.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial query server: %w", err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// roundTrip sends one envelope and decodes the reply into out (when out is
// non-nil). Server-side failures arrive as error envelopes.
func (c *Client) roundTrip(msgType string, payload any, out any) error {
	env, err := NewEnvelope(msgType, payload)
	if err != nil {
		return &QueryError{Op: msgType, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := WriteEnvelope(c.conn, env); err != nil {
		return &QueryError{Op: msgType, Err: err}
	}
	resp, err := ReadEnvelope(c.conn)
	if err != nil {
		return &QueryError{Op: msgType, Err: err}
	}

	if resp.Type == TypeError {
		var msg ErrorMessage
		if err := json.Unmarshal(resp.Data, &msg); err != nil {
			return &QueryError{Op: msgType, Message: "unreadable server error"}
		}
		return &QueryError{Op: msgType, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return &QueryError{Op: msgType, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// OwnActors returns all actors owned by the player.
func (c *Client) OwnActors() ([]model.Actor, error) {
	var list ActorList
	if err := c.roundTrip(TypeQueryActors, ActorQuery{Faction: FactionOwn}, &list); err != nil {
		return nil, err
	}
	return list.Actors, nil
}

// EnemyActors returns all currently visible enemy actors.
func (c *Client) EnemyActors() ([]model.Actor, error) {
	var list ActorList
	if err := c.roundTrip(TypeQueryActors, ActorQuery{Faction: FactionEnemy}, &list); err != nil {
		return nil, err
	}
	return list.Actors, nil
}

// BaseInfo returns the player's economic record.
func (c *Client) BaseInfo() (*model.BaseInfo, error) {
	var info model.BaseInfo
	if err := c.roundTrip(TypeQueryBaseInfo, struct{}{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// MapInfo returns the map grids.
func (c *Client) MapInfo() (*model.MapInfo, error) {
	var info model.MapInfo
	if err := c.roundTrip(TypeQueryMap, struct{}{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ProductionQueue returns the raw queue state for one kind.
func (c *Client) ProductionQueue(kind string) (*model.QueueSnapshot, error) {
	var snap model.QueueSnapshot
	if err := c.roundTrip(TypeQueryQueue, QueueQuery{Queue: kind}, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// UnitAttributes returns combat attributes for the given actors.
func (c *Client) UnitAttributes(actors []model.Actor) (*model.UnitAttributes, error) {
	ids := make([]string, 0, len(actors))
	for _, a := range actors {
		id := a.ActorID
		if id == "" {
			id = a.LegacyID
		}
		ids = append(ids, id)
	}
	var attrs model.UnitAttributes
	if err := c.roundTrip(TypeQueryAttributes, AttributeQuery{ActorIDs: ids}, &attrs); err != nil {
		return nil, err
	}
	return &attrs, nil
}

// CanProduce probes whether the named building or unit is currently
// producible.
func (c *Client) CanProduce(name string) (bool, error) {
	var answer ProduceAnswer
	if err := c.roundTrip(TypeCanProduce, ProduceQuery{Name: name}, &answer); err != nil {
		return false, err
	}
	return answer.CanProduce, nil
}

// UnexploredNearby returns unexplored cells within maxDistance (Manhattan)
// of origin, nearest first. Computed locally from the supplied map grids —
// the server already shipped everything needed.
func (c *Client) UnexploredNearby(info *model.MapInfo, origin model.Location, maxDistance int) ([]model.Location, error) {
	if info == nil {
		return nil, &QueryError{Op: "unexplored_nearby", Message: "no map info"}
	}
	grid := model.NewGrid(info)

	var cells []model.Location
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			p := model.Location{X: x, Y: y}
			if p.Manhattan(origin) > maxDistance {
				continue
			}
			if !grid.Explored(x, y) {
				cells = append(cells, p)
			}
		}
	}
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].Manhattan(origin) < cells[j].Manhattan(origin)
	})
	return cells, nil
}

// Produce queues count items of the given type.
func (c *Client) Produce(queue, item string, count int) error {
	return c.roundTrip(TypeProduce, ProduceCommand{Queue: queue, Item: item, Count: count}, nil)
}

// PlaceBuilding places the ready item of a building/defense queue.
func (c *Client) PlaceBuilding(queue, item string) error {
	return c.roundTrip(TypePlaceBuilding, PlaceBuildingCommand{Queue: queue, Item: item}, nil)
}

// MoveUnits orders the actors to a map cell, optionally attack-moving.
func (c *Client) MoveUnits(actorIDs []string, to model.Location, attackMove bool) error {
	msgType := TypeMove
	if attackMove {
		msgType = TypeAttackMove
	}
	return c.roundTrip(msgType, MoveCommand{ActorIDs: actorIDs, X: to.X, Y: to.Y}, nil)
}

// SetRally sets the rally point of production buildings.
func (c *Client) SetRally(actorIDs []string, to model.Location) error {
	return c.roundTrip(TypeSetRally, SetRallyCommand{ActorIDs: actorIDs, X: to.X, Y: to.Y}, nil)
}

// Deploy deploys a deployable actor (an MCV, typically).
func (c *Client) Deploy(actorID string) error {
	return c.roundTrip(TypeDeploy, DeployCommand{ActorID: actorID}, nil)
}

// Harvest sends a harvester to a resource cell.
func (c *Client) Harvest(actorID string, to model.Location) error {
	return c.roundTrip(TypeHarvest, HarvestCommand{ActorID: actorID, X: to.X, Y: to.Y}, nil)
}
