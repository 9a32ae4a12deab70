package model

import "encoding/json"

// Location is a map cell coordinate.
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manhattan returns the Manhattan distance to other.
func (l Location) Manhattan(other Location) int {
	return abs(l.X-other.X) + abs(l.Y-other.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Position is a Location decoded from whatever shape the query server sends:
// an {x,y} object or a two-element [x,y] array. Anything else decodes to
// (0,0) — malformed positions must never fail a whole snapshot.
type Position struct {
	Location
	Known bool
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var obj Location
	if err := json.Unmarshal(data, &obj); err == nil {
		p.Location = obj
		p.Known = true
		return nil
	}
	var arr [2]int
	if err := json.Unmarshal(data, &arr); err == nil {
		p.Location = Location{X: arr[0], Y: arr[1]}
		p.Known = true
		return nil
	}
	p.Location = Location{}
	p.Known = false
	return nil
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Location)
}

// Actor is a raw actor record as returned by the query server. Older server
// builds use the legacy field spellings (id / unit_type / hppercent), so both
// are carried and resolved downstream in field order: primary, then alias.
type Actor struct {
	ActorID  string `json:"actor_id"`
	LegacyID string `json:"id"`

	Type       string `json:"type"`
	LegacyType string `json:"unit_type"`

	Faction string `json:"faction"`

	Position Position `json:"position"`

	// Pointers so "absent" and "zero" stay distinct.
	HPPercent       *Health `json:"hp_percent"`
	LegacyHPPercent *Health `json:"hppercent"`
}

// Health is an HP percentage tolerant of non-numeric wire values, which
// decode to -1 instead of failing the enclosing actor list.
type Health int

func (h *Health) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*h = -1
		return nil
	}
	*h = Health(int(f))
	return nil
}

// BaseInfo is the player's economic record.
type BaseInfo struct {
	Cash          int `json:"Cash"`
	Resources     int `json:"Resources"`
	Power         int `json:"Power"`
	PowerProvided int `json:"PowerProvided"`
	PowerDrained  int `json:"PowerDrained"`
}
