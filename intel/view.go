package intel

import (
	"github.com/kmacleod/sitrep/model"
)

// ActorView is the canonical lightweight projection of one raw actor record.
// Derived once per snapshot, then treated as immutable.
type ActorView struct {
	ID        string
	Type      string // canonical name
	Faction   string
	Pos       model.Location
	PosKnown  bool
	HPPercent int // -1 when unknown
}

// NewActorView normalizes a raw actor record. Field resolution is primary
// name, then legacy alias, then default; malformed data degrades to
// defaults instead of failing the snapshot.
func NewActorView(a model.Actor) ActorView {
	id := a.ActorID
	if id == "" {
		id = a.LegacyID
	}
	if id == "" {
		id = UnknownType
	}

	rawType := a.Type
	if rawType == "" {
		rawType = a.LegacyType
	}

	faction := a.Faction
	if faction == "" {
		faction = UnknownType
	}

	hp := -1
	if a.HPPercent != nil {
		hp = int(*a.HPPercent)
	} else if a.LegacyHPPercent != nil {
		hp = int(*a.LegacyHPPercent)
	}

	return ActorView{
		ID:        id,
		Type:      NormalizeName(rawType),
		Faction:   faction,
		Pos:       a.Position.Location,
		PosKnown:  a.Position.Known,
		HPPercent: hp,
	}
}

func newActorViews(actors []model.Actor) []ActorView {
	views := make([]ActorView, 0, len(actors))
	for _, a := range actors {
		views = append(views, NewActorView(a))
	}
	return views
}
