package intel

// Layer is the facade the agent and skill layers talk to: one call that
// composes the aggregation engine with the serializer.
type Layer struct {
	service *Service
}

// NewLayer wraps an aggregation engine.
func NewLayer(service *Service) *Layer {
	return &Layer{service: service}
}

// Service exposes the underlying engine for collaborators that need raw
// snapshots (the skill layer).
func (l *Layer) Service() *Service {
	return l.service
}

// Intel returns the serialized view of the current intel in the requested
// mode. Anything other than debug gets the brief decision view.
func (l *Layer) Intel(force bool, mode Mode) any {
	m := l.service.Intel(force)
	if mode == ModeDebug {
		return ToDebug(m)
	}
	return ToBrief(m)
}

// Brief returns the decision view of the current intel.
func (l *Layer) Brief(force bool) Brief {
	return ToBrief(l.service.Intel(force))
}

// Debug returns the full diagnostic view of the current intel.
func (l *Layer) Debug(force bool) Debug {
	return ToDebug(l.service.Intel(force))
}

// BattleDetails returns the battle section of the latest model, refreshing
// it if the intel cache is stale.
func (l *Layer) BattleDetails(force bool) Battle {
	return l.service.Intel(force).Battle
}

// MapControlDetails returns the map-control section of the latest model,
// refreshing it if the intel cache is stale.
func (l *Layer) MapControlDetails(force bool) MapControl {
	return l.service.Intel(force).MapControl
}
