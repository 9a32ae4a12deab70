package rules

import "github.com/kmacleod/sitrep/intel"

// Env is the expression environment rule conditions evaluate against. It
// wraps one brief intel view per tick; helpers compute nothing themselves,
// they only read the projection.
type Env struct {
	Brief intel.Brief
}

// Stage returns the game stage: opening, mid or late.
func (e Env) Stage() string { return e.Brief.Stage }

// PowerOK reports whether power surplus is non-negative.
func (e Env) PowerOK() bool { return e.Brief.Economy.PowerOK }

// Cash returns the current cash balance, zero when unknown.
func (e Env) Cash() int {
	if e.Brief.Economy.Cash == nil {
		return 0
	}
	return *e.Brief.Economy.Cash
}

// CashAtLeast reports whether the cash balance is known and at least n.
func (e Env) CashAtLeast(n int) bool {
	return e.Brief.Economy.Cash != nil && *e.Brief.Economy.Cash >= n
}

// Miners returns the harvester count.
func (e Env) Miners() int { return e.Brief.Economy.Miners }

// Refineries returns the refinery count.
func (e Env) Refineries() int { return e.Brief.Economy.Refineries }

// QueueBlocked returns the kind of the first blocked production queue, or
// the empty string.
func (e Env) QueueBlocked() string { return e.Brief.Economy.QueueBlocked }

// Tier returns the estimated tech tier.
func (e Env) Tier() int { return e.Brief.Tech.Tier }

// NextMissing returns the next key building absent from the base.
func (e Env) NextMissing() string { return e.Brief.Tech.NextMissing }

// ThreatNearBase returns the threat band near the base: none, low, med or
// high.
func (e Env) ThreatNearBase() string { return e.Brief.Combat.ThreatNearBase }

// ThreatAtLeast reports whether the threat band is at or above the given
// band.
func (e Env) ThreatAtLeast(band string) bool {
	return threatRank(e.Brief.Combat.ThreatNearBase) >= threatRank(band)
}

// Engaged reports whether own and enemy forces are in contact.
func (e Env) Engaged() bool { return e.Brief.Combat.Engaged }

// ArmyValue returns the estimated value of the player's mobile force.
func (e Env) ArmyValue() int { return e.Brief.Combat.MyValue }

// EnemyVisible reports whether any enemy force value is currently known.
func (e Env) EnemyVisible() bool { return e.Brief.Combat.EnemyValue != nil }

// ArmyAhead reports whether own army value is known to exceed the visible
// enemy's.
func (e Env) ArmyAhead() bool {
	return e.Brief.Combat.EnemyValue != nil && e.Brief.Combat.MyValue > *e.Brief.Combat.EnemyValue
}

// ScoutNeed reports whether the intel layer wants more scouting.
func (e Env) ScoutNeed() bool { return e.Brief.Map.ScoutNeed }

// Explored returns the explored map ratio, zero when unknown.
func (e Env) Explored() float64 {
	if e.Brief.Map.Explored == nil {
		return 0
	}
	return *e.Brief.Map.Explored
}

// BestOpportunityAtLeast reports whether the best raid opportunity scores
// at least n.
func (e Env) BestOpportunityAtLeast(n int) bool {
	return e.Brief.Opportunity.BestScore != nil && *e.Brief.Opportunity.BestScore >= n
}

// HasAlert reports whether the named alert is active. Prefix match, so
// "production queue blocked" covers every queue kind.
func (e Env) HasAlert(name string) bool {
	for _, alert := range e.Brief.Alerts {
		if alert == name || hasPrefix(alert, name) {
			return true
		}
	}
	return false
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func threatRank(band string) int {
	switch band {
	case intel.ThreatHigh:
		return 3
	case intel.ThreatMed:
		return 2
	case intel.ThreatLow:
		return 1
	default:
		return 0
	}
}
