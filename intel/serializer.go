package intel

import (
	"time"

	"github.com/kmacleod/sitrep/model"
)

// Mode selects the serialized intel projection.
type Mode string

const (
	ModeBrief Mode = "brief"
	ModeDebug Mode = "debug"
)

// Debug is the near-identity projection of the full model, for inspection.
type Debug struct {
	T             time.Time     `json:"t"`
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

// ToDebug re-exports every section of the model.
func ToDebug(m *Model) Debug {
	return Debug{
		T:             m.Meta.GameTime,
		Meta:          m.Meta,
		Economy:       m.Economy,
		Tech:          m.Tech,
		Forces:        m.Forces,
		Battle:        m.Battle,
		Opportunities: m.Opportunities,
		MapControl:    m.MapControl,
		Alerts:        append([]string{}, m.Alerts...),
		Legacy:        m.Legacy,
	}
}

// Brief is the decision view: a lossy compression of the model sized for a
// consumer with a small attention budget.
type Brief struct {
	T           time.Time        `json:"t"`
	Stage       string           `json:"stage"`
	Economy     BriefEconomy     `json:"economy"`
	Tech        BriefTech        `json:"tech"`
	Combat      BriefCombat      `json:"combat"`
	Opportunity BriefOpportunity `json:"opportunity"`
	Map         BriefMap         `json:"map"`
	Alerts      []string         `json:"alerts"`
}

type BriefEconomy struct {
	Cash         *int   `json:"cash,omitempty"`
	PowerOK      bool   `json:"power_ok"`
	Miners       int    `json:"miners"`
	Refineries   int    `json:"refineries"`
	QueueBlocked string `json:"queue_blocked"`
}

type BriefTech struct {
	Tier        int    `json:"tier"`
	NextMissing string `json:"next_missing,omitempty"`
}

type BriefCombat struct {
	MyValue        int    `json:"my_value"`
	EnemyValue     *int   `json:"enemy_value,omitempty"`
	ThreatNearBase string `json:"threat_near_base"`
	Engaged        bool   `json:"engaged"`
}

type BriefTarget struct {
	Type string         `json:"type"`
	Pos  model.Location `json:"pos"`
}

type BriefOpportunity struct {
	BestTarget *BriefTarget `json:"best_target,omitempty"`
	BestScore  *int         `json:"best_score,omitempty"`
}

type BriefMap struct {
	Explored        *float64        `json:"explored,omitempty"`
	ScoutNeed       bool            `json:"scout_need"`
	NearestResource *model.Location `json:"nearest_resource,omitempty"`
}

// Stage labels for the brief view.
const (
	StageOpening = "opening"
	StageMid     = "mid"
	StageLate    = "late"
)

// Threat bands for the brief view.
const (
	ThreatNone = "none"
	ThreatLow  = "low"
	ThreatMed  = "med"
	ThreatHigh = "high"
)

// briefNextMissingOrder is the key-building order scanned for the first gap.
var briefNextMissingOrder = []string{"barracks", "war_factory", "radar", "tech_center"}

// ToBrief compresses the model into the decision view. Pure function of the
// model: serializing the same model twice yields identical briefs.
func ToBrief(m *Model) Brief {
	tier := m.Tech.TierEst
	if tier < 0 {
		tier = 0
	}
	if tier > 4 {
		tier = 4
	}
	stage := StageLate
	switch {
	case tier <= 1:
		stage = StageOpening
	case tier == 2:
		stage = StageMid
	}

	nextMissing := ""
	for _, name := range briefNextMissingOrder {
		if m.Tech.KeyBuildings[name] <= 0 {
			nextMissing = name
			break
		}
	}

	displayTier := tier
	if displayTier > 3 {
		displayTier = 3
	}

	brief := Brief{
		T:     m.Meta.GameTime,
		Stage: stage,
		Economy: BriefEconomy{
			Cash:         m.Economy.Cash,
			PowerOK:      m.Economy.Power == nil || m.Economy.Power.Surplus >= 0,
			Miners:       m.Economy.Miners,
			Refineries:   m.Economy.Refineries,
			QueueBlocked: briefQueueBlocked(m.Economy.Queues),
		},
		Tech: BriefTech{Tier: displayTier, NextMissing: nextMissing},
		Combat: BriefCombat{
			MyValue:        int(m.Forces.My.ArmyValue),
			ThreatNearBase: briefThreatBand(m.Battle.ThreatsToBase),
			Engaged:        m.Battle.Engagements.EngagedUnits > 0,
		},
		Map: BriefMap{
			Explored:  m.MapControl.ExploredRatio,
			ScoutNeed: m.Meta.ScoutStalled || hasAlert(m.Alerts, AlertScoutStalled),
		},
	}

	if m.Forces.Enemy.Visible > 0 {
		enemyValue := int(m.Forces.Enemy.ArmyValue)
		brief.Combat.EnemyValue = &enemyValue
	}

	if len(m.Opportunities) > 0 {
		best := m.Opportunities[0]
		score := int(best.Score)
		brief.Opportunity = BriefOpportunity{
			BestTarget: &BriefTarget{Type: best.Type, Pos: best.Pos},
			BestScore:  &score,
		}
	}

	if m.MapControl.Resources != nil {
		nearest := m.MapControl.Resources.NearestToBase
		brief.Map.NearestResource = &nearest
	}

	brief.Alerts = append([]string{}, m.Alerts...)
	if len(brief.Alerts) > 3 {
		brief.Alerts = brief.Alerts[:3]
	}
	return brief
}

// briefQueueBlocked collapses per-kind block reasons into one status,
// preferring ready_not_placed: the scan exits the moment it is found.
func briefQueueBlocked(queues map[string]QueueState) string {
	blocked := "none"
	for _, kind := range model.QueueKinds {
		q, ok := queues[kind]
		if !ok {
			continue
		}
		switch q.BlockedReason {
		case BlockReadyNotPlaced:
			return string(BlockReadyNotPlaced)
		case BlockPaused:
			blocked = string(BlockPaused)
		case BlockNone:
		default:
			if blocked == "none" {
				blocked = string(BlockUnknown)
			}
		}
	}
	return blocked
}

// briefThreatBand maps the nearest threat to a 3-level category.
func briefThreatBand(threats []Threat) string {
	if len(threats) == 0 {
		return ThreatNone
	}
	top := threats[0]
	switch {
	case top.Distance <= 12 || top.Score >= 220:
		return ThreatHigh
	case top.Distance <= 20 || top.Score >= 140:
		return ThreatMed
	default:
		return ThreatLow
	}
}

func hasAlert(alerts []string, alert string) bool {
	for _, a := range alerts {
		if a == alert {
			return true
		}
	}
	return false
}
