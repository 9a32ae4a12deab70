package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Doctrine is a named, prioritized rule set. Doctrines load from YAML so
// strategies can be tuned without a rebuild.
type Doctrine struct {
	Name  string  `yaml:"name"`
	Rules []*Rule `yaml:"rules"`
}

// LoadDoctrine reads a doctrine file and validates its rule set.
func LoadDoctrine(path string) (*Doctrine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read doctrine: %w", err)
	}

	var d Doctrine
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse doctrine %s: %w", path, err)
	}
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("doctrine %s: %w", path, err)
	}
	return &d, nil
}

func (d *Doctrine) validate() error {
	if len(d.Rules) == 0 {
		return fmt.Errorf("no rules")
	}
	seen := make(map[string]bool, len(d.Rules))
	for _, r := range d.Rules {
		if r.Name == "" {
			return fmt.Errorf("rule with empty name")
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate rule name %q", r.Name)
		}
		seen[r.Name] = true
		if r.When == "" {
			return fmt.Errorf("rule %q: empty condition", r.Name)
		}
		if !KnownSkill(r.Skill) {
			return fmt.Errorf("rule %q: unknown skill %q", r.Name, r.Skill)
		}
	}
	return nil
}

// DefaultDoctrine is the built-in balanced strategy used when no doctrine
// file is given.
func DefaultDoctrine() *Doctrine {
	return &Doctrine{
		Name: "balanced",
		Rules: []*Rule{
			{
				Name:      "open-economy",
				Priority:  100,
				Category:  "economy",
				Exclusive: true,
				When:      `Stage() == "opening" and Refineries() == 0`,
				Skill:     "opening_economy",
			},
			{
				Name:      "restore-power",
				Priority:  90,
				Category:  "economy",
				Exclusive: true,
				When:      `not PowerOK()`,
				Skill:     "ensure_buildings",
				Args:      map[string]any{"buildings": []any{"power_plant"}},
			},
			{
				Name:      "replace-miners",
				Priority:  80,
				Category:  "economy",
				Exclusive: true,
				When:      `Refineries() > 0 and Miners() == 0`,
				Skill:     "produce_units",
				Args: map[string]any{
					"units": map[string]any{"harvester": 1},
					"order": []any{"harvester"},
				},
			},
			{
				Name:      "defend",
				Priority:  70,
				Category:  "combat",
				Exclusive: true,
				When:      `ThreatAtLeast("med")`,
				Skill:     "defend_base",
			},
			{
				Name:     "climb-tech",
				Priority: 60,
				Category: "tech",
				When:     `PowerOK() and NextMissing() != "" and CashAtLeast(800)`,
				Skill:    "ensure_buildings",
			},
			{
				Name:     "keep-training",
				Priority: 50,
				Category: "production",
				When:     `PowerOK() and CashAtLeast(400)`,
				Skill:    "produce_units",
				Args: map[string]any{
					"units": map[string]any{"rifleman": 2, "medium_tank": 1},
					"order": []any{"rifleman", "medium_tank"},
				},
			},
			{
				Name:     "scout",
				Priority: 40,
				Category: "recon",
				When:     `ScoutNeed()`,
				Skill:    "scout_unexplored",
				Args:     map[string]any{"max_scouts": 1, "radius": 30},
			},
			{
				Name:     "rally-fresh-units",
				Priority: 30,
				Category: "production",
				When:     `Stage() != "opening" and ArmyValue() > 0`,
				Skill:    "rally_production",
			},
		},
	}
}
