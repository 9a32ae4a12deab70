package rules

import "github.com/expr-lang/expr/vm"

// Rule is the atomic unit of commander behavior: a condition → skill pair.
// The engine evaluates rules by priority and uses Category + Exclusive
// to prevent conflicting orders on the same concern in one tick.
type Rule struct {
	Name      string         `yaml:"name"`
	Priority  int            `yaml:"priority"`  // higher = evaluated first
	Category  string         `yaml:"category"`  // grouping for exclusive semantics
	Exclusive bool           `yaml:"exclusive"` // if true, blocks lower-priority rules in same category
	When      string         `yaml:"when"`      // expr source (preserved for serialization)
	Skill     string         `yaml:"skill"`     // action name, resolved against the registry
	Args      map[string]any `yaml:"args,omitempty"`

	program *vm.Program // compiled bytecode
}
