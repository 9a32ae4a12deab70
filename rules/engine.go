package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/kmacleod/sitrep/intel"
	"github.com/kmacleod/sitrep/skills"
)

// Engine runs compiled rules against the brief intel view each tick.
// Rules fire in priority order; exclusive rules block lower-priority rules
// in the same category, preventing conflicting orders on the same concern.
type Engine struct {
	mu     sync.RWMutex
	rules  []*Rule
	kit    *skills.Kit
	logger *slog.Logger
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by
// priority.
func NewEngine(ruleSet []*Rule, kit *skills.Kit, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	compiled, err := compileRules(ruleSet)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled, kit: kit, logger: logger}, nil
}

// Evaluate runs all rules against one brief intel view. A condition error
// skips the rule; a failed skill is logged and never stops the tick.
func (e *Engine) Evaluate(brief intel.Brief) {
	e.mu.RLock()
	ruleSet := e.rules
	e.mu.RUnlock()

	env := Env{Brief: brief}
	fired := make(map[string]bool) // category → exclusive rule already fired

	for _, r := range ruleSet {
		if fired[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			e.logger.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		e.logger.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category)

		skill, ok := skillRegistry[r.Skill]
		if !ok {
			e.logger.Warn("rule names unknown skill", "rule", r.Name, "skill", r.Skill)
			continue
		}

		res := skill(e.kit, env, r.Args)
		if res.OK {
			e.logger.Info("skill done", "rule", r.Name, "skill", r.Skill, "result", describe(res))
		} else {
			e.logger.Warn("skill failed", "rule", r.Name, "skill", r.Skill, "result", describe(res))
		}
		if res.PlayerMessage != "" {
			e.logger.Info("commander note", "message", res.PlayerMessage)
		}

		if r.Exclusive {
			fired[r.Category] = true
		}
	}
}

// Swap atomically replaces the rule set. Compiles first; if compilation
// fails the old rules remain active.
func (e *Engine) Swap(newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
	e.logger.Info("rule set swapped", "count", len(compiled))
	return nil
}

// Rules returns the active rule set in evaluation order.
func (e *Engine) Rules() []*Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules
}

func compileRules(ruleSet []*Rule) ([]*Rule, error) {
	for _, r := range ruleSet {
		if !KnownSkill(r.Skill) {
			return nil, fmt.Errorf("rule %q: unknown skill %q", r.Name, r.Skill)
		}
		prog, err := expr.Compile(r.When, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(ruleSet, func(i, j int) bool {
		return ruleSet[i].Priority > ruleSet[j].Priority
	})
	return ruleSet, nil
}
