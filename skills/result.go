package skills

// Result describes one macro skill execution. Actions is a step log of what
// the skill actually did; Observations carries machine-readable context for
// the commander when a skill fails partway.
type Result struct {
	OK            bool             `json:"ok"`
	NeedReplan    bool             `json:"need_replan"`
	Reason        string           `json:"reason"`
	Actions       []map[string]any `json:"actions"`
	Observations  map[string]any   `json:"observations,omitempty"`
	PlayerMessage string           `json:"player_message,omitempty"`
}

type option func(*Result)

func withActions(actions []map[string]any) option {
	return func(r *Result) { r.Actions = actions }
}

func withObservations(obs map[string]any) option {
	return func(r *Result) { r.Observations = obs }
}

func withMessage(msg string) option {
	return func(r *Result) { r.PlayerMessage = msg }
}

func withReplan(replan bool) option {
	return func(r *Result) { r.NeedReplan = replan }
}

// Success builds a passing result. Replan defaults to off.
func Success(reason string, opts ...option) Result {
	r := Result{OK: true, Reason: reason, Actions: []map[string]any{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Fail builds a failing result. Replan defaults to on; skills that fail on
// transient transport errors switch it off so the commander retries the same
// plan instead.
func Fail(reason string, opts ...option) Result {
	r := Result{OK: false, NeedReplan: true, Reason: reason, Actions: []map[string]any{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
