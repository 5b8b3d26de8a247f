package level

import "context"

// State is a node of the question sequencing machine.
type State int

const (
	StateEasy State = iota
	StateMedium
	StateHard
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateEasy:
		return "EASY"
	case StateMedium:
		return "MEDIUM"
	case StateHard:
		return "HARD"
	case StateComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Difficulty maps a tier state to the question difficulty it serves.
func (s State) Difficulty() (Difficulty, bool) {
	switch s {
	case StateEasy:
		return DifficultyEasy, true
	case StateMedium:
		return DifficultyMedium, true
	case StateHard:
		return DifficultyHard, true
	default:
		return "", false
	}
}

// Step is the result of one transition.
type Step struct {
	State    State
	Question *Question
}

// Done reports whether the level has no questions left to present.
func (s Step) Done() bool {
	return s.State == StateComplete
}

// Transition picks the next question for the given tier state. It never moves backwards:
// an exhausted tier advances to the next one, and an exhausted HARD tier yields COMPLETE.
// The first unanswered question of the tier, in source order, is selected.
func Transition(state State, answered *AnsweredSet, all []Question) Step {
	if len(all) == 0 {
		return Step{State: StateComplete}
	}
	for ; state < StateComplete; state++ {
		diff, _ := state.Difficulty()
		for i := range all {
			q := &all[i]
			if q.Difficulty == diff && !answered.Has(q.ID) {
				return Step{State: state, Question: q}
			}
		}
	}
	return Step{State: StateComplete}
}

// Machine owns the sequencer state for one level visit and dispatches the completion hook
// exactly once, on the first entry into COMPLETE.
type Machine struct {
	state      State
	onComplete func(ctx context.Context)
	fired      bool
}

// NewMachine starts in EASY. onComplete may be nil.
func NewMachine(onComplete func(ctx context.Context)) *Machine {
	return &Machine{state: StateEasy, onComplete: onComplete}
}

// State returns the current tier.
func (m *Machine) State() State {
	return m.state
}

// Advance re-evaluates the machine against the current answered-set.
func (m *Machine) Advance(ctx context.Context, answered *AnsweredSet, all []Question) Step {
	step := Transition(m.state, answered, all)
	m.state = step.State
	if step.Done() && !m.fired {
		m.fired = true
		if m.onComplete != nil {
			m.onComplete(ctx)
		}
	}
	return step
}

// Fired reports whether the completion hook has been dispatched.
func (m *Machine) Fired() bool {
	return m.fired
}
