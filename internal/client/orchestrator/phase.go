package orchestrator

import "fmt"

// Phase is a step of one generation run
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseInitial    Phase = "initial"
	PhaseBackground Phase = "background"
	PhaseComplete   Phase = "complete"
	PhaseError      Phase = "error"
)

var transitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseSubmitting},
	PhaseSubmitting: {PhaseInitial, PhaseError},
	PhaseInitial:    {PhaseBackground, PhaseComplete, PhaseError},
	PhaseBackground: {PhaseComplete, PhaseError},
	PhaseComplete:   {PhaseSubmitting, PhaseIdle},
	PhaseError:      {PhaseSubmitting, PhaseIdle},
}

// CanTransition reports whether next may follow p
func (p Phase) CanTransition(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Busy is true while a generation is running
func (p Phase) Busy() bool {
	return p == PhaseSubmitting || p == PhaseInitial || p == PhaseBackground
}

// ProgressText is the status line shown for p
func (p Phase) ProgressText() string {
	switch p {
	case PhaseIdle:
		return "Ready"
	case PhaseSubmitting:
		return "Sending request to the question generator..."
	case PhaseInitial:
		return "Loading initial questions..."
	case PhaseBackground:
		return "Loading additional questions in background..."
	case PhaseComplete:
		return "All questions loaded!"
	case PhaseError:
		return "Generation failed"
	default:
		return "Processing..."
	}
}

// TransitionError reports an illegal phase change
type TransitionError struct {
	From, To Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move from %s to %s", e.From, e.To)
}
