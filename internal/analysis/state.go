package analysis

import "causeway/internal/confounder"

// State enumerates the orchestration steps of one analysis request. The
// transitions are pure functions so the WAIT/BRIEF branching is testable
// without the I/O-bound collaborators.
type State int

const (
	StateReceived State = iota
	StateConfounderChecked
	StateRetrieving
	StateWaiting
	StateBriefDrafted
	StateFailed
	StateRecorded
	StateResponded
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateConfounderChecked:
		return "confounder_checked"
	case StateRetrieving:
		return "retrieving"
	case StateWaiting:
		return "waiting"
	case StateBriefDrafted:
		return "brief_drafted"
	case StateFailed:
		return "failed"
	case StateRecorded:
		return "recorded"
	case StateResponded:
		return "responded"
	default:
		return "unknown"
	}
}

// routeAfterCheck decides the branch taken once the verdict is known. An
// unsafe verdict is a hard stop: no retrieval or generation may follow.
func routeAfterCheck(verdict confounder.Verdict) State {
	if verdict.Safe {
		return StateRetrieving
	}
	return StateWaiting
}

// routeAfterGeneration decides the terminal work state once generation has
// been attempted.
func routeAfterGeneration(err error) State {
	if err != nil {
		return StateFailed
	}
	return StateBriefDrafted
}
