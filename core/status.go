package core

// Status represents the lifecycle state of a design pipeline. The progression
// is strictly monotonic along Idle -> Analyzing -> Planning -> Shopping ->
// Designing -> Completed. StatusError is terminal and reachable from any
// in-progress state; no state is reachable from it.
type Status string

const (
	// StatusIdle is the initial state before the pipeline starts and the
	// state a cooperative stop returns the pipeline to.
	StatusIdle Status = "idle"
	// StatusAnalyzing covers the room analysis stage.
	StatusAnalyzing Status = "analyzing"
	// StatusPlanning covers the design planning stage.
	StatusPlanning Status = "planning"
	// StatusShopping covers the furniture shopping stage.
	StatusShopping Status = "shopping"
	// StatusDesigning covers the final design generation stage.
	StatusDesigning Status = "designing"
	// StatusCompleted marks a fully finished run.
	StatusCompleted Status = "completed"
	// StatusError is the terminal failure state for errors that escape a
	// stage's own guard.
	StatusError Status = "error"
)

// String returns the wire representation of the status.
func (s Status) String() string { return string(s) }

// Terminal reports whether no further stage may run after this status.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusError }

// rank orders the monotonic progression. Error sorts above everything so a
// transition into it is always forward.
var statusRank = map[Status]int{
	StatusIdle:      0,
	StatusAnalyzing: 1,
	StatusPlanning:  2,
	StatusShopping:  3,
	StatusDesigning: 4,
	StatusCompleted: 5,
	StatusError:     6,
}

// CanTransition reports whether moving from s to next honors the monotonic
// lifecycle. Transitions out of a terminal state are rejected, as are any
// backward moves. A stop resets to Idle and is handled separately by the
// pipeline, not through this check.
func (s Status) CanTransition(next Status) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusError {
		return true
	}
	return statusRank[next] > statusRank[s]
}
