package pipeline

import (
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/designmesh/core"
)

// State tracks the mutable run state of one pipeline: lifecycle status, the
// append-only message / error / report trails and the accumulated results.
// It is safe for concurrent access; readers get defensive copies.
//
// Contract:
//   - status moves only forward along the lifecycle (stop resets to Idle)
//   - messages, errors and stepsCompleted are append-only
//   - the markdown report is never retracted once a section is written
type State struct {
	mu             sync.RWMutex
	status         core.Status
	currentStep    string
	stepsCompleted []string
	messages       []core.Message
	errors         []string
	report         strings.Builder
	plan           core.DesignPlan
	furniture      []core.FurnitureItem
	designedImage  string // artifact id of the generated design
	stopped        bool
	started        time.Time
}

// newState initializes an idle state for a session.
func newState(sessionID string) *State {
	return &State{
		status:  core.StatusIdle,
		started: time.Now(),
		plan: core.DesignPlan{
			SessionID:       sessionID,
			CreatedAt:       time.Now(),
			DesignStyle:     "modern",
			FurnitureNeeded: []core.FurnitureRequirement{},
			ColorScheme:     []string{},
		},
	}
}

// Status returns the current lifecycle status.
func (s *State) Status() core.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// transition moves the status forward. Backward moves and moves out of a
// terminal state are ignored, which keeps a late-finishing stage from
// resurrecting a failed or completed run.
func (s *State) transition(next core.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.CanTransition(next) {
		s.status = next
	}
}

// markStopped flips the pipeline back to Idle. The stop is cooperative: a
// stage already in flight finishes its current call and may still append a
// late message afterwards. Returns false when a stop was already requested.
func (s *State) markStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.stopped = true
	if !s.status.Terminal() {
		s.status = core.StatusIdle
	}
	return true
}

// isStopped reports whether a cooperative stop was requested.
func (s *State) isStopped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopped
}

// fail records a fatal error and moves the pipeline into the terminal error
// status.
func (s *State) fail(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.CanTransition(core.StatusError) {
		s.status = core.StatusError
	}
	s.errors = append(s.errors, reason)
}

// setCurrentStep updates the display-only step label.
func (s *State) setCurrentStep(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentStep = label
}

// addMessage appends a timestamped progress entry.
func (s *State) addMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, core.Message{Timestamp: time.Now(), Text: text})
}

// addError appends an error string without forcing a status transition.
func (s *State) addError(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, text)
}

// completeStep appends a stage name to the ordered completion list.
func (s *State) completeStep(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepsCompleted = append(s.stepsCompleted, name)
}

// appendReport appends a markdown fragment to the report buffer.
func (s *State) appendReport(md string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.WriteString(md)
}

// Report returns the report markdown assembled so far.
func (s *State) Report() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report.String()
}

// Plan returns a copy of the design plan.
func (s *State) Plan() core.DesignPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan := s.plan
	plan.FurnitureNeeded = append([]core.FurnitureRequirement(nil), s.plan.FurnitureNeeded...)
	plan.ColorScheme = append([]string(nil), s.plan.ColorScheme...)
	if s.plan.RoomAnalysis != nil {
		ra := *s.plan.RoomAnalysis
		plan.RoomAnalysis = &ra
	}
	return plan
}

// setAnalysis stores the room analysis. Called once by the analysis stage.
func (s *State) setAnalysis(ra core.RoomAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan.RoomAnalysis = &ra
}

// mergePlan merges planning output into the design plan.
func (s *State) mergePlan(style string, budget float64, furniture []core.FurnitureRequirement, colors []string, layout string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if style != "" {
		s.plan.DesignStyle = style
	}
	if budget > 0 {
		s.plan.BudgetEstimate = budget
	}
	if len(furniture) > 0 {
		s.plan.FurnitureNeeded = furniture
	}
	if len(colors) > 0 {
		s.plan.ColorScheme = colors
	}
	if layout != "" {
		s.plan.LayoutDescription = layout
	}
}

// Furniture returns a copy of the accumulated furniture items.
func (s *State) Furniture() []core.FurnitureItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.FurnitureItem(nil), s.furniture...)
}

// furnitureCount returns the length of the running furniture list.
func (s *State) furnitureCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.furniture)
}

// addFurniture appends an item to the running list.
func (s *State) addFurniture(item core.FurnitureItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.furniture = append(s.furniture, item)
}

// setFurnitureImage records the fetched image references on the item at idx.
func (s *State) setFurnitureImage(idx int, imageURL, localPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx >= 0 && idx < len(s.furniture) {
		s.furniture[idx].ImageURL = imageURL
		s.furniture[idx].LocalImagePath = localPath
	}
}

// setDesignedImage records the artifact id of the generated design.
func (s *State) setDesignedImage(artifactID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.designedImage = artifactID
}

// DesignedImage returns the artifact id of the generated design, if any.
func (s *State) DesignedImage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.designedImage
}

// Elapsed returns the wall-clock duration since the pipeline started.
func (s *State) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.started)
}

// Progress is the client-facing status snapshot.
type Progress struct {
	Status             core.Status    `json:"status"`
	CurrentStep        string         `json:"current_step"`
	StepsCompleted     []string       `json:"steps_completed"`
	ProgressPercentage float64        `json:"progress_percentage"`
	Messages           []core.Message `json:"messages"`
	Errors             []string       `json:"errors"`
}

// Snapshot returns a consistent progress view. Percentage is completed steps
// over the four canonical stages.
func (s *State) Snapshot() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Progress{
		Status:             s.status,
		CurrentStep:        s.currentStep,
		StepsCompleted:     append([]string(nil), s.stepsCompleted...),
		ProgressPercentage: float64(len(s.stepsCompleted)) / float64(len(stageNames)) * 100,
		Messages:           append([]core.Message(nil), s.messages...),
		Errors:             append([]string(nil), s.errors...),
	}
}
