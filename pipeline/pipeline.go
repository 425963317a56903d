package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/designmesh/capability"
	"github.com/hupe1980/designmesh/core"
	"github.com/hupe1980/designmesh/logging"
)

// Canonical stage names, in execution order.
const (
	StageRoomAnalysis      = "Room Analysis"
	StageDesignPlanning    = "Design Planning"
	StageFurnitureShopping = "Furniture Shopping"
	StageDesignGeneration  = "Design Generation"
)

var stageNames = []string{StageRoomAnalysis, StageDesignPlanning, StageFurnitureShopping, StageDesignGeneration}

// Bounds on shopping and enrichment work. The interplay of the per-requirement
// caps with the early-stop check on total list length is deliberate; keep the
// exact behavior when touching this code.
const (
	maxRequirements    = 3 // requirements considered by the shopping stage
	maxDisplayProducts = 3 // products shown per requirement in the report
	maxAppendProducts  = 2 // products appended per requirement
	maxFurnitureItems  = 5 // global cap on the running furniture list
	maxImageFetches    = 3 // product images fetched during design generation
)

// Options configure a Pipeline.
type Options struct {
	// PacingDelay is the courtesy delay between successive product searches.
	PacingDelay time.Duration
	// FetchTimeout bounds each individual product image fetch.
	FetchTimeout time.Duration
	// UploadsBasePath is the public path prefix artifacts are served under.
	UploadsBasePath string
	// Logger receives internal diagnostics (quiet per-item failures included).
	Logger logging.Logger
}

// Deps are the external collaborators a pipeline drives.
type Deps struct {
	Vision    capability.VisionModel
	Searcher  capability.ProductSearcher
	Generator capability.ImageGenerator
	Fetcher   capability.ImageFetcher
	Artifacts core.ArtifactStore
}

// Pipeline executes the four-stage design run for a single session. A
// pipeline instance is owned by exactly one session for its lifetime; Run is
// called once, on the session's own goroutine. Read accessors are safe to
// call concurrently with a run.
type Pipeline struct {
	sessionID   string
	roomImageID string // artifact id of the uploaded room photo
	deps        Deps
	opts        Options
	state       *State
	logger      logging.Logger
}

// New creates a pipeline for the session's uploaded room image (identified by
// its artifact id).
func New(sessionID, roomImageID string, deps Deps, optFns ...func(o *Options)) *Pipeline {
	opts := Options{
		PacingDelay:     500 * time.Millisecond,
		FetchTimeout:    2 * time.Second,
		UploadsBasePath: "/uploads",
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Pipeline{
		sessionID:   sessionID,
		roomImageID: roomImageID,
		deps:        deps,
		opts:        opts,
		state:       newState(sessionID),
		logger:      opts.Logger,
	}
}

// SessionID returns the owning session's identifier.
func (p *Pipeline) SessionID() string { return p.sessionID }

// State exposes the pipeline's run state for reporting.
func (p *Pipeline) State() *State { return p.state }

// Run executes the four stages strictly in sequence. Stage failures are
// absorbed by per-stage fallbacks; only an error escaping a stage's guard
// (surfaced as a panic) moves the run to the terminal error status. Run
// returns when the pipeline completes, errors out, or observes a cooperative
// stop between stages.
func (p *Pipeline) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("%v", r)
			p.state.fail(reason)
			p.state.addMessage("Error: " + reason)
			p.logger.Error("pipeline aborted", "session_id", p.sessionID, "error", reason)
		}
	}()

	p.state.transition(core.StatusAnalyzing)
	p.state.addMessage("Starting interior design analysis...")

	stages := []struct {
		status core.Status
		run    func(context.Context)
	}{
		{core.StatusAnalyzing, p.analyzeRoom},
		{core.StatusPlanning, p.createDesignPlan},
		{core.StatusShopping, p.searchFurniture},
		{core.StatusDesigning, p.generateFinalDesign},
	}
	for _, stage := range stages {
		if p.state.isStopped() {
			return
		}
		p.state.transition(stage.status)
		stage.run(ctx)
	}

	p.state.transition(core.StatusCompleted)
	p.state.addMessage("Interior design completed successfully!")
}

// Stop requests a cooperative stop: the status flips to Idle and no further
// stage starts. A stage already in flight finishes its current external call;
// its late messages are accepted. Only the first call appends the stop
// message; repeated calls are no-ops.
func (p *Pipeline) Stop() {
	if !p.state.markStopped() {
		return
	}
	p.state.addMessage("Agent stopped by user")
}

// guard runs a stage body and converts its failure into the documented
// fallback path: the reason lands in the error log under errLabel and the
// stage-specific fallback substitutes defaults. The stage name is appended to
// the completion list only on success.
func (p *Pipeline) guard(stage, errLabel string, body func() error, fallback func(err error)) {
	start := time.Now()
	err := body()
	if l, ok := p.logger.(*logging.DesignMeshLogger); ok {
		l.LogStage(stage, time.Since(start), err == nil, err)
	}
	if err == nil {
		p.state.completeStep(stage)
		return
	}
	p.state.addError(fmt.Sprintf("%s failed: %v", errLabel, err))
	if fallback != nil {
		fallback(err)
	}
}

// logCapability records latency and outcome of an external capability call
// when the structured logger is wired.
func (p *Pipeline) logCapability(name string, start time.Time, err error) {
	if l, ok := p.logger.(*logging.DesignMeshLogger); ok {
		l.LogCapabilityCall(name, time.Since(start), err == nil, err)
	}
}

// sleep pauses for the pacing delay, returning early when the context ends.
func (p *Pipeline) sleep(ctx context.Context) {
	if p.opts.PacingDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(p.opts.PacingDelay):
	}
}

// artifactRef builds the public path of a session artifact.
func (p *Pipeline) artifactRef(artifactID string) string {
	return p.opts.UploadsBasePath + "/" + p.sessionID + "_" + artifactID
}

// roomImage loads the uploaded room photo bytes.
func (p *Pipeline) roomImage() ([]byte, error) {
	return p.deps.Artifacts.Get(p.sessionID, p.roomImageID)
}
