// Package registry owns the mapping from session identifiers to running
// pipelines and exposes the client-facing status, plan and result views. It
// replaces ambient module state with an explicit object injected into the
// HTTP layer: created at process start, torn down at shutdown. Idle sessions
// are evicted on a TTL together with their artifacts.
package registry

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/hupe1980/designmesh/core"
	"github.com/hupe1980/designmesh/logging"
	"github.com/hupe1980/designmesh/pipeline"
)

var (
	// ErrNotFound is returned for lookups on unknown session ids.
	ErrNotFound = errors.New("session not found")
	// ErrNotCompleted is returned when results are requested before the
	// pipeline reaches the completed status.
	ErrNotCompleted = errors.New("design not yet completed")
	// ErrAlreadyRunning is returned when a session already owns a pipeline.
	ErrAlreadyRunning = errors.New("agent already running for this session")
)

// Options configure a Registry.
type Options struct {
	// SessionTTL evicts sessions untouched for this long. Zero keeps
	// sessions until an explicit stop.
	SessionTTL time.Duration
	// CleanupInterval is how often expired sessions are swept.
	CleanupInterval time.Duration
	// Logger receives registry diagnostics.
	Logger logging.Logger
	// PipelineOptions are forwarded to every pipeline the registry creates.
	PipelineOptions []func(o *pipeline.Options)
}

// Registry maps session ids to their pipeline instances. Safe for concurrent
// use; sessions share no mutable state apart from this map.
type Registry struct {
	deps     pipeline.Deps
	opts     Options
	sessions *gocache.Cache
	logger   logging.Logger
}

// New constructs a Registry driving pipelines with the given collaborators.
func New(deps pipeline.Deps, optFns ...func(o *Options)) *Registry {
	opts := Options{
		SessionTTL:      time.Hour,
		CleanupInterval: 10 * time.Minute,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	sessions := gocache.New(ttl, opts.CleanupInterval)

	r := &Registry{deps: deps, opts: opts, sessions: sessions, logger: opts.Logger}
	sessions.OnEvicted(func(sessionID string, v interface{}) {
		if p, ok := v.(*pipeline.Pipeline); ok {
			p.Stop()
		}
		if deps.Artifacts != nil {
			if err := deps.Artifacts.DeleteSession(sessionID); err != nil {
				r.logger.Warn("session artifact cleanup failed", "session_id", sessionID, "error", err)
			}
		}
	})
	return r
}

// Start creates the session's pipeline and begins asynchronous execution.
// It returns immediately; progress is observed through the reporter views.
func (r *Registry) Start(ctx context.Context, sessionID, roomImageID string) error {
	p := pipeline.New(sessionID, roomImageID, r.deps, r.opts.PipelineOptions...)
	if err := r.sessions.Add(sessionID, p, gocache.DefaultExpiration); err != nil {
		return ErrAlreadyRunning
	}
	r.logger.Info("pipeline started", "session_id", sessionID)
	go p.Run(ctx)
	return nil
}

// lookup resolves a session and refreshes its idle TTL.
func (r *Registry) lookup(sessionID string) (*pipeline.Pipeline, error) {
	v, ok := r.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNotFound
	}
	p := v.(*pipeline.Pipeline)
	r.sessions.Set(sessionID, p, gocache.DefaultExpiration)
	return p, nil
}

// Status returns the session's progress snapshot.
func (r *Registry) Status(sessionID string) (pipeline.Progress, error) {
	p, err := r.lookup(sessionID)
	if err != nil {
		return pipeline.Progress{}, err
	}
	return p.State().Snapshot(), nil
}

// PlanView couples the (possibly partial) report markdown with the current
// status.
type PlanView struct {
	Plan   string      `json:"plan"`
	Status core.Status `json:"status"`
}

// Plan returns the report assembled so far. Valid mid-run; partial reports
// remain inspectable.
func (r *Registry) Plan(sessionID string) (PlanView, error) {
	p, err := r.lookup(sessionID)
	if err != nil {
		return PlanView{}, err
	}
	return PlanView{Plan: p.State().Report(), Status: p.State().Status()}, nil
}

// Results returns the final bundle, or ErrNotCompleted while the run is
// still in progress (or ended in error).
func (r *Registry) Results(sessionID string) (pipeline.Results, error) {
	p, err := r.lookup(sessionID)
	if err != nil {
		return pipeline.Results{}, err
	}
	if p.State().Status() != core.StatusCompleted {
		return pipeline.Results{}, ErrNotCompleted
	}
	return p.Results(), nil
}

// Stop cooperatively stops the session's pipeline, evicts it and removes its
// artifacts. Stopping an unknown session returns ErrNotFound.
func (r *Registry) Stop(sessionID string) error {
	if _, ok := r.sessions.Get(sessionID); !ok {
		return ErrNotFound
	}
	// Delete triggers the eviction handler, which stops the pipeline and
	// removes the session's artifacts. TTL expiry takes the same path.
	r.sessions.Delete(sessionID)
	r.logger.Info("pipeline stopped", "session_id", sessionID)
	return nil
}

// Shutdown stops every active pipeline. Used at process teardown.
func (r *Registry) Shutdown() {
	for sessionID := range r.sessions.Items() {
		r.sessions.Delete(sessionID)
	}
}
