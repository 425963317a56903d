package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/designmesh/artifact"
	"github.com/hupe1980/designmesh/capability"
	"github.com/hupe1980/designmesh/core"
	"github.com/hupe1980/designmesh/pipeline"
)

func newTestRegistry(t *testing.T) (*Registry, *artifact.InMemoryStore) {
	t.Helper()
	store := artifact.NewInMemoryStore()
	deps := pipeline.Deps{
		Vision:    capability.NewMockVision(),
		Searcher:  capability.NewMockSearcher(),
		Generator: &capability.MockGenerator{},
		Fetcher:   &capability.MockFetcher{},
		Artifacts: store,
	}
	reg := New(deps, func(o *Options) {
		o.PipelineOptions = []func(o *pipeline.Options){
			func(o *pipeline.Options) { o.PacingDelay = 0 },
		}
	})
	return reg, store
}

func waitForStatus(t *testing.T, reg *Registry, sessionID string, want core.Status) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		progress, err := reg.Status(sessionID)
		require.NoError(t, err)
		if progress.Status == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("session %s never reached %s, last status %s", sessionID, want, progress.Status)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRegistryStartAndResults(t *testing.T) {
	reg, store := newTestRegistry(t)
	require.NoError(t, store.Save("s1", "room.jpg", []byte("room")))

	require.NoError(t, reg.Start(context.Background(), "s1", "room.jpg"))
	waitForStatus(t, reg, "s1", core.StatusCompleted)

	results, err := reg.Results("s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", results.SessionID)
	assert.NotEmpty(t, results.DesignedImage)
	assert.NotEmpty(t, results.DesignDescription)

	view, err := reg.Plan("s1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, view.Status)
	assert.Contains(t, view.Plan, "# Interior Design Plan")
}

func TestRegistryStartTwice(t *testing.T) {
	reg, store := newTestRegistry(t)
	require.NoError(t, store.Save("s1", "room.jpg", []byte("room")))

	require.NoError(t, reg.Start(context.Background(), "s1", "room.jpg"))
	err := reg.Start(context.Background(), "s1", "room.jpg")
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestRegistryUnknownSession(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Status("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = reg.Plan("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = reg.Results("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, reg.Stop("nope"), ErrNotFound)
}

func TestRegistryResultsBeforeCompletion(t *testing.T) {
	reg, store := newTestRegistry(t)
	require.NoError(t, store.Save("s1", "room.jpg", []byte("room")))

	// register without running: the pipeline sits idle
	p := pipeline.New("s1", "room.jpg", pipeline.Deps{Artifacts: store})
	require.NoError(t, reg.sessions.Add("s1", p, 0))

	_, err := reg.Results("s1")
	assert.ErrorIs(t, err, ErrNotCompleted)
}

func TestRegistryStopCleansUp(t *testing.T) {
	reg, store := newTestRegistry(t)
	require.NoError(t, store.Save("s1", "room.jpg", []byte("room")))

	require.NoError(t, reg.Start(context.Background(), "s1", "room.jpg"))
	waitForStatus(t, reg, "s1", core.StatusCompleted)

	p, err := reg.lookup("s1")
	require.NoError(t, err)

	require.NoError(t, reg.Stop("s1"))

	// eviction and the explicit stop share one path, so the stop message
	// lands exactly once in the audit trail
	stops := 0
	for _, m := range p.State().Snapshot().Messages {
		if m.Text == "Agent stopped by user" {
			stops++
		}
	}
	assert.Equal(t, 1, stops)

	// session is gone along with its artifacts
	_, err = reg.Status("s1")
	assert.ErrorIs(t, err, ErrNotFound)
	ids, err := store.List("s1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	// stopping again reports not found
	assert.ErrorIs(t, reg.Stop("s1"), ErrNotFound)

	// the same session id can start fresh afterwards
	require.NoError(t, store.Save("s1", "room.jpg", []byte("room")))
	require.NoError(t, reg.Start(context.Background(), "s1", "room.jpg"))
}

func TestRegistryShutdown(t *testing.T) {
	reg, store := newTestRegistry(t)
	require.NoError(t, store.Save("s1", "room.jpg", []byte("room")))
	require.NoError(t, store.Save("s2", "room.jpg", []byte("room")))

	require.NoError(t, reg.Start(context.Background(), "s1", "room.jpg"))
	require.NoError(t, reg.Start(context.Background(), "s2", "room.jpg"))

	reg.Shutdown()

	_, err := reg.Status("s1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = reg.Status("s2")
	assert.ErrorIs(t, err, ErrNotFound)
}
