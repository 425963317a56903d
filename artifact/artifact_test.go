package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/designmesh/core"
)

// Interface compliance (compile-time assertions)
var (
	_ core.ArtifactStore = (*InMemoryStore)(nil)
	_ core.ArtifactStore = (*DirStore)(nil)
)

func TestInMemoryStoreRoundTrip(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Get("s1", "a1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save("s1", "a1", []byte("one")))
	require.NoError(t, store.Save("s1", "a2", []byte("two")))
	require.NoError(t, store.Save("s2", "a1", []byte("other")))

	data, err := store.Get("s1", "a1")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)

	// copy isolation: mutating the returned slice must not leak back
	data[0] = 'X'
	again, _ := store.Get("s1", "a1")
	assert.Equal(t, []byte("one"), again)

	ids, err := store.List("s1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "a2"}, ids)

	require.NoError(t, store.Delete("s1", "a1"))
	assert.ErrorIs(t, store.Delete("s1", "a1"), ErrNotFound)

	require.NoError(t, store.DeleteSession("s1"))
	ids, _ = store.List("s1")
	assert.Empty(t, ids)

	// other sessions are untouched
	other, err := store.Get("s2", "a1")
	require.NoError(t, err)
	assert.Equal(t, []byte("other"), other)
}

func TestDirStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDirStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	require.NoError(t, store.Save("s1", "room.jpg", []byte("jpeg-bytes")))
	require.NoError(t, store.Save("s1", "designed.png", []byte("png-bytes")))
	require.NoError(t, store.Save("s2", "room.jpg", []byte("other")))

	// session prefix in the filename keeps the directory statically servable
	_, err = os.Stat(filepath.Join(store.Dir(), "s1_room.jpg"))
	require.NoError(t, err)

	data, err := store.Get("s1", "room.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	_, err = store.Get("s1", "missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	ids, err := store.List("s1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"room.jpg", "designed.png"}, ids)

	require.NoError(t, store.Delete("s1", "designed.png"))
	assert.ErrorIs(t, store.Delete("s1", "designed.png"), ErrNotFound)

	require.NoError(t, store.DeleteSession("s1"))
	ids, _ = store.List("s1")
	assert.Empty(t, ids)
	require.NoError(t, store.DeleteSession("s1")) // idempotent

	other, err := store.Get("s2", "room.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("other"), other)
}
