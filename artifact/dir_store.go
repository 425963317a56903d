package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DirStore persists artifacts to a single flat directory. Filenames are
// "<sessionID>_<artifactID>" so a session's files can be listed and deleted
// by prefix and the directory can be served statically as-is. Safe for
// concurrent use.
type DirStore struct {
	mu  sync.Mutex
	dir string
}

// NewDirStore creates the directory if needed and returns a store rooted at it.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact dir: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the backing directory path.
func (d *DirStore) Dir() string { return d.dir }

// Path returns the filesystem path an artifact is (or would be) stored at.
func (d *DirStore) Path(sessionID, artifactID string) string {
	return filepath.Join(d.dir, fileName(sessionID, artifactID))
}

// Save writes the artifact bytes, overwriting any previous content.
func (d *DirStore) Save(sessionID, artifactID string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return os.WriteFile(d.Path(sessionID, artifactID), data, 0o644)
}

// Get reads the artifact bytes or returns ErrNotFound.
func (d *DirStore) Get(sessionID, artifactID string) ([]byte, error) {
	data, err := os.ReadFile(d.Path(sessionID, artifactID))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

// List returns the artifact ids (filename minus the session prefix) stored
// for the session.
func (d *DirStore) List(sessionID string) ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}
	prefix := sessionID + "_"
	ids := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			ids = append(ids, strings.TrimPrefix(e.Name(), prefix))
		}
	}
	return ids, nil
}

// Delete removes the artifact file or returns ErrNotFound.
func (d *DirStore) Delete(sessionID, artifactID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := os.Remove(d.Path(sessionID, artifactID))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// DeleteSession removes every file whose name carries the session prefix.
// Missing sessions are a no-op.
func (d *DirStore) DeleteSession(sessionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return err
	}
	prefix := sessionID + "_"
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			if err := os.Remove(filepath.Join(d.dir, e.Name())); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}

func fileName(sessionID, artifactID string) string {
	return sessionID + "_" + artifactID
}
