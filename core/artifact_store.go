package core

// ArtifactStore defines the interface for artifact persistence (uploaded room
// photos, fetched product images, generated designs). Implementations must be
// thread-safe and scope artifacts by session identifier. DeleteSession removes
// everything a session owns and is the hook used by registry cleanup.
type ArtifactStore interface {
	Save(sessionID, artifactID string, data []byte) error
	Get(sessionID, artifactID string) ([]byte, error)
	List(sessionID string) ([]string, error)
	Delete(sessionID, artifactID string) error
	DeleteSession(sessionID string) error
}
