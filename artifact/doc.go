// Package artifact provides implementations of core.ArtifactStore for the
// files a design session owns: the uploaded room photo, fetched product
// images and the generated design. DirStore persists to a single flat
// directory with session-prefixed filenames (the layout the HTTP layer serves
// statically); InMemoryStore backs tests.
package artifact
