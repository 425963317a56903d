package core

import "github.com/google/uuid"

// NewID returns a new opaque unique identifier. Used for session ids and
// generated artifact filenames.
func NewID() string { return uuid.NewString() }

// ShortID returns an 8 character identifier fragment, handy for filename
// suffixes where a full UUID is noise.
func ShortID() string { return uuid.NewString()[:8] }
