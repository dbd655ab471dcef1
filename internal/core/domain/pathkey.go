package domain

import (
	"path/filepath"
	"unique"
)

// PathKey is an interned, cleaned filesystem path.
// It is the key of every per-run cache (metadata, built commands).
type PathKey struct {
	h unique.Handle[string]
}

// KeyOf interns the cleaned form of path.
func KeyOf(path string) PathKey {
	return PathKey{h: unique.Make(filepath.Clean(path))}
}

// String returns the cleaned path, or "" for the zero key.
func (k PathKey) String() string {
	var zero unique.Handle[string]
	if k.h == zero {
		return ""
	}
	return k.h.Value()
}

// IsZero reports whether the key was never assigned.
func (k PathKey) IsZero() bool {
	var zero unique.Handle[string]
	return k.h == zero
}
