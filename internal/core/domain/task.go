package domain

import (
	"path/filepath"
	"strings"
)

// TaskKind distinguishes runnable tasks from namespaces of tasks.
type TaskKind int

const (
	// KindLeaf is an executable task file.
	KindLeaf TaskKind = iota
	// KindGroup is a directory of further tasks.
	KindGroup
)

// String returns the kind as used in logs.
func (k TaskKind) String() string {
	if k == KindGroup {
		return "group"
	}
	return "leaf"
}

// TaskRef identifies a discovered task.
type TaskRef struct {
	// Name is the logical name: the path stem.
	Name string
	Path string
	Kind TaskKind
}

// NewTaskRef builds a TaskRef named after the stem of path.
func NewTaskRef(path string, kind TaskKind) TaskRef {
	return TaskRef{Name: Stem(path), Path: path, Kind: kind}
}

// Key returns the cache key of the task's path.
func (t TaskRef) Key() PathKey {
	return KeyOf(t.Path)
}

// IsLeaf reports whether the task is directly runnable.
func (t TaskRef) IsLeaf() bool {
	return t.Kind == KindLeaf
}

// Stem returns the final path element without its last extension.
// A leading dot does not start an extension, so ".env" stays ".env".
func Stem(path string) string {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return base
	}
	return base[:i]
}
