// Package fs provides the filesystem task locator.
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

var _ ports.Locator = (*Locator)(nil)

// Locator finds tasks below an ordered list of search roots.
type Locator struct {
	logger ports.Logger
}

// NewLocator creates a new Locator.
func NewLocator(logger ports.Logger) *Locator {
	return &Locator{logger: logger}
}

// Locate resolves name against roots in order; the first root holding a match wins.
// Roots that are not directories are skipped.
func (l *Locator) Locate(name string, roots []string) (domain.TaskRef, error) {
	for _, root := range roots {
		l.logger.Debug(fmt.Sprintf("Looking in %s for task file", root))
		if !isDir(root) {
			continue
		}
		if ref, ok := l.locateIn(root, name); ok {
			return ref, nil
		}
	}

	return domain.TaskRef{}, zerr.With(zerr.With(domain.ErrTaskNotFound, "task", name), "roots", roots)
}

// locateIn tries, in order: an executable named exactly name, an executable name.<ext>,
// then a directory named name. A directory holding a leaf of its own name resolves to that
// leaf; otherwise it is a group.
func (l *Locator) locateIn(dir, name string) (domain.TaskRef, bool) {
	l.logger.Debug(fmt.Sprintf("Trying to find %s in %s", name, dir))

	candidate := filepath.Join(dir, name)
	if isExecutable(candidate) {
		l.logger.Debug("It's an executable script")
		return domain.NewTaskRef(candidate, domain.KindLeaf), true
	}

	matches, _ := filepath.Glob(filepath.Join(dir, escapeGlob(name)+".*"))
	for _, match := range matches {
		if isExecutable(match) {
			l.logger.Debug("It's an executable script with a file ext")
			return domain.NewTaskRef(match, domain.KindLeaf), true
		}
	}

	if !isDir(candidate) {
		return domain.TaskRef{}, false
	}

	if nested, ok := l.locateIn(candidate, filepath.Base(name)); ok && nested.IsLeaf() {
		l.logger.Debug("It's an executable script inside a folder of the same name")
		return nested, true
	}

	l.logger.Debug("It's a folder of other tasks")
	return domain.NewTaskRef(candidate, domain.KindGroup), true
}

// ListNames returns the stem of every directory and executable file directly below each
// root, root by root. Names defined in several roots are listed once per root.
func (l *Locator) ListNames(roots []string) ([]string, error) {
	var names []string
	for _, root := range roots {
		if !isDir(root) {
			continue
		}
		l.logger.Debug(fmt.Sprintf("Listing tasks inside %s", root))
		refs, err := entries(root)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			names = append(names, ref.Name)
		}
	}
	return names, nil
}

// Entries lists the immediate children of a group. Nested directories are returned as
// groups without being walked.
func (l *Locator) Entries(group domain.TaskRef) ([]domain.TaskRef, error) {
	if group.IsLeaf() {
		return nil, zerr.With(domain.ErrListFailed, "path", group.Path)
	}
	l.logger.Debug(fmt.Sprintf("Walking %s looking for sub commands", group.Path))
	return entries(group.Path)
}

func entries(dir string) ([]domain.TaskRef, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrListFailed.Error()), "path", dir)
	}

	refs := make([]domain.TaskRef, 0, len(dirEntries))
	for _, entry := range dirEntries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case isDir(path):
			refs = append(refs, domain.NewTaskRef(path, domain.KindGroup))
		case isExecutable(path):
			refs = append(refs, domain.NewTaskRef(path, domain.KindLeaf))
		}
	}
	return refs, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// isExecutable reports whether path is a regular file the current user may execute.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}

func escapeGlob(name string) string {
	out := make([]byte, 0, len(name))
	for i := range len(name) {
		switch c := name[i]; c {
		case '*', '?', '[', '\\':
			out = append(out, '\\', c)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
