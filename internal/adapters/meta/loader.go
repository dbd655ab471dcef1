package meta

import (
	"os"
	"path/filepath"

	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports"
	"go.trai.ch/zerr"
)

// Loader implements ports.MetadataLoader with a per-run cache keyed by canonical path.
// Task files are treated as immutable for the lifetime of the process: entries are never
// invalidated. Returned metadata is shared and must not be modified.
type Loader struct {
	parser   *Parser
	logger   ports.Logger
	readFile func(string) ([]byte, error)
	cache    map[domain.PathKey]*domain.TaskMetadata
}

// NewLoader creates a Loader reading from the local filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		parser:   NewParser(logger),
		logger:   logger,
		readFile: os.ReadFile,
		cache:    make(map[domain.PathKey]*domain.TaskMetadata),
	}
}

// Load returns the metadata of the task file at path, parsing it at most once per run.
// Failed parses are not cached.
func (l *Loader) Load(path string) (*domain.TaskMetadata, error) {
	key := canonicalKey(path)
	if meta, ok := l.cache[key]; ok {
		return meta, nil
	}

	l.logger.Debug("  Loading meta from task file")
	content, err := l.readFile(key.String())
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrMetadataRead.Error()), "path", key.String())
	}

	meta, err := l.parser.Parse(content)
	if err != nil {
		return nil, zerr.With(err, "path", key.String())
	}

	l.cache[key] = meta
	return meta, nil
}

// cached reports whether path already has a cache entry.
func (l *Loader) cached(path string) bool {
	_, ok := l.cache[canonicalKey(path)]
	return ok
}

// canonicalKey resolves path to an absolute path with symlinks evaluated, falling back to
// the cleaned absolute path when the file cannot be resolved.
func canonicalKey(path string) domain.PathKey {
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.KeyOf(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return domain.KeyOf(resolved)
	}
	return domain.KeyOf(abs)
}
