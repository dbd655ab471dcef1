package ports

import "go.trai.ch/vantage/internal/core/domain"

// MetadataLoader reads the metadata block of a task file.
//
//go:generate go run go.uber.org/mock/mockgen -source=metadata.go -destination=mocks/mock_metadata.go -package=mocks
type MetadataLoader interface {
	// Load returns the metadata of the task file at path.
	// A file without a metadata block yields empty metadata, not an error.
	Load(path string) (*domain.TaskMetadata, error)
}
