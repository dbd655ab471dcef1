package ports

import "go.trai.ch/vantage/internal/core/domain"

// BuildRequest carries everything needed to build one task invocation.
type BuildRequest struct {
	Task     domain.TaskRef
	Metadata *domain.TaskMetadata
	// Env is the effective environment of the run.
	Env *domain.Environment
	// AmbientPath is the PATH of the vg process itself.
	AmbientPath string
	// Dir is the working directory, the application root.
	Dir  string
	Args []string
}

// InvocationBuilder turns a resolved task into a process invocation.
//
//go:generate go run go.uber.org/mock/mockgen -source=invocation.go -destination=mocks/mock_invocation.go -package=mocks
type InvocationBuilder interface {
	Build(req BuildRequest) (*domain.Invocation, error)
}
