package ports

import (
	"context"

	"go.trai.ch/vantage/internal/core/domain"
)

// ProcessRunner spawns an invocation and waits for it.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type ProcessRunner interface {
	// Run blocks until the process exits. A non-zero exit is reported as *domain.ExitError.
	Run(ctx context.Context, inv *domain.Invocation) error
}
