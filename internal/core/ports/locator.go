package ports

import "go.trai.ch/vantage/internal/core/domain"

// Locator finds tasks below an ordered list of search roots.
//
//go:generate go run go.uber.org/mock/mockgen -source=locator.go -destination=mocks/mock_locator.go -package=mocks
type Locator interface {
	// Locate resolves name against roots in order; the first match wins.
	// It returns domain.ErrTaskNotFound when no root holds the task.
	Locate(name string, roots []string) (domain.TaskRef, error)

	// ListNames returns the names of every task and group directly below each root.
	// Names defined in several roots are listed once per root.
	ListNames(roots []string) ([]string, error)

	// Entries returns the immediate children of a group.
	Entries(group domain.TaskRef) ([]domain.TaskRef, error)
}
