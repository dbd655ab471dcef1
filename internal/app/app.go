// Package app implements the application layer for vg.
package app

import (
	"context"
	"fmt"

	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports"
	"go.trai.ch/vantage/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	env       *domain.Environment
	settings  ports.SettingsReader
	locator   ports.Locator
	loader    ports.MetadataLoader
	scheduler *scheduler.Scheduler
	logger    ports.Logger
}

// New creates a new App instance. env is the ambient environment of the process.
func New(
	env *domain.Environment,
	settings ports.SettingsReader,
	locator ports.Locator,
	loader ports.MetadataLoader,
	sched *scheduler.Scheduler,
	log ports.Logger,
) *App {
	return &App{
		env:       env,
		settings:  settings,
		locator:   locator,
		loader:    loader,
		scheduler: sched,
		logger:    log,
	}
}

// Roots returns the search roots configured by the ambient environment.
func (a *App) Roots() ([]string, error) {
	settings, err := a.settings.Read(a.env)
	if err != nil {
		return nil, err
	}
	return settings.Roots(), nil
}

// Lookup resolves a top-level task or group by name.
func (a *App) Lookup(name string) (domain.TaskRef, error) {
	roots, err := a.Roots()
	if err != nil {
		return domain.TaskRef{}, err
	}
	return a.locator.Locate(name, roots)
}

// List returns the names of every top-level task and group, root by root.
func (a *App) List() ([]string, error) {
	roots, err := a.Roots()
	if err != nil {
		return nil, err
	}
	return a.locator.ListNames(roots)
}

// Entries returns the immediate children of a group.
func (a *App) Entries(group domain.TaskRef) ([]domain.TaskRef, error) {
	return a.locator.Entries(group)
}

// Help returns the help text of a task. Unreadable metadata only produces a warning here;
// it fails when the task is run.
func (a *App) Help(task domain.TaskRef) string {
	if !task.IsLeaf() {
		return ""
	}
	meta, err := a.loader.Load(task.Path)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("ignoring metadata of %s: %v", task.Name, err))
		return ""
	}
	return meta.HelpText
}

// RunTask runs task and its prerequisites with a copy of the ambient environment.
// A non-zero exit is returned as *domain.ExitError.
func (a *App) RunTask(ctx context.Context, task domain.TaskRef, args []string) error {
	if !task.IsLeaf() {
		return zerr.With(domain.ErrNotALeaf, "task", task.Name)
	}
	return a.scheduler.Run(ctx, task, a.env.Clone(), args)
}
