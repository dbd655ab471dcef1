// Package scheduler runs tasks and their prerequisites.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports"
	"go.trai.ch/zerr"
)

// State is the progress of a task run.
type State string

const (
	// StateStart is the state of a run that has not loaded its metadata yet.
	StateStart State = "Start"
	// StateMetadataLoaded indicates the task's metadata block was parsed.
	StateMetadataLoaded State = "MetadataLoaded"
	// StateEnvironmentComposed indicates overrides and defaults were applied.
	StateEnvironmentComposed State = "EnvironmentComposed"
	// StatePrerequisitesRunning indicates a required task is running.
	StatePrerequisitesRunning State = "PrerequisitesRunning"
	// StateInvoking indicates the task process is running.
	StateInvoking State = "Invoking"
	// StateSucceeded indicates the task process exited with status zero.
	StateSucceeded State = "Succeeded"
	// StateFailed indicates the run stopped on an error or a non-zero exit.
	StateFailed State = "Failed"
)

// Scheduler executes one task at a time, running required tasks depth-first before the
// task that declares them.
type Scheduler struct {
	loader   ports.MetadataLoader
	locator  ports.Locator
	builder  ports.InvocationBuilder
	runner   ports.ProcessRunner
	settings ports.SettingsReader
	tracer   ports.Tracer
	logger   ports.Logger

	ambientPath string

	running []domain.PathKey
	states  map[domain.PathKey]State
}

// NewScheduler creates a new Scheduler. ambientPath is the PATH of the vg process.
func NewScheduler(
	loader ports.MetadataLoader,
	locator ports.Locator,
	builder ports.InvocationBuilder,
	runner ports.ProcessRunner,
	settings ports.SettingsReader,
	tracer ports.Tracer,
	logger ports.Logger,
	ambientPath string,
) *Scheduler {
	return &Scheduler{
		loader:      loader,
		locator:     locator,
		builder:     builder,
		runner:      runner,
		settings:    settings,
		tracer:      tracer,
		logger:      logger,
		ambientPath: ambientPath,
		states:      make(map[domain.PathKey]State),
	}
}

// state returns the last state reached by task in this process, and whether it ran at all.
func (s *Scheduler) state(task domain.TaskRef) (State, bool) {
	state, ok := s.states[task.Key()]
	return state, ok
}

// Run executes task with the ambient environment env and the trailing arguments args.
// A non-zero exit of the task, or of any prerequisite, is returned as the unwrapped
// *domain.ExitError carrying that exact code.
func (s *Scheduler) Run(ctx context.Context, task domain.TaskRef, env *domain.Environment, args []string) error {
	if !task.IsLeaf() {
		return zerr.With(domain.ErrNotALeaf, "task", task.Name)
	}

	key := task.Key()
	if slices.Contains(s.running, key) {
		return zerr.With(zerr.With(domain.ErrCycleDetected, "task", task.Name), "chain", s.chain(key))
	}
	s.running = append(s.running, key)
	defer func() { s.running = s.running[:len(s.running)-1] }()

	ctx, span := s.tracer.Start(ctx, "task "+task.Name)
	defer span.End()
	span.SetAttribute("task.path", task.Path)

	if err := s.run(ctx, span, task, env, args); err != nil {
		s.states[key] = StateFailed
		span.RecordError(err)
		return err
	}

	s.states[key] = StateSucceeded
	return nil
}

func (s *Scheduler) run(
	ctx context.Context,
	span ports.Span,
	task domain.TaskRef,
	env *domain.Environment,
	args []string,
) error {
	key := task.Key()
	s.logger.Debug(fmt.Sprintf("Running task in %s", task.Path))
	s.states[key] = StateStart

	meta, err := s.loader.Load(task.Path)
	if err != nil {
		return err
	}
	span.SetAttribute("task.digest", meta.Digest)
	s.states[key] = StateMetadataLoaded

	composed := s.compose(env, meta)
	settings, err := s.settings.Read(composed)
	if err != nil {
		return zerr.With(err, "task", task.Name)
	}
	s.states[key] = StateEnvironmentComposed

	runRequired := settings.ShouldRunRequired(meta)
	s.logger.Debug(fmt.Sprintf("  Run required? %s", yesNo(runRequired)))
	if runRequired {
		if err := s.runRequired(ctx, task, meta.Requires, env, settings.Roots()); err != nil {
			return err
		}
	}

	inv, err := s.builder.Build(ports.BuildRequest{
		Task:        task,
		Metadata:    meta,
		Env:         composed,
		AmbientPath: s.ambientPath,
		Dir:         settings.AppDir,
		Args:        args,
	})
	if err != nil {
		return err
	}
	s.states[key] = StateInvoking
	span.SetAttribute("task.mode", string(inv.Mode))

	s.logger.Debug(fmt.Sprintf("Running command %s with args %v", inv.Executable, inv.Args))
	err = s.runner.Run(ctx, inv)

	var exitErr *domain.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Task == "" {
			exitErr.Task = task.Name
		}
		span.SetAttribute("task.exit_code", exitErr.Code)
		s.logger.Debug(fmt.Sprintf("  Something went wrong, returned exit code %d", exitErr.Code))
		return exitErr
	}
	if err != nil {
		return err
	}

	span.SetAttribute("task.exit_code", 0)
	return nil
}

// runRequired runs each prerequisite in declared order with a copy of the dependent's
// ambient environment. The first failure stops the dependent.
func (s *Scheduler) runRequired(
	ctx context.Context,
	task domain.TaskRef,
	requires []string,
	env *domain.Environment,
	roots []string,
) error {
	for _, name := range requires {
		s.states[task.Key()] = StatePrerequisitesRunning
		s.logger.Debug(fmt.Sprintf("  Running required task: %s", name))

		required, err := s.locator.Locate(name, roots)
		if err != nil {
			return zerr.With(err, "required_by", task.Name)
		}
		if err := s.Run(ctx, required, env.Clone(), nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) compose(env *domain.Environment, meta *domain.TaskMetadata) *domain.Environment {
	if meta.Overrides != nil {
		s.logger.Debug("  Updating env with override vars in task meta")
		for _, kv := range meta.Overrides.List() {
			s.logger.Debug("    " + kv)
		}
	}
	if meta.Defaults != nil {
		s.logger.Debug("  Updating env with default vars in task meta")
		for _, kv := range meta.Defaults.List() {
			s.logger.Debug("    " + kv)
		}
	}
	return env.Compose(meta.Overrides, meta.Defaults)
}

// chain renders the running stack from its first occurrence of key, closed by key.
func (s *Scheduler) chain(key domain.PathKey) []string {
	start := slices.Index(s.running, key)
	out := make([]string, 0, len(s.running)-start+1)
	for _, k := range s.running[start:] {
		out = append(out, domain.Stem(k.String()))
	}
	return append(out, domain.Stem(key.String()))
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
