package shell_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vantage/internal/adapters/shell"
	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newRunner(t *testing.T, stdout *bytes.Buffer) *shell.Runner {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return shell.NewRunner(log, shell.Streams{In: strings.NewReader(""), Out: stdout, Err: stdout})
}

func script(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), domain.ExecPerm))
	return path
}

func TestRunner_Run_Success(t *testing.T) {
	dir := t.TempDir()
	task := script(t, dir, "hello.sh", `echo "hello $NAME $1 from $(pwd)"`)

	var out bytes.Buffer
	err := newRunner(t, &out).Run(context.Background(), &domain.Invocation{
		Mode:       domain.ModeDirect,
		Executable: task,
		Args:       []string{"world"},
		Env:        domain.EnvironmentFromPairs("PATH", os.Getenv("PATH"), "NAME", "vg"),
		Dir:        dir,
	})
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "hello vg world from ")
	assert.Contains(t, out.String(), filepath.Base(resolved))
}

func TestRunner_Run_ExitCode(t *testing.T) {
	dir := t.TempDir()
	task := script(t, dir, "fail.sh", "exit 3")

	var out bytes.Buffer
	err := newRunner(t, &out).Run(context.Background(), &domain.Invocation{
		Executable: task,
		Env:        domain.EnvironmentFromPairs("PATH", os.Getenv("PATH")),
		Dir:        dir,
	})

	var exitErr *domain.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
}

func TestRunner_Run_SignalExitCode(t *testing.T) {
	dir := t.TempDir()
	task := script(t, dir, "killed.sh", "kill -TERM $$")

	var out bytes.Buffer
	err := newRunner(t, &out).Run(context.Background(), &domain.Invocation{
		Executable: task,
		Env:        domain.EnvironmentFromPairs("PATH", os.Getenv("PATH")),
		Dir:        dir,
	})

	var exitErr *domain.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 143, exitErr.Code)
}

func TestRunner_Run_ResolvesThroughAmbientPath(t *testing.T) {
	bin := t.TempDir()
	script(t, bin, "fakert", `echo "runtime $@"`)

	inherited := os.Getenv("PATH")
	t.Setenv("PATH", bin+string(os.PathListSeparator)+inherited)

	var out bytes.Buffer
	// The invocation's own PATH does not contain the runtime.
	err := newRunner(t, &out).Run(context.Background(), &domain.Invocation{
		Mode:       domain.ModeContainer,
		Executable: "fakert",
		Args:       []string{"run", "alpine"},
		Env:        domain.EnvironmentFromPairs("PATH", inherited),
		Dir:        t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, "runtime run alpine\n", out.String())
}

func TestRunner_Run_MissingExecutable(t *testing.T) {
	var out bytes.Buffer
	err := newRunner(t, &out).Run(context.Background(), &domain.Invocation{
		Executable: "definitely-not-installed",
		Env:        domain.NewEnvironment(),
		Dir:        t.TempDir(),
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrProcessStart.Error())

	var exitErr *domain.ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestRunner_Run_InteractiveWithoutTerminal(t *testing.T) {
	dir := t.TempDir()
	task := script(t, dir, "read.sh", `read line; echo "got $line"`)

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	var out bytes.Buffer
	runner := shell.NewRunner(log, shell.Streams{
		In:  strings.NewReader("input\n"),
		Out: &out,
		Err: &out,
	})

	err := runner.Run(context.Background(), &domain.Invocation{
		Executable:  task,
		Env:         domain.EnvironmentFromPairs("PATH", os.Getenv("PATH")),
		Dir:         dir,
		Interactive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "got input\n", out.String())
}
