// Package shell spawns task processes.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// signalExitBase is added to the signal number of a process killed by a signal.
const signalExitBase = 128

var _ ports.ProcessRunner = (*Runner)(nil)

// Streams are the standard streams handed to task processes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the streams of the current process.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Runner implements ports.ProcessRunner using os/exec, with a pseudo-terminal for
// interactive invocations.
type Runner struct {
	logger  ports.Logger
	streams Streams
}

// NewRunner creates a Runner. Bare executable names are resolved through the PATH of the
// vg process itself, never through the PATH of the invocation.
func NewRunner(logger ports.Logger, streams Streams) *Runner {
	return &Runner{
		logger:  logger,
		streams: streams,
	}
}

// Run spawns the invocation in the foreground and waits for it.
// A non-zero exit is reported as *domain.ExitError; a process killed by a signal exits
// with 128+signal. While the process runs, SIGINT is left to the child and SIGTERM is
// forwarded to it.
func (r *Runner) Run(ctx context.Context, inv *domain.Invocation) error {
	cmd := exec.CommandContext(ctx, inv.Executable, inv.Args...) //nolint:gosec // task files are user provided
	cmd.Env = inv.Env.List()
	cmd.Dir = inv.Dir
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	var wait func() error
	var err error
	if stdin, ok := terminal(r.streams.In); ok && inv.Interactive {
		r.logger.Debug("  Attaching a pseudo-terminal")
		wait, err = r.startPTY(cmd, stdin)
	} else {
		wait, err = r.start(cmd)
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrProcessStart.Error()), "executable", inv.Executable)
	}

	done := make(chan struct{})
	defer close(done)
	go forward(cmd.Process, signals, done)

	return exitStatus(wait())
}

func (r *Runner) start(cmd *exec.Cmd) (func() error, error) {
	cmd.Stdin = r.streams.In
	cmd.Stdout = r.streams.Out
	cmd.Stderr = r.streams.Err
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd.Wait, nil
}

// startPTY runs cmd on a pseudo-terminal while the operator's terminal is in raw mode.
func (r *Runner) startPTY(cmd *exec.Cmd, stdin *os.File) (func() error, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to start pty")
	}
	_ = pty.InheritSize(stdin, ptmx)

	resize := make(chan os.Signal, 1)
	signal.Notify(resize, syscall.SIGWINCH)
	go func() {
		for range resize {
			_ = pty.InheritSize(stdin, ptmx)
		}
	}()

	state, err := term.MakeRaw(int(stdin.Fd()))
	if err != nil {
		r.logger.Warn(fmt.Sprintf("failed to set terminal to raw mode: %v", err))
	}

	go func() { _, _ = io.Copy(ptmx, stdin) }()

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		_, _ = io.Copy(r.streams.Out, ptmx)
	}()

	return func() error {
		err := cmd.Wait()
		<-ioDone
		_ = ptmx.Close()
		signal.Stop(resize)
		close(resize)
		if state != nil {
			_ = term.Restore(int(stdin.Fd()), state)
		}
		return err
	}, nil
}

// forward relays SIGTERM to the child. SIGINT reaches the child through the terminal's
// process group, so it is only swallowed here.
func forward(proc *os.Process, signals <-chan os.Signal, done <-chan struct{}) {
	for {
		select {
		case sig := <-signals:
			if sig == syscall.SIGTERM {
				_ = proc.Signal(sig)
			}
		case <-done:
			return
		}
	}
}

func exitStatus(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return zerr.Wrap(err, domain.ErrProcessStart.Error())
	}

	code := exitErr.ExitCode()
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		code = signalExitBase + int(status.Signal())
	}
	return &domain.ExitError{Code: code}
}

func terminal(r io.Reader) (*os.File, bool) {
	f, ok := r.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, false
	}
	return f, true
}
