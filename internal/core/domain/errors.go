package domain

import (
	"strconv"

	"go.trai.ch/zerr"
)

var (
	// ErrMetadataParse is returned when a metadata block cannot be split or is not a mapping.
	ErrMetadataParse = zerr.New("invalid task metadata")

	// ErrMetadataRead is returned when a task file cannot be read.
	ErrMetadataRead = zerr.New("failed to read task file")

	// ErrImageTagMissing is returned when a structured image has no tag.
	ErrImageTagMissing = zerr.New("image is missing required key 'tag'")

	// ErrImageOption is returned when a structured image option has an unsupported value.
	ErrImageOption = zerr.New("unsupported image option value")

	// ErrInvalidSetting is returned when a reserved VG_* variable cannot be decoded.
	ErrInvalidSetting = zerr.New("invalid vg setting")

	// ErrTaskNotFound is returned when no search root holds the requested task.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrNotALeaf is returned when a group is asked to run.
	ErrNotALeaf = zerr.New("task is a group, not a runnable task")

	// ErrCycleDetected is returned when a task requires itself, directly or transitively.
	ErrCycleDetected = zerr.New("cycle detected in required tasks")

	// ErrProcessStart is returned when a task process cannot be started.
	ErrProcessStart = zerr.New("failed to start task process")

	// ErrListFailed is returned when a search root cannot be listed.
	ErrListFailed = zerr.New("failed to list tasks")
)

// ExitError reports a task process that exited with a non-zero status.
// It travels up unwrapped so the exact code reaches the operator.
type ExitError struct {
	Task string
	Code int
}

func (e *ExitError) Error() string {
	return "task " + e.Task + " exited with code " + strconv.Itoa(e.Code)
}
