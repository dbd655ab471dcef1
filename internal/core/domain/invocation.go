package domain

// InvocationMode tells how a task is executed.
type InvocationMode string

const (
	// ModeDirect runs the task file itself.
	ModeDirect InvocationMode = "direct"
	// ModeContainer runs the task file inside a container.
	ModeContainer InvocationMode = "container"
)

// Invocation is the fully resolved process to spawn for one task run.
type Invocation struct {
	Mode InvocationMode
	// Executable is an absolute path or a name resolved through the ambient PATH.
	Executable string
	Args       []string
	Env        *Environment
	Dir        string
	// Interactive attaches the operator's terminal to the process through a pseudo-terminal.
	Interactive bool
}

// Argv returns the executable followed by its arguments.
func (i *Invocation) Argv() []string {
	argv := make([]string, 0, len(i.Args)+1)
	argv = append(argv, i.Executable)
	return append(argv, i.Args...)
}
