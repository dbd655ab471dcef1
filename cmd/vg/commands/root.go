// Package commands implements the CLI of vg.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/vantage/internal/build"
	"go.trai.ch/vantage/internal/core/domain"
)

// helpCommand is cobra's default help subcommand.
const helpCommand = "help"

// CLI represents the command line interface for vg.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	tree    *Tree
	args    []string
	argsSet bool
}

// Application represents the application logic interface.
type Application interface {
	Lookup(name string) (domain.TaskRef, error)
	List() ([]string, error)
	Entries(group domain.TaskRef) ([]domain.TaskRef, error)
	Help(task domain.TaskRef) string
	RunTask(ctx context.Context, task domain.TaskRef, args []string) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:   "vg <task> [args...]",
		Short: "Run the tasks of a project",
		Long: "vg runs the executable task files found in the tasks directory and the plugins\n" +
			"directory of a project, directly or inside a container.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return &CLI{
		app:     a,
		rootCmd: rootCmd,
		tree:    NewTree(a),
	}
}

// Execute attaches the commands named by the arguments and runs the root command.
func (c *CLI) Execute(ctx context.Context) error {
	args := c.args
	if !c.argsSet {
		args = os.Args[1:]
	}

	if err := c.attach(args); err != nil {
		return err
	}

	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.args = args
	c.argsSet = true
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// attach resolves only the commands the arguments lead to. Without a task name every
// top-level task is attached so help can list them.
func (c *CLI) attach(args []string) error {
	path := positional(args)
	if len(path) > 0 && path[0] == helpCommand {
		path = path[1:]
	}
	if len(path) == 0 {
		return c.attachAll()
	}

	ref, err := c.app.Lookup(path[0])
	if err != nil {
		return err
	}

	cmd := c.tree.Command(ref)
	if ref.Name != path[0] {
		cmd.Aliases = append(cmd.Aliases, path[0])
	}
	c.rootCmd.AddCommand(cmd)

	return c.tree.Descend(ref, path[1:])
}

func (c *CLI) attachAll() error {
	names, err := c.app.List()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		ref, err := c.app.Lookup(name)
		if err != nil {
			return err
		}
		c.rootCmd.AddCommand(c.tree.Command(ref))
	}
	return nil
}

// positional returns the arguments from the first one that is not a flag.
func positional(args []string) []string {
	for i, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			return args[i:]
		}
	}
	return nil
}
