package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/vantage/internal/core/domain"
)

// Tree builds commands for tasks on demand. Commands are cached by task path, and a group
// lists its directory only when it is entered.
type Tree struct {
	app      Application
	commands map[domain.PathKey]*cobra.Command
	children map[domain.PathKey][]domain.TaskRef
}

// NewTree creates an empty Tree.
func NewTree(a Application) *Tree {
	return &Tree{
		app:      a,
		commands: make(map[domain.PathKey]*cobra.Command),
		children: make(map[domain.PathKey][]domain.TaskRef),
	}
}

// Command returns the command of ref, building it on first use.
func (t *Tree) Command(ref domain.TaskRef) *cobra.Command {
	if cmd, ok := t.commands[ref.Key()]; ok {
		return cmd
	}

	var cmd *cobra.Command
	if ref.IsLeaf() {
		cmd = t.leaf(ref)
	} else {
		cmd = t.group(ref)
	}
	t.commands[ref.Key()] = cmd
	return cmd
}

// Expand attaches the immediate children of a group to its command, once.
// Nested groups are attached without being listed.
func (t *Tree) Expand(group domain.TaskRef) ([]domain.TaskRef, error) {
	if children, ok := t.children[group.Key()]; ok {
		return children, nil
	}

	entries, err := t.app.Entries(group)
	if err != nil {
		return nil, err
	}

	parent := t.Command(group)
	seen := make(map[string]bool, len(entries))
	children := make([]domain.TaskRef, 0, len(entries))
	for _, entry := range entries {
		if seen[entry.Name] {
			continue
		}
		seen[entry.Name] = true
		children = append(children, entry)
		parent.AddCommand(t.Command(entry))
	}

	t.children[group.Key()] = children
	return children, nil
}

// Descend expands ref and then each nested group named by path, stopping at the first
// leaf, flag or unknown name.
func (t *Tree) Descend(ref domain.TaskRef, path []string) error {
	for !ref.IsLeaf() {
		children, err := t.Expand(ref)
		if err != nil {
			return err
		}
		if len(path) == 0 || strings.HasPrefix(path[0], "-") {
			return nil
		}

		next, ok := find(children, path[0])
		if !ok {
			return nil
		}
		ref, path = next, path[1:]
	}
	return nil
}

func find(refs []domain.TaskRef, name string) (domain.TaskRef, bool) {
	for _, ref := range refs {
		if ref.Name == name {
			return ref, true
		}
	}
	return domain.TaskRef{}, false
}

func (t *Tree) leaf(ref domain.TaskRef) *cobra.Command {
	help := strings.TrimSpace(t.app.Help(ref))
	short, _, _ := strings.Cut(help, "\n")

	return &cobra.Command{
		Use:                ref.Name + " [args...]",
		Short:              short,
		Long:               help,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return t.app.RunTask(cmd.Context(), ref, args)
		},
	}
}

func (t *Tree) group(ref domain.TaskRef) *cobra.Command {
	return &cobra.Command{
		Use:  ref.Name + " <task> [args...]",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}
