package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vantage/cmd/vg/commands"
	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/zerr"
)

var (
	build   = domain.NewTaskRef("/app/tasks/build.sh", domain.KindLeaf)
	db      = domain.NewTaskRef("/app/tasks/db", domain.KindGroup)
	migrate = domain.NewTaskRef("/app/tasks/db/migrate.sh", domain.KindLeaf)
	tools   = domain.NewTaskRef("/app/tasks/db/tools", domain.KindGroup)
	vacuum  = domain.NewTaskRef("/app/tasks/db/tools/vacuum", domain.KindLeaf)
)

type mockApp struct {
	names   []string
	entries map[string][]domain.TaskRef
	help    map[string]string
	runErr  error

	entered []string
	ran     []domain.TaskRef
	ranArgs [][]string
}

func newMockApp() *mockApp {
	return &mockApp{
		names: []string{"build", "db", "build"},
		entries: map[string][]domain.TaskRef{
			db.Path:    {migrate, tools},
			tools.Path: {vacuum},
		},
		help: map[string]string{
			build.Path:   "Build the project\nRuns every compiler we know about.",
			migrate.Path: "Apply migrations",
		},
	}
}

func (m *mockApp) Lookup(name string) (domain.TaskRef, error) {
	switch name {
	case "build":
		return build, nil
	case "db":
		return db, nil
	case "db/migrate":
		return migrate, nil
	}
	return domain.TaskRef{}, zerr.With(domain.ErrTaskNotFound, "task", name)
}

func (m *mockApp) List() ([]string, error) {
	return m.names, nil
}

func (m *mockApp) Entries(group domain.TaskRef) ([]domain.TaskRef, error) {
	m.entered = append(m.entered, group.Name)
	return m.entries[group.Path], nil
}

func (m *mockApp) Help(task domain.TaskRef) string {
	return m.help[task.Path]
}

func (m *mockApp) RunTask(_ context.Context, task domain.TaskRef, args []string) error {
	m.ran = append(m.ran, task)
	m.ranArgs = append(m.ranArgs, args)
	return m.runErr
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	cli.SetArgs(args)
	out := new(bytes.Buffer)
	cli.SetOutput(out, out)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCLI_RunsLeafWithEveryArgument(t *testing.T) {
	app := newMockApp()

	_, err := execute(t, app, "build", "--fast", "-j", "4", "--help")
	require.NoError(t, err)

	require.Len(t, app.ran, 1)
	assert.Equal(t, build, app.ran[0])
	assert.Equal(t, []string{"--fast", "-j", "4", "--help"}, app.ranArgs[0])
	assert.Empty(t, app.entered)
}

func TestCLI_UnknownTask(t *testing.T) {
	app := newMockApp()

	_, err := execute(t, app, "deploy")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrTaskNotFound.Error())
	assert.Empty(t, app.ran)
}

func TestCLI_GroupTask(t *testing.T) {
	app := newMockApp()

	_, err := execute(t, app, "db", "migrate", "up")
	require.NoError(t, err)

	require.Len(t, app.ran, 1)
	assert.Equal(t, migrate, app.ran[0])
	assert.Equal(t, []string{"up"}, app.ranArgs[0])
	assert.Equal(t, []string{"db"}, app.entered, "nested groups are listed only when entered")
}

func TestCLI_NestedGroupTask(t *testing.T) {
	app := newMockApp()

	_, err := execute(t, app, "db", "tools", "vacuum")
	require.NoError(t, err)

	require.Len(t, app.ran, 1)
	assert.Equal(t, vacuum, app.ran[0])
	assert.Equal(t, []string{"db", "tools"}, app.entered)
}

func TestCLI_UnknownTaskInGroup(t *testing.T) {
	app := newMockApp()

	_, err := execute(t, app, "db", "seed")
	require.Error(t, err)
	assert.Empty(t, app.ran)
}

func TestCLI_GroupShowsHelp(t *testing.T) {
	app := newMockApp()

	out, err := execute(t, app, "db")
	require.NoError(t, err)

	assert.Contains(t, out, "migrate")
	assert.Contains(t, out, "Apply migrations")
	assert.Contains(t, out, "tools")
	assert.Empty(t, app.ran)
}

func TestCLI_PathIntoGroup(t *testing.T) {
	app := newMockApp()

	_, err := execute(t, app, "db/migrate", "down")
	require.NoError(t, err)

	require.Len(t, app.ran, 1)
	assert.Equal(t, migrate, app.ran[0])
	assert.Equal(t, []string{"down"}, app.ranArgs[0])
}

func TestCLI_HelpListsTasks(t *testing.T) {
	app := newMockApp()

	out, err := execute(t, app, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "build")
	assert.Contains(t, out, "Build the project")
	assert.NotContains(t, out, "Runs every compiler")
	assert.Contains(t, out, "db")
	assert.Empty(t, app.entered)
	assert.Empty(t, app.ran)
}

func TestCLI_HelpForTask(t *testing.T) {
	app := newMockApp()

	out, err := execute(t, app, "help", "build")
	require.NoError(t, err)

	assert.Contains(t, out, "Runs every compiler we know about.")
	assert.Empty(t, app.ran)
}

func TestCLI_NoArgsShowsHelp(t *testing.T) {
	app := newMockApp()

	out, err := execute(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Empty(t, app.ran)
}

func TestCLI_Version(t *testing.T) {
	out, err := execute(t, newMockApp(), "--version")
	require.NoError(t, err)
	assert.Equal(t, "vg version dev (commit: none, date: unknown)\n", out)
}

func TestCLI_ExitErrorIsReturnedUnwrapped(t *testing.T) {
	app := newMockApp()
	app.runErr = &domain.ExitError{Task: "build", Code: 9}

	_, err := execute(t, app, "build")

	var exitErr *domain.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 9, exitErr.Code)
}

func TestTree_CachesCommandsByPath(t *testing.T) {
	app := newMockApp()
	tree := commands.NewTree(app)

	first := tree.Command(build)
	second := tree.Command(domain.NewTaskRef("/app/tasks/./build.sh", domain.KindLeaf))
	assert.Same(t, first, second)

	_, err := tree.Expand(db)
	require.NoError(t, err)
	_, err = tree.Expand(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"db"}, app.entered)
}
