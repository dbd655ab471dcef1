package invocation_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports"
	"go.trai.ch/vantage/internal/engine/invocation"
)

const taskPath = "/app/tasks/build.sh"

func request(meta *domain.TaskMetadata, env *domain.Environment, args ...string) ports.BuildRequest {
	return ports.BuildRequest{
		Task:        domain.NewTaskRef(taskPath, domain.KindLeaf),
		Metadata:    meta,
		Env:         env,
		AmbientPath: "/usr/local/bin:/usr/bin",
		Dir:         "/app",
		Args:        args,
	}
}

func TestBuild_Direct(t *testing.T) {
	env := domain.EnvironmentFromPairs("PATH", "/stripped", "GREETING", "hi")

	inv, err := invocation.NewBuilder().Build(request(&domain.TaskMetadata{}, env, "one", "two"))
	require.NoError(t, err)

	assert.Equal(t, domain.ModeDirect, inv.Mode)
	assert.Equal(t, []string{taskPath, "one", "two"}, inv.Argv())
	assert.Equal(t, []string{"PATH=/usr/local/bin:/usr/bin", "GREETING=hi"}, inv.Env.List())
	assert.Equal(t, "/app", inv.Dir)
	assert.False(t, inv.Interactive)
	assert.Equal(t, "/stripped", env.Value("PATH"), "request environment must not change")
}

func TestBuild_DirectRelativeTaskPath(t *testing.T) {
	req := request(nil, domain.NewEnvironment())
	req.Task = domain.NewTaskRef(filepath.Join("proj", "tasks", "hello.sh"), domain.KindLeaf)
	req.Dir = "proj"

	inv, err := invocation.NewBuilder().Build(req)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "proj", "tasks", "hello.sh"), inv.Executable)
	assert.Equal(t, "proj", inv.Dir)
}

func TestBuild_DirectWithoutMetadata(t *testing.T) {
	inv, err := invocation.NewBuilder().Build(request(nil, domain.NewEnvironment()))
	require.NoError(t, err)

	assert.Equal(t, domain.ModeDirect, inv.Mode)
	assert.Equal(t, []string{"PATH=/usr/local/bin:/usr/bin"}, inv.Env.List())
}

func TestBuild_Container(t *testing.T) {
	tests := []struct {
		name            string
		image           domain.Image
		env             *domain.Environment
		args            []string
		wantInteractive bool
	}{
		{
			name:  "bare_tag",
			image: domain.BareImage("myimage:$TAG"),
			env:   domain.EnvironmentFromPairs("PATH", "/usr/bin", "VG_APP_DIR", "/app", "TAG", "ignored"),
			args:  []string{"a", "b"},
		},
		{
			name: "structured",
			image: domain.Image{
				Kind: domain.ImageStructured,
				Tag:  "node:$NODE_VERSION",
				Options: []domain.ImageOption{
					domain.StringOption("workdir", "/src/$0"),
					domain.ListOption("publish", "80:80", "$PORT:$PORT"),
					domain.BoolOption("privileged", true),
					domain.BoolOption("init", false),
				},
			},
			env:  domain.EnvironmentFromPairs("NODE_VERSION", "20", "PORT", "8080"),
			args: []string{"x"},
		},
		{
			name: "structured_tty",
			image: domain.Image{
				Kind:    domain.ImageStructured,
				Tag:     "alpine",
				TTY:     true,
				Options: []domain.ImageOption{domain.BoolOption("tty", true)},
			},
			env:             domain.NewEnvironment(),
			wantInteractive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := &domain.TaskMetadata{Image: tt.image}

			inv, err := invocation.NewBuilder().Build(request(meta, tt.env, tt.args...))
			require.NoError(t, err)

			assert.Equal(t, domain.ModeContainer, inv.Mode)
			assert.Equal(t, domain.ContainerRuntime, inv.Executable)
			assert.Equal(t, tt.wantInteractive, inv.Interactive)
			assert.Equal(t, tt.env.List(), inv.Env.List())

			g := goldie.New(t)
			g.Assert(t, tt.name, []byte(strings.Join(inv.Argv(), "\n")+"\n"))
		})
	}
}

func TestBuild_ContainerBareTagFlags(t *testing.T) {
	meta := &domain.TaskMetadata{Image: domain.BareImage("myimage:latest")}

	inv, err := invocation.NewBuilder().Build(request(meta, domain.NewEnvironment()))
	require.NoError(t, err)

	var labels, rm, other int
	for i, arg := range inv.Args {
		switch {
		case arg == "--label":
			labels++
		case arg == "--rm":
			rm++
		case strings.HasPrefix(arg, "--") && arg != "--volume":
			other++
		case i > 0 && inv.Args[i-1] == "--label":
			assert.Contains(t, []string{domain.ContainerLabel, domain.ContainerTaskLabel}, arg)
		}
	}
	assert.Equal(t, 2, labels)
	assert.Equal(t, 1, rm)
	assert.Zero(t, other)
}

func TestBuild_ContainerMissingTag(t *testing.T) {
	meta := &domain.TaskMetadata{Image: domain.Image{
		Kind:    domain.ImageStructured,
		Options: []domain.ImageOption{domain.StringOption("workdir", "/src")},
	}}

	_, err := invocation.NewBuilder().Build(request(meta, domain.NewEnvironment()))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrImageTagMissing.Error())
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name    string
		options []domain.ImageOption
		want    []string
	}{
		{
			name:    "true flag",
			options: []domain.ImageOption{domain.BoolOption("rm", true)},
			want:    []string{"--rm"},
		},
		{
			name:    "false flag",
			options: []domain.ImageOption{domain.BoolOption("rm", false)},
			want:    nil,
		},
		{
			name:    "list",
			options: []domain.ImageOption{domain.ListOption("network", "a", "b")},
			want:    []string{"--network", "a", "--network", "b"},
		},
		{
			name: "keys are not substituted",
			options: []domain.ImageOption{
				domain.StringOption("$NAME", "$NAME"),
			},
			want: []string{"--$NAME", "web"},
		},
	}

	env := domain.EnvironmentFromPairs("NAME", "web")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, invocation.Flatten(tt.options, env, nil))
		})
	}
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name  string
		input string
		env   *domain.Environment
		args  []string
		want  string
	}{
		{
			name:  "values are not expanded again",
			input: "$0 and $FOO",
			env:   domain.EnvironmentFromPairs("FOO", "$0"),
			args:  []string{"x"},
			want:  "x and $0",
		},
		{
			name:  "every occurrence",
			input: "$A-$A-$1",
			env:   domain.EnvironmentFromPairs("A", "a"),
			args:  []string{"zero", "one"},
			want:  "a-a-one",
		},
		{
			name:  "unknown tokens stay",
			input: "$MISSING $5",
			env:   domain.EnvironmentFromPairs("A", "a"),
			args:  []string{"zero"},
			want:  "$MISSING $5",
		},
		{
			name:  "no dollar",
			input: "plain",
			env:   domain.EnvironmentFromPairs("plain", "x"),
			want:  "plain",
		},
		{
			name:  "prefix key in environment order",
			input: "$FOOBAR",
			env:   domain.EnvironmentFromPairs("FOO", "1", "FOOBAR", "2"),
			want:  "1BAR",
		},
		{
			name:  "nil environment",
			input: "$0",
			args:  []string{"x"},
			want:  "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, invocation.Substitute(tt.input, tt.env, tt.args))
		})
	}
}
