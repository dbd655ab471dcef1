// Package invocation turns resolved tasks into process invocations.
package invocation

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/vantage/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InvocationBuilder = (*Builder)(nil)

// Builder implements ports.InvocationBuilder.
type Builder struct{}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns a direct invocation of the task file, or a container invocation when the
// task's metadata names an image.
func (b *Builder) Build(req ports.BuildRequest) (*domain.Invocation, error) {
	meta := req.Metadata
	if meta == nil {
		meta = &domain.TaskMetadata{}
	}

	if !meta.Image.Present() {
		return direct(req), nil
	}
	return container(req, meta.Image)
}

func direct(req ports.BuildRequest) *domain.Invocation {
	env := req.Env.Clone()
	env.Set(domain.EnvPath, req.AmbientPath)

	return &domain.Invocation{
		Mode:       domain.ModeDirect,
		Executable: absolute(req.Task.Path),
		Args:       slices.Clone(req.Args),
		Env:        env,
		Dir:        req.Dir,
	}
}

// absolute resolves path against the working directory of vg, since the invocation
// itself runs in the app directory.
func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func container(req ports.BuildRequest, image domain.Image) (*domain.Invocation, error) {
	taskPath := absolute(req.Task.Path)

	args := []string{
		"run",
		"--volume", taskPath + ":" + domain.ContainerTaskPath,
		"--label", domain.ContainerLabel,
		"--label", domain.ContainerTaskLabel,
	}

	var tag string
	var interactive bool
	switch image.Kind {
	case domain.ImageStructured:
		if image.Tag == "" {
			return nil, zerr.With(domain.ErrImageTagMissing, "task", req.Task.Name)
		}
		tag = Substitute(image.Tag, req.Env, req.Args)
		interactive = image.TTY
		args = append(args, Flatten(image.Options, req.Env, req.Args)...)
	default:
		tag = image.Tag
		args = append(args, "--rm")
	}

	for _, key := range req.Env.Keys() {
		args = append(args, "--env", key)
	}

	args = append(args, tag, domain.ContainerTaskPath)
	args = append(args, req.Args...)

	return &domain.Invocation{
		Mode:        domain.ModeContainer,
		Executable:  domain.ContainerRuntime,
		Args:        args,
		Env:         req.Env.Clone(),
		Dir:         req.Dir,
		Interactive: interactive,
	}, nil
}

// Flatten renders structured image options as runtime flags, in option order.
// Lists repeat the flag per element, true booleans become bare flags and false ones
// are dropped. String values go through Substitute.
func Flatten(options []domain.ImageOption, env *domain.Environment, args []string) []string {
	var out []string
	for _, opt := range options {
		flag := "--" + opt.Key
		switch opt.Value.Kind {
		case domain.OptionList:
			for _, v := range opt.Value.List {
				out = append(out, flag, Substitute(v, env, args))
			}
		case domain.OptionBool:
			if opt.Value.Bool {
				out = append(out, flag)
			}
		default:
			out = append(out, flag, Substitute(opt.Value.Str, env, args))
		}
	}
	return out
}

// Substitute replaces $KEY with the value of each environment variable and $i with the
// i-th argument, in a single pass: inserted values are never scanned again.
// Where two tokens start at the same position, environment keys win in environment order,
// then arguments in index order.
func Substitute(s string, env *domain.Environment, args []string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	pairs := make([]string, 0, 2*(env.Len()+len(args)))
	for _, key := range env.Keys() {
		if key == "" {
			continue
		}
		pairs = append(pairs, "$"+key, env.Value(key))
	}
	for i, arg := range args {
		pairs = append(pairs, "$"+strconv.Itoa(i), arg)
	}
	if len(pairs) == 0 {
		return s
	}

	return strings.NewReplacer(pairs...).Replace(s)
}
