package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/vantage/internal/core/domain"
)

func TestEnvironmentFromList(t *testing.T) {
	env := domain.EnvironmentFromList([]string{"PATH=/bin", "EMPTY=", "BROKEN", "=skip", "A=b=c", "PATH=/usr/bin"})

	assert.Equal(t, []string{"PATH", "EMPTY", "A"}, env.Keys())
	assert.Equal(t, "/usr/bin", env.Value("PATH"))
	assert.Equal(t, "b=c", env.Value("A"))
	assert.True(t, env.Has("EMPTY"))
	assert.False(t, env.Has("BROKEN"))
}

func TestEnvironment_Compose(t *testing.T) {
	tests := []struct {
		name      string
		env       *domain.Environment
		overrides *domain.Environment
		defaults  *domain.Environment
		expected  []string
	}{
		{
			name:     "no metadata keeps the environment",
			env:      domain.EnvironmentFromPairs("PATH", "/bin", "A", "1"),
			expected: []string{"PATH=/bin", "A=1"},
		},
		{
			name:      "disjoint keys are unioned",
			env:       domain.EnvironmentFromPairs("PATH", "/bin"),
			overrides: domain.EnvironmentFromPairs("O", "o"),
			defaults:  domain.EnvironmentFromPairs("D", "d"),
			expected:  []string{"D=d", "PATH=/bin", "O=o"},
		},
		{
			name:      "override beats inherited value",
			env:       domain.EnvironmentFromPairs("A", "env", "B", "env"),
			overrides: domain.EnvironmentFromPairs("A", "override"),
			expected:  []string{"A=override", "B=env"},
		},
		{
			name:     "inherited value beats default",
			env:      domain.EnvironmentFromPairs("A", "env"),
			defaults: domain.EnvironmentFromPairs("A", "default", "B", "default"),
			expected: []string{"A=env", "B=default"},
		},
		{
			name:      "override beats default",
			env:       domain.NewEnvironment(),
			overrides: domain.EnvironmentFromPairs("A", "override"),
			defaults:  domain.EnvironmentFromPairs("A", "default"),
			expected:  []string{"A=override"},
		},
		{
			name:      "empty override value still wins",
			env:       domain.EnvironmentFromPairs("A", "env"),
			overrides: domain.EnvironmentFromPairs("A", ""),
			expected:  []string{"A="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.env.Compose(tt.overrides, tt.defaults)
			assert.Equal(t, tt.expected, got.List())
		})
	}
}

func TestEnvironment_ComposeDoesNotAlias(t *testing.T) {
	env := domain.EnvironmentFromPairs("A", "env")
	overrides := domain.EnvironmentFromPairs("A", "override", "B", "new")
	defaults := domain.EnvironmentFromPairs("C", "default")

	got := env.Compose(overrides, defaults)
	got.Set("D", "later")

	assert.Equal(t, []string{"A=env"}, env.List())
	assert.Equal(t, []string{"A=override", "B=new"}, overrides.List())
	assert.Equal(t, []string{"C=default"}, defaults.List())
}

func TestEnvironment_NilSafe(t *testing.T) {
	var env *domain.Environment

	assert.Equal(t, 0, env.Len())
	assert.Nil(t, env.Keys())
	assert.Equal(t, 0, env.Clone().Len())
	assert.False(t, env.Has("PATH"))
}
