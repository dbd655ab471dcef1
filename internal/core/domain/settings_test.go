package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/vantage/internal/core/domain"
)

func TestSettings_Roots(t *testing.T) {
	s := domain.Settings{AppDir: "/app"}
	assert.Equal(t, []string{filepath.Join("/app", "tasks"), filepath.Join("/app", ".vg-plugins")}, s.Roots())

	s.TasksDir = "/custom/tasks"
	s.PluginsDir = "/custom/plugins"
	assert.Equal(t, []string{"/custom/tasks", "/custom/plugins"}, s.Roots())
}

func TestSettings_ShouldRunRequired(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name     string
		env      *bool
		meta     *domain.TaskMetadata
		expected bool
	}{
		{name: "nothing set defaults to false", expected: false},
		{name: "metadata true", meta: &domain.TaskMetadata{RunRequired: &yes}, expected: true},
		{name: "environment false beats metadata true", env: &no, meta: &domain.TaskMetadata{RunRequired: &yes}, expected: false},
		{name: "environment true beats metadata false", env: &yes, meta: &domain.TaskMetadata{RunRequired: &no}, expected: true},
		{name: "environment true without metadata", env: &yes, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.Settings{RunRequired: tt.env}
			assert.Equal(t, tt.expected, s.ShouldRunRequired(tt.meta))
		})
	}
}
