package domain

import "path/filepath"

// Settings are the reserved VG_* variables of an environment.
type Settings struct {
	AppDir      string `mapstructure:"VG_APP_DIR"`
	Verbose     bool   `mapstructure:"VG_VERBOSE"`
	RunRequired *bool  `mapstructure:"VG_RUN_REQUIRED"`
	TasksDir    string `mapstructure:"VG_TASKS_DIR"`
	PluginsDir  string `mapstructure:"VG_PLUGINS_DIR"`
}

// TasksRoot returns the tasks directory, defaulting to <app-dir>/tasks.
func (s Settings) TasksRoot() string {
	if s.TasksDir != "" {
		return s.TasksDir
	}
	return filepath.Join(s.AppDir, TasksDirName)
}

// PluginsRoot returns the plugins directory, defaulting to <app-dir>/.vg-plugins.
func (s Settings) PluginsRoot() string {
	if s.PluginsDir != "" {
		return s.PluginsDir
	}
	return filepath.Join(s.AppDir, PluginsDirName)
}

// Roots returns the ordered search roots.
func (s Settings) Roots() []string {
	return []string{s.TasksRoot(), s.PluginsRoot()}
}

// ShouldRunRequired resolves run-required: the environment wins over the task's
// metadata, which wins over false.
func (s Settings) ShouldRunRequired(meta *TaskMetadata) bool {
	if s.RunRequired != nil {
		return *s.RunRequired
	}
	if meta != nil && meta.RunRequired != nil {
		return *meta.RunRequired
	}
	return false
}
