package domain

const (
	// EnvAppDir names the application root directory. It is the working directory of every task.
	EnvAppDir = "VG_APP_DIR"
	// EnvVerbose enables diagnostic output.
	EnvVerbose = "VG_VERBOSE"
	// EnvRunRequired overrides a task's own run-required setting.
	EnvRunRequired = "VG_RUN_REQUIRED"
	// EnvTasksDir overrides the first search root.
	EnvTasksDir = "VG_TASKS_DIR"
	// EnvPluginsDir overrides the second search root.
	EnvPluginsDir = "VG_PLUGINS_DIR"
	// EnvPath is the executable search path, always taken from the ambient process.
	EnvPath = "PATH"

	// TasksDirName is the default tasks directory below the app dir.
	TasksDirName = "tasks"
	// PluginsDirName is the default plugins directory below the app dir.
	PluginsDirName = ".vg-plugins"

	// ContainerRuntime is the container runtime binary.
	ContainerRuntime = "docker"
	// ContainerTaskPath is where the task file is mounted and executed inside the container.
	ContainerTaskPath = "/vg-task"
	// ContainerLabel and ContainerTaskLabel tag every container started by vg.
	ContainerLabel     = "vantage"
	ContainerTaskLabel = "vantage-task"

	// MetadataDelimiter marks the first and last line of a task's metadata block.
	MetadataDelimiter = "---"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750
	// ExecPerm is the permission given to task files in tests and fixtures (rwx------).
	ExecPerm = 0o700
	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)
