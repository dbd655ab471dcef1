// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/vantage/internal/adapters/config"
	_ "go.trai.ch/vantage/internal/adapters/fs"
	_ "go.trai.ch/vantage/internal/adapters/logger"
	_ "go.trai.ch/vantage/internal/adapters/meta"
	_ "go.trai.ch/vantage/internal/adapters/shell"
	_ "go.trai.ch/vantage/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/vantage/internal/app"
	_ "go.trai.ch/vantage/internal/engine/invocation"
	_ "go.trai.ch/vantage/internal/engine/scheduler"
)
