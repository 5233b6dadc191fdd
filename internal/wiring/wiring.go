// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rig/internal/adapters/cas"
	_ "go.trai.ch/rig/internal/adapters/config"
	_ "go.trai.ch/rig/internal/adapters/fs"
	_ "go.trai.ch/rig/internal/adapters/logger"
	_ "go.trai.ch/rig/internal/adapters/output"
	_ "go.trai.ch/rig/internal/adapters/telemetry"
	_ "go.trai.ch/rig/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/rig/internal/app"
	_ "go.trai.ch/rig/internal/engine/resolver"
)
