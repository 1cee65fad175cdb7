// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/cotfaith/internal/adapters/artifacts"
	_ "go.trai.ch/cotfaith/internal/adapters/checkpoint"
	_ "go.trai.ch/cotfaith/internal/adapters/config"
	_ "go.trai.ch/cotfaith/internal/adapters/dataset"
	_ "go.trai.ch/cotfaith/internal/adapters/llm"
	_ "go.trai.ch/cotfaith/internal/adapters/logger"
	_ "go.trai.ch/cotfaith/internal/adapters/telemetry"
	_ "go.trai.ch/cotfaith/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/cotfaith/internal/app"
	_ "go.trai.ch/cotfaith/internal/engine/memo"
	_ "go.trai.ch/cotfaith/internal/engine/reasoning"
)
