package memo

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cotfaith/internal/adapters/checkpoint"         //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cotfaith/internal/adapters/config"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cotfaith/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cotfaith/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cotfaith/internal/core/ports"
)

// NodeID is the unique identifier for the memo runner Graft node.
const NodeID graft.ID = "engine.memo"

func init() {
	graft.Register(graft.Node[*Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			checkpoint.NodeID,
			config.SettingsNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Runner, error) {
			store, err := graft.Dep[ports.CheckpointStore](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(store, log,
				WithEnabled(settings.MemoEnabled),
				WithTelemetry(telemetry),
			), nil
		},
	})
}
