package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cotfaith/internal/adapters/logger"
	"go.trai.ch/cotfaith/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the plan loader Graft node.
	NodeID graft.ID = "adapter.plan_loader"
	// SettingsNodeID is the unique identifier for the settings Graft node.
	SettingsNodeID graft.ID = "adapter.settings"
)

func init() {
	graft.Register(graft.Node[ports.PlanLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.PlanLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewPlanLoader(log), nil
		},
	})

	graft.Register(graft.Node[*Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Settings, error) {
			return LoadSettings(SettingsPathFromContext(ctx))
		},
	})
}
