package artifacts

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cotfaith/internal/adapters/config"
	"go.trai.ch/cotfaith/internal/adapters/logger"
	"go.trai.ch/cotfaith/internal/core/ports"
)

// NodeID is the unique identifier for the artifact writer Graft node.
const NodeID graft.ID = "adapter.artifacts"

func init() {
	graft.Register(graft.Node[ports.ArtifactWriter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ArtifactWriter, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewWriter(settings.ArtifactDir, log), nil
		},
	})
}
