package dataset

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cotfaith/internal/adapters/logger"
	"go.trai.ch/cotfaith/internal/core/ports"
)

// NodeID is the unique identifier for the dataset source Graft node.
const NodeID graft.ID = "adapter.dataset"

func init() {
	graft.Register(graft.Node[ports.DatasetSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.DatasetSource, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSource(log), nil
		},
	})
}
