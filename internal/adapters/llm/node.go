package llm

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
	"go.trai.ch/cotfaith/internal/adapters/config"
	"go.trai.ch/cotfaith/internal/adapters/logger"
	"go.trai.ch/cotfaith/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the remote model client Graft node.
	NodeID graft.ID = "adapter.llm"
	// ReasoningNodeID is the unique identifier for the reasoning client Graft node.
	ReasoningNodeID graft.ID = "adapter.reasoning_client"
	// ParaphraserNodeID is the unique identifier for the paraphraser Graft node.
	ParaphraserNodeID graft.ID = "adapter.paraphraser"
)

func init() {
	graft.Register(graft.Node[*Client]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Client, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(settings.BaseURL, settings.APIKey,
				WithHTTPClient(&http.Client{Timeout: settings.HTTPTimeout}),
				WithModels(settings.ReasoningModel, settings.ChatModel),
				WithRateLimit(settings.RequestsPerSecond, settings.Burst),
				WithBreaker(settings.BreakerFailures, settings.BreakerCooldown),
				WithLogger(log),
			), nil
		},
	})

	graft.Register(graft.Node[ports.ReasoningClient]{
		ID:        ReasoningNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.ReasoningClient, error) {
			client, err := graft.Dep[*Client](ctx)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	})

	graft.Register(graft.Node[ports.Paraphraser]{
		ID:        ParaphraserNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.Paraphraser, error) {
			client, err := graft.Dep[*Client](ctx)
			if err != nil {
				return nil, err
			}
			return NewParaphraser(client), nil
		},
	})
}
