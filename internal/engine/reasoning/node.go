package reasoning

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cotfaith/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cotfaith/internal/adapters/llm"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cotfaith/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cotfaith/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cotfaith/internal/core/ports"
)

// NodeID is the unique identifier for the solver Graft node.
const NodeID graft.ID = "engine.reasoning"

func init() {
	graft.Register(graft.Node[*Solver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			llm.ReasoningNodeID,
			llm.ParaphraserNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Solver, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			client, err := graft.Dep[ports.ReasoningClient](ctx)
			if err != nil {
				return nil, err
			}
			paraphraser, err := graft.Dep[ports.Paraphraser](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewSolver(client, paraphraser, tracer, log,
				WithModel(settings.ReasoningModel),
				WithMaxRetries(settings.MaxRetries),
				WithMaxNonThinking(settings.MaxNonThinking),
				WithMaxContinuations(settings.MaxContinuations),
				WithChunkTokens(settings.ChunkTokens),
			), nil
		},
	})
}
