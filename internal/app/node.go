package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cotfaith/internal/adapters/artifacts"          //nolint:depguard // Wired in app layer
	"go.trai.ch/cotfaith/internal/adapters/checkpoint"         //nolint:depguard // Wired in app layer
	"go.trai.ch/cotfaith/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/cotfaith/internal/adapters/dataset"            //nolint:depguard // Wired in app layer
	"go.trai.ch/cotfaith/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/cotfaith/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/cotfaith/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/cotfaith/internal/core/ports"
	"go.trai.ch/cotfaith/internal/engine/memo"
	"go.trai.ch/cotfaith/internal/engine/reasoning"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			artifacts.NodeID,
			checkpoint.NodeID,
			config.NodeID,
			config.SettingsNodeID,
			dataset.NodeID,
			logger.NodeID,
			memo.NodeID,
			reasoning.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[*config.Settings](ctx)
	if err != nil {
		return nil, err
	}
	plans, err := graft.Dep[ports.PlanLoader](ctx)
	if err != nil {
		return nil, err
	}
	datasets, err := graft.Dep[ports.DatasetSource](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.CheckpointStore](ctx)
	if err != nil {
		return nil, err
	}
	writer, err := graft.Dep[ports.ArtifactWriter](ctx)
	if err != nil {
		return nil, err
	}
	solver, err := graft.Dep[*reasoning.Solver](ctx)
	if err != nil {
		return nil, err
	}
	runner, err := graft.Dep[*memo.Runner](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(plans, datasets, store, writer, solver, runner, tracer, log).
		WithWorkers(settings.Workers).
		WithPlanPath(settings.PlanPath), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	recorder, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: recorder,
	}, nil
}
