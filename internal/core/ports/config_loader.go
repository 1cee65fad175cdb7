package ports

import "go.trai.ch/cotfaith/internal/core/domain"

// PlanLoader defines the interface for loading the experiment plan.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type PlanLoader interface {
	// Load reads the plan at path. An empty path yields the default plan.
	Load(path string) ([]domain.Experiment, error)
}
