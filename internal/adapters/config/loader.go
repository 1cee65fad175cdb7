// Package config provides the settings and experiment plan loaders for cotfaith.
package config

import (
	"os"
	"slices"

	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAIMESource is the dataset file read by the default AIME experiments.
	DefaultAIMESource = "data/aime_2024.jsonl"
	// DefaultArithmeticSamples is the number of generated arithmetic problems.
	DefaultArithmeticSamples = 30
	// DefaultArithmeticSeed seeds the arithmetic generator.
	DefaultArithmeticSeed uint64 = 87
	// DefaultTolerance is the relative error accepted for arithmetic answers.
	DefaultTolerance = 0.01
)

// DefaultDepths are the maximum expression depths the arithmetic generator picks from.
var DefaultDepths = []int{2, 3, 4}

// PlanLoader implements ports.PlanLoader using a YAML file.
type PlanLoader struct {
	logger ports.Logger
}

// NewPlanLoader creates a PlanLoader.
func NewPlanLoader(logger ports.Logger) *PlanLoader {
	return &PlanLoader{logger: logger}
}

// Load reads the plan at path. An empty path yields DefaultPlan.
func (l *PlanLoader) Load(path string) ([]domain.Experiment, error) {
	if path == "" {
		return DefaultPlan(), nil
	}

	experiments, err := LoadPlan(path)
	if err != nil {
		return nil, err
	}
	if l.logger != nil {
		l.logger.Debug("loaded experiment plan", "path", path, "experiments", len(experiments))
	}
	return experiments, nil
}

// DefaultPlan returns three repetitions each of the AIME and arithmetic experiments.
func DefaultPlan() []domain.Experiment {
	plan := make([]domain.Experiment, 0, 6)
	for _, suffix := range []string{"", "_2", "_3"} {
		plan = append(plan, domain.Experiment{
			Name:   "aime" + suffix,
			Kind:   domain.KindAIME,
			Source: DefaultAIMESource,
		})
	}
	for _, suffix := range []string{"", "_2", "_3"} {
		plan = append(plan, domain.Experiment{
			Name:      "arithmetic" + suffix,
			Kind:      domain.KindArithmetic,
			Samples:   DefaultArithmeticSamples,
			Seed:      DefaultArithmeticSeed,
			Depths:    slices.Clone(DefaultDepths),
			Tolerance: DefaultTolerance,
		})
	}
	return plan
}

// LoadPlan reads a plan file from the given path and returns its experiments in file order.
func LoadPlan(path string) ([]domain.Experiment, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var plan PlanFile
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if len(plan.Experiments) == 0 {
		return nil, zerr.With(domain.ErrNoExperiments, "path", path)
	}

	seen := make(map[string]bool, len(plan.Experiments))
	experiments := make([]domain.Experiment, 0, len(plan.Experiments))
	for _, dto := range plan.Experiments {
		if dto.Name == "" {
			return nil, zerr.With(domain.ErrInvalidExperiment, "reason", "missing name")
		}
		if seen[dto.Name] {
			return nil, zerr.With(zerr.With(domain.ErrInvalidExperiment, "reason", "duplicate name"), "experiment", dto.Name)
		}
		seen[dto.Name] = true

		exp, err := toExperiment(dto)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, exp)
	}

	return experiments, nil
}

func toExperiment(dto ExperimentDTO) (domain.Experiment, error) {
	exp := domain.Experiment{
		Name:   dto.Name,
		Kind:   domain.ExperimentKind(dto.Kind),
		Source: dto.Source,
	}

	switch exp.Kind {
	case domain.KindAIME:
		if exp.Source == "" {
			exp.Source = DefaultAIMESource
		}
		exp.Samples = dto.Samples
	case domain.KindArithmetic:
		exp.Samples = dto.Samples
		if exp.Samples == 0 {
			exp.Samples = DefaultArithmeticSamples
		}
		exp.Seed = DefaultArithmeticSeed
		if dto.Seed != nil {
			exp.Seed = *dto.Seed
		}
		exp.Depths = canonicalizeDepths(dto.Depths)
		if len(exp.Depths) == 0 {
			exp.Depths = slices.Clone(DefaultDepths)
		}
		exp.Tolerance = DefaultTolerance
		if dto.Tolerance != nil {
			exp.Tolerance = *dto.Tolerance
		}
	default:
		return domain.Experiment{}, zerr.With(zerr.With(domain.ErrUnknownExperimentKind, "kind", dto.Kind), "experiment", dto.Name)
	}

	if exp.Samples < 0 {
		return domain.Experiment{}, zerr.With(zerr.With(domain.ErrInvalidExperiment, "reason", "negative samples"), "experiment", dto.Name)
	}
	if exp.Tolerance < 0 {
		return domain.Experiment{}, zerr.With(zerr.With(domain.ErrInvalidExperiment, "reason", "negative tolerance"), "experiment", dto.Name)
	}
	for _, d := range exp.Depths {
		if d < 1 {
			return domain.Experiment{}, zerr.With(zerr.With(domain.ErrInvalidExperiment, "reason", "depth below one"), "experiment", dto.Name)
		}
	}

	return exp, nil
}

func canonicalizeDepths(depths []int) []int {
	if len(depths) == 0 {
		return nil
	}
	sorted := slices.Clone(depths)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
