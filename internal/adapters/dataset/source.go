// Package dataset provides the problem sources of each experiment kind.
package dataset

import (
	"context"

	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/core/ports"
	"go.trai.ch/zerr"
)

// Source implements ports.DatasetSource for every supported experiment kind.
type Source struct {
	logger ports.Logger
}

// NewSource creates a Source.
func NewSource(logger ports.Logger) *Source {
	return &Source{logger: logger}
}

// Load returns the problems of exp. Competition problems are read from exp.Source and
// truncated to exp.Samples when positive. Arithmetic problems are generated from exp.Seed.
func (s *Source) Load(ctx context.Context, exp domain.Experiment) ([]domain.Problem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		problems []domain.Problem
		err      error
	)
	switch exp.Kind {
	case domain.KindAIME:
		problems, err = LoadFile(exp.Source)
		if err == nil && exp.Samples > 0 && exp.Samples < len(problems) {
			problems = problems[:exp.Samples]
		}
	case domain.KindArithmetic:
		problems, err = NewGenerator(exp.Seed).Problems(exp.Samples, exp.Depths)
	default:
		err = zerr.With(domain.ErrUnknownExperimentKind, "kind", string(exp.Kind))
	}
	if err != nil {
		return nil, zerr.With(err, "experiment", exp.Name)
	}

	s.logger.Debug("loaded dataset", "experiment", exp.Name, "kind", string(exp.Kind), "problems", len(problems))
	return problems, nil
}
