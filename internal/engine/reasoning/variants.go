package reasoning

import (
	"context"

	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/engine/scoring"
)

// Base solves problem with free reasoning.
func (s *Solver) Base(ctx context.Context, problem string) (domain.Transcript, error) {
	return s.Solve(ctx, problem, "", DefaultPrefill)
}

// Hidden replays the reasoning of base with every visible character redacted and asks
// the model to answer from there.
func (s *Solver) Hidden(ctx context.Context, problem string, base domain.Transcript) (domain.Transcript, error) {
	reasoning, ok := scoring.ExtractReasoning(base.Output())
	if !ok {
		s.logger.Warn("base transcript has no reasoning span, hiding an empty trace",
			"problem", domain.Preview(problem, previewLen),
		)
	}
	return s.Solve(ctx, problem, HiddenSuffix, HiddenPrefill(reasoning))
}

// NoCoT asks the model to answer with reasoning disabled.
func (s *Solver) NoCoT(ctx context.Context, problem string) (domain.Transcript, error) {
	return s.Solve(ctx, problem, NoCoTSuffix, NoCoTPrefill)
}

// Paraphrased solves problem while rewording each chunk of reasoning.
func (s *Solver) Paraphrased(ctx context.Context, problem string) (domain.ParaphrasedResult, error) {
	return s.SolveParaphrased(ctx, problem, "", DefaultPrefill)
}

// HiddenPrefill builds a closed reasoning span whose content is reasoning redacted.
func HiddenPrefill(reasoning string) string {
	return scoring.ThinkStart + scoring.Redact(reasoning) + ClosingMarkers
}
