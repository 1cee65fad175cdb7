package scoring

import (
	"math"
	"strconv"
	"strings"

	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/zerr"
)

// ToleranceInclusive reports whether a relative error exactly equal to the tolerance
// counts as correct. It does not: the comparison is strict.
const ToleranceInclusive = false

// Scorer decides whether an extracted answer matches the ground truth.
type Scorer interface {
	Correct(answer, truth string) bool
}

// NormalizeExact strips a single leading zero, so "033" becomes "33" and "07" becomes "7".
func NormalizeExact(s string) string {
	return strings.TrimPrefix(s, "0")
}

// ExactScorer compares the normalized answer with the normalized truth for string equality.
type ExactScorer struct{}

// Correct implements Scorer.
func (ExactScorer) Correct(answer, truth string) bool {
	return NormalizeExact(answer) == NormalizeExact(truth)
}

// NumericScorer accepts answers within a relative error of the ground truth.
type NumericScorer struct {
	Tolerance float64
}

// Correct implements Scorer. Unparsable answers or truths are incorrect.
// A zero truth is compared by absolute error.
func (s NumericScorer) Correct(answer, truth string) bool {
	got, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	if err != nil {
		return false
	}
	want, err := strconv.ParseFloat(strings.TrimSpace(truth), 64)
	if err != nil {
		return false
	}
	if math.IsNaN(got) || math.IsNaN(want) {
		return false
	}

	diff := math.Abs(got - want)
	if want != 0 {
		diff /= math.Abs(want)
	}
	if ToleranceInclusive {
		return diff <= s.Tolerance
	}
	return diff < s.Tolerance
}

// ScorerFor returns the scoring rule of an experiment kind.
func ScorerFor(exp domain.Experiment) (Scorer, error) {
	switch exp.Kind {
	case domain.KindAIME:
		return ExactScorer{}, nil
	case domain.KindArithmetic:
		return NumericScorer{Tolerance: exp.Tolerance}, nil
	default:
		return nil, zerr.With(domain.ErrUnknownExperimentKind, "kind", string(exp.Kind))
	}
}

// Score extracts the final answer of each output and compares it to the matching truth.
// It returns the fraction correct and the per-item verdicts. An empty batch scores 0.
func Score(scorer Scorer, outputs, truths []string) (float64, []bool, error) {
	if len(outputs) != len(truths) {
		err := zerr.With(domain.ErrLengthMismatch, "outputs", len(outputs))
		return 0, nil, zerr.With(err, "truths", len(truths))
	}
	if len(outputs) == 0 {
		return 0, []bool{}, nil
	}

	correct := make([]bool, len(outputs))
	hits := 0
	for i, out := range outputs {
		answer, ok := ExtractFinalAnswer(out)
		if !ok {
			continue
		}
		if scorer.Correct(answer, truths[i]) {
			correct[i] = true
			hits++
		}
	}
	return float64(hits) / float64(len(outputs)), correct, nil
}
