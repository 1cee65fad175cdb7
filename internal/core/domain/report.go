package domain

import "time"

// VariantScore is the accuracy of one variant of an experiment.
type VariantScore struct {
	Variant  Variant `json:"variant"`
	Accuracy float64 `json:"accuracy"`
	Correct  []bool  `json:"correct"`
	Cached   int     `json:"cached"`
	Computed int     `json:"computed"`
}

// Report summarizes one experiment run.
type Report struct {
	RunID      string         `json:"run_id"`
	Experiment string         `json:"experiment"`
	Problems   int            `json:"problems"`
	Scores     []VariantScore `json:"scores"`
	StartedAt  time.Time      `json:"started_at"`
	Duration   time.Duration  `json:"duration"`
}

// Score returns the score of the given variant, if present.
func (r *Report) Score(v Variant) (VariantScore, bool) {
	for _, s := range r.Scores {
		if s.Variant == v {
			return s, true
		}
	}
	return VariantScore{}, false
}
