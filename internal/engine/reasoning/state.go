package reasoning

import (
	"unicode/utf8"

	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/engine/scoring"
)

// State is a step of one solving attempt.
type State int

const (
	// StateSending issues the next completion request.
	StateSending State = iota
	// StateAwaitingTermination appends a chunk and waits for the reasoning span to close.
	StateAwaitingTermination
	// StateValidating checks the non-thinking budget and the stop signal.
	StateValidating
	// StateDone ends the attempt successfully.
	StateDone
	// StateFailed ends the attempt with an error; the solver may retry.
	StateFailed
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateSending:
		return "sending"
	case StateAwaitingTermination:
		return "awaiting_termination"
	case StateValidating:
		return "validating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// attempt is the accumulator of one solving attempt.
// The assistant message starts as the prefill and grows with every chunk.
type attempt struct {
	transcript domain.Transcript
	state      State
	requests   int
	last       domain.Completion
	err        error
}

func newAttempt(systemPrompt, userPrompt, prefill string) *attempt {
	return &attempt{
		transcript: domain.Transcript{
			{Role: domain.RoleSystem, Content: systemPrompt},
			{Role: domain.RoleUser, Content: userPrompt},
			{Role: domain.RoleAssistant, Content: prefill, Prefix: true},
		},
		state: StateSending,
	}
}

func (a *attempt) accumulated() string {
	return a.transcript[len(a.transcript)-1].Content
}

func (a *attempt) appendChunk(chunk string) {
	a.transcript[len(a.transcript)-1].Content += chunk
}

// nonThinking counts the characters of the accumulated output outside the reasoning span.
// It reports false while the span is still open.
func (a *attempt) nonThinking() (int, bool) {
	acc := a.accumulated()
	reasoning, ok := scoring.ExtractReasoning(acc)
	if !ok {
		return 0, false
	}
	return utf8.RuneCountInString(acc) - utf8.RuneCountInString(reasoning), true
}

func (a *attempt) fail(err error) {
	a.err = err
	a.state = StateFailed
}
