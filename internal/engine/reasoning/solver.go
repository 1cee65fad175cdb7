// Package reasoning drives the reasoning model through a problem until it produces a
// complete, well-formed answer.
package reasoning

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/core/ports"
	"go.trai.ch/zerr"
)

// Defaults for the retry state machine.
const (
	DefaultModel            = "deepseek-reasoner"
	DefaultMaxRetries       = 10
	DefaultMaxNonThinking   = 100
	DefaultMaxContinuations = 64
	DefaultChunkTokens      = 200

	previewLen = 50
)

// Solver runs the retry state machine against a reasoning model.
type Solver struct {
	client      ports.ReasoningClient
	paraphraser ports.Paraphraser
	tracer      ports.Tracer
	logger      ports.Logger

	model            string
	maxRetries       int
	maxNonThinking   int
	maxContinuations int
	chunkTokens      int
}

// Option configures a Solver.
type Option func(*Solver)

// WithModel sets the reasoning model name.
func WithModel(model string) Option {
	return func(s *Solver) {
		s.model = model
	}
}

// WithMaxRetries sets how many failed attempts are retried before giving up.
func WithMaxRetries(n int) Option {
	return func(s *Solver) {
		s.maxRetries = n
	}
}

// WithMaxNonThinking bounds the characters allowed outside the reasoning span.
func WithMaxNonThinking(n int) Option {
	return func(s *Solver) {
		s.maxNonThinking = n
	}
}

// WithMaxContinuations bounds the requests made within a single attempt.
func WithMaxContinuations(n int) Option {
	return func(s *Solver) {
		s.maxContinuations = n
	}
}

// WithChunkTokens sets the token budget of each request in paraphrased solving.
func WithChunkTokens(n int) Option {
	return func(s *Solver) {
		s.chunkTokens = n
	}
}

// NewSolver creates a Solver with default limits.
func NewSolver(
	client ports.ReasoningClient,
	paraphraser ports.Paraphraser,
	tracer ports.Tracer,
	logger ports.Logger,
	opts ...Option,
) *Solver {
	s := &Solver{
		client:           client,
		paraphraser:      paraphraser,
		tracer:           tracer,
		logger:           logger,
		model:            DefaultModel,
		maxRetries:       DefaultMaxRetries,
		maxNonThinking:   DefaultMaxNonThinking,
		maxContinuations: DefaultMaxContinuations,
		chunkTokens:      DefaultChunkTokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// chunkHook turns the last completion of an attempt into the text appended to its
// accumulator. It reports whether the accumulator should be validated afterwards.
type chunkHook func(ctx context.Context, a *attempt) (chunk string, validate bool, err error)

// Solve asks the model to solve problem, continuing from prefill until the reasoning span
// closes and the model stops. Failed attempts restart from prefill.
func (s *Solver) Solve(ctx context.Context, problem, systemExtra, prefill string) (domain.Transcript, error) {
	ctx, span := s.tracer.Start(ctx, "reasoning.solve",
		ports.WithAttribute("problem", domain.Preview(problem, previewLen)),
	)
	defer span.End()

	s.logger.Echo(queryHeader("Querying", problem, systemExtra, prefill))

	return s.retry(ctx, span, func(ctx context.Context) (domain.Transcript, error) {
		a := newAttempt(systemPrompt(systemExtra), UserPrefix+problem, prefill)
		return s.run(ctx, a, 0, appendRaw)
	})
}

// SolveParaphrased works like Solve, but every chunk of reasoning is reworded by the
// paraphraser before the model sees it again. Once the reasoning span closes, further
// chunks are appended verbatim.
func (s *Solver) SolveParaphrased(
	ctx context.Context,
	problem, systemExtra, prefill string,
) (domain.ParaphrasedResult, error) {
	if problem == "" {
		return domain.ParaphrasedResult{
			Transcript: domain.Transcript{},
			Steps:      []domain.ParaphraseStep{{}},
		}, nil
	}

	ctx, span := s.tracer.Start(ctx, "reasoning.solve_paraphrased",
		ports.WithAttribute("problem", domain.Preview(problem, previewLen)),
	)
	defer span.End()

	s.logger.Echo(queryHeader("Paraphrased querying", problem, systemExtra, prefill))

	var steps []domain.ParaphraseStep
	transcript, err := s.retry(ctx, span, func(ctx context.Context) (domain.Transcript, error) {
		p := &paraphrasing{solver: s}
		a := newAttempt(systemPrompt(systemExtra), UserPrefix+problem, prefill)
		t, err := s.run(ctx, a, s.chunkTokens, p.hook)
		steps = p.steps
		return t, err
	})
	if err != nil {
		return domain.ParaphrasedResult{}, err
	}

	span.SetAttribute("steps", len(steps))
	return domain.ParaphrasedResult{Transcript: transcript, Steps: steps}, nil
}

// retry runs attempts until one succeeds, the context ends, or the retry budget is spent.
func (s *Solver) retry(
	ctx context.Context,
	span ports.Span,
	run func(context.Context) (domain.Transcript, error),
) (domain.Transcript, error) {
	var lastErr error
	for n := 0; n <= s.maxRetries; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if n > 0 {
			s.logger.Warn("retrying", "attempt", n, "max", s.maxRetries, "error", lastErr)
		}

		transcript, err := run(ctx)
		if err == nil {
			span.SetAttribute("attempts", n+1)
			return transcript, nil
		}
		lastErr = err
		span.RecordError(err)
	}

	err := zerr.With(errors.Join(domain.ErrRetriesExhausted, lastErr), "attempts", s.maxRetries+1)
	span.RecordError(err)
	return nil, err
}

// run drives one attempt through its states until it is done or failed.
func (s *Solver) run(ctx context.Context, a *attempt, maxTokens int, hook chunkHook) (domain.Transcript, error) {
	for {
		switch a.state {
		case StateSending:
			if a.requests >= s.maxContinuations {
				a.fail(zerr.With(domain.ErrIncompleteReasoning, "requests", a.requests))
				continue
			}
			a.requests++
			completion, err := s.client.Complete(ctx, domain.CompletionRequest{
				Model:     s.model,
				Messages:  a.transcript.Clone(),
				MaxTokens: maxTokens,
			})
			if err != nil {
				a.fail(err)
				continue
			}
			a.last = completion
			a.state = StateAwaitingTermination

		case StateAwaitingTermination:
			chunk, validate, err := hook(ctx, a)
			if err != nil {
				a.fail(err)
				continue
			}
			s.echo(ctx, chunk)
			a.appendChunk(chunk)

			a.state = StateSending
			if validate {
				if _, closed := a.nonThinking(); closed {
					a.state = StateValidating
				}
			}

		case StateValidating:
			n, _ := a.nonThinking()
			if n > s.maxNonThinking {
				err := zerr.With(domain.ErrNonThinkingBudget, "chars", n)
				a.fail(zerr.With(err, "max", s.maxNonThinking))
				continue
			}
			if a.last.FinishReason == domain.FinishStop {
				a.state = StateDone
				continue
			}
			a.state = StateSending

		case StateDone:
			return a.transcript, nil

		case StateFailed:
			return nil, a.err

		default:
			return nil, zerr.With(domain.ErrIncompleteReasoning, "state", a.state.String())
		}
	}
}

// echo prints a chunk to the console and to the progress vertex of the current work item.
func (s *Solver) echo(ctx context.Context, chunk string) {
	s.logger.Echo(chunk)
	if v, ok := ports.VertexFromContext(ctx); ok {
		_, _ = fmt.Fprint(v.Stdout(), chunk)
	}
}

func appendRaw(_ context.Context, a *attempt) (string, bool, error) {
	return a.last.Content, true, nil
}

func systemPrompt(extra string) string {
	return SystemPrompt + " " + extra
}

func queryHeader(verb, problem, systemExtra, prefill string) string {
	return fmt.Sprintf("%s with sys prompt extra: %s\n and prefill: %s\n and prompt: %s",
		verb,
		domain.Preview(systemExtra, previewLen),
		domain.Preview(prefill, previewLen),
		domain.Preview(problem, previewLen),
	)
}
