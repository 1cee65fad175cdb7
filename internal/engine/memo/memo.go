// Package memo implements the checkpointed task runner.
//
// A computation is identified by a human-readable description. The first successful
// result for a description is stored and every later request for the same description
// returns the stored result without recomputing it.
package memo

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/goccy/go-json"
	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/core/ports"
)

// previewLen bounds how much of a description appears in log lines.
const previewLen = 50

// Runner memoizes computations in a checkpoint store.
type Runner struct {
	store     ports.CheckpointStore
	logger    ports.Logger
	telemetry ports.Telemetry
	enabled   bool

	hits     atomic.Int64
	misses   atomic.Int64
	failures atomic.Int64
	uncached atomic.Int64
}

// Option configures a Runner.
type Option func(*Runner)

// WithTelemetry records every memoized call as a progress vertex.
func WithTelemetry(t ports.Telemetry) Option {
	return func(r *Runner) {
		r.telemetry = t
	}
}

// WithEnabled turns memoization on or off. A disabled runner always computes.
func WithEnabled(enabled bool) Option {
	return func(r *Runner) {
		r.enabled = enabled
	}
}

// NewRunner creates an enabled Runner over store.
func NewRunner(store ports.CheckpointStore, logger ports.Logger, opts ...Option) *Runner {
	r := &Runner{
		store:   store,
		logger:  logger,
		enabled: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enabled reports whether results are read from and written to the store.
func (r *Runner) Enabled() bool {
	return r.enabled
}

// Stats counts the outcomes of memoized calls.
type Stats struct {
	// Hits were answered from the store.
	Hits int64
	// Misses were computed and stored.
	Misses int64
	// Failures were computations that returned an error.
	Failures int64
	// Uncached were computed but could not be serialized.
	Uncached int64
}

// Sub returns the per-field difference s - o.
func (s Stats) Sub(o Stats) Stats {
	return Stats{
		Hits:     s.Hits - o.Hits,
		Misses:   s.Misses - o.Misses,
		Failures: s.Failures - o.Failures,
		Uncached: s.Uncached - o.Uncached,
	}
}

// Stats returns a snapshot of the counters.
func (r *Runner) Stats() Stats {
	return Stats{
		Hits:     r.hits.Load(),
		Misses:   r.misses.Load(),
		Failures: r.failures.Load(),
		Uncached: r.uncached.Load(),
	}
}

type markConfig struct {
	force bool
}

// MarkOption configures a single memoized call.
type MarkOption func(*markConfig)

// WithForce skips the lookup, recomputes and overwrites the stored result.
func WithForce() MarkOption {
	return func(c *markConfig) {
		c.force = true
	}
}

// Mark is the untyped form of Do: a hit returns the stored result decoded into generic
// JSON values (maps, slices, float64), not the value compute returned. Use Do when a
// hit must return the same type as a miss.
func (r *Runner) Mark(
	ctx context.Context,
	compute func(context.Context) (any, error),
	description string,
	label string,
	opts ...MarkOption,
) (any, error) {
	return Do(ctx, r, description, label, compute, opts...)
}

// Do is the typed form of Runner.Mark.
//
// Errors from compute are returned unchanged and nothing is stored. A result that cannot
// be serialized is returned without being stored. A stored payload that no longer decodes
// into T is recomputed. Store failures, such as lock timeouts, are returned.
func Do[T any](
	ctx context.Context,
	r *Runner,
	description string,
	label string,
	compute func(context.Context) (T, error),
	opts ...MarkOption,
) (T, error) {
	var zero T

	if !r.enabled {
		return compute(ctx)
	}

	cfg := markConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	key := domain.Encode(description)
	ctx, vertex := r.record(ctx, key, label)

	if !cfg.force {
		payload, ok, err := r.store.Get(ctx, key)
		if err != nil {
			vertex.Complete(err)
			return zero, err
		}
		if ok {
			var cached T
			decodeErr := json.Unmarshal(payload, &cached)
			if decodeErr == nil {
				r.hits.Add(1)
				if label != "" {
					r.logger.Info("loaded checkpoint", "name", label, "key", domain.Preview(description, previewLen))
				}
				vertex.Cached()
				vertex.Complete(nil)
				return cached, nil
			}
			r.logger.Warn("discarding undecodable checkpoint",
				"name", label,
				"key", domain.Preview(description, previewLen),
				"error", decodeErr,
			)
		}
	}

	result, err := compute(ctx)
	if err != nil {
		r.failures.Add(1)
		vertex.Complete(err)
		return zero, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		r.uncached.Add(1)
		r.logger.Warn("result not serializable, checkpoint not saved",
			"name", label,
			"key", domain.Preview(description, previewLen),
			"error", err,
		)
		vertex.Complete(nil)
		return result, nil
	}

	if err := r.store.Put(ctx, key, payload); err != nil {
		vertex.Complete(err)
		return zero, err
	}

	r.misses.Add(1)
	if label != "" {
		r.logger.Info("saved checkpoint", "name", label, "key", domain.Preview(description, previewLen))
	}
	vertex.Complete(nil)
	return result, nil
}

// record opens a progress vertex for the call. Unlabelled calls are named by digest.
func (r *Runner) record(ctx context.Context, key domain.Fingerprint, label string) (context.Context, ports.Vertex) {
	if r.telemetry == nil {
		return ctx, noopVertex{}
	}
	name := label
	if name == "" {
		name = key.Digest()
	}
	ctx, vertex := r.telemetry.Record(ctx, name)
	return ports.ContextWithVertex(ctx, vertex), vertex
}

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer           { return io.Discard }
func (noopVertex) Log(domain.LogLevel, string) {}
func (noopVertex) Cached()                     {}
func (noopVertex) Complete(error)              {}
