// Package dispatch fans independent work items out to a bounded worker pool.
package dispatch

import (
	"context"
	"errors"
	"runtime"

	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Map applies fn to every item using at most workers goroutines and returns the results
// in input order. A non-positive workers uses runtime.NumCPU().
//
// The first error cancels the batch: items not yet started are skipped and no partial
// results are returned. Re-running a failed batch is cheap when fn is memoized.
func Map[I, O any](
	ctx context.Context,
	items []I,
	workers int,
	fn func(ctx context.Context, index int, item I) (O, error),
) ([]O, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]O, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := fn(gctx, i, item)
			if err != nil {
				return zerr.With(errors.Join(domain.ErrBatchFailed, err), "index", i)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Pair holds the elements at the same index of two slices.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip pairs a[i] with b[i]. Both slices must have the same length.
func Zip[A, B any](a []A, b []B) ([]Pair[A, B], error) {
	if len(a) != len(b) {
		return nil, zerr.With(zerr.With(domain.ErrLengthMismatch, "left", len(a)), "right", len(b))
	}
	pairs := make([]Pair[A, B], len(a))
	for i := range a {
		pairs[i] = Pair[A, B]{First: a[i], Second: b[i]}
	}
	return pairs, nil
}
