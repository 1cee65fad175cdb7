package ports

import (
	"context"

	"go.trai.ch/cotfaith/internal/core/domain"
)

// CheckpointStore persists completed results keyed by fingerprint.
// Implementations must be safe for concurrent use by goroutines and processes.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CheckpointStore interface {
	// Get returns the payload stored under key.
	// A missing or corrupt store reads as empty and reports ok == false.
	Get(ctx context.Context, key domain.Fingerprint) (payload []byte, ok bool, err error)

	// Put stores payload under key, merging with entries written concurrently.
	Put(ctx context.Context, key domain.Fingerprint, payload []byte) error

	// Clear removes every entry whose decoded description matches the glob pattern.
	// It returns the descriptions that were removed.
	Clear(ctx context.Context, pattern string) ([]string, error)

	// DeleteAll removes the store file and its lock file.
	DeleteAll(ctx context.Context) error

	// Len returns the number of stored entries.
	Len(ctx context.Context) (int, error)
}

// ArtifactWriter persists write-only JSON snapshots of a run for offline inspection.
type ArtifactWriter interface {
	// Save writes v under name and returns the written path.
	Save(name string, v any) (string, error)
}

// DatasetSource produces the problems of an experiment.
type DatasetSource interface {
	// Load returns the problems of exp in a stable order.
	Load(ctx context.Context, exp domain.Experiment) ([]domain.Problem, error)
}
