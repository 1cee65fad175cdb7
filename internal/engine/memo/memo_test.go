package memo_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cotfaith/internal/adapters/checkpoint"
	"go.trai.ch/cotfaith/internal/adapters/logger"
	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/core/ports"
	"go.trai.ch/cotfaith/internal/core/ports/mocks"
	"go.trai.ch/cotfaith/internal/engine/memo"
	"go.uber.org/mock/gomock"
)

type answer struct {
	Text  string   `json:"text"`
	Steps []string `json:"steps"`
}

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	lg, ok := logger.New().(*logger.Logger)
	require.True(t, ok)
	lg.SetOutput(buf)
	return lg, buf
}

func newRunner(t *testing.T, opts ...memo.Option) (*memo.Runner, *checkpoint.Store, *bytes.Buffer) {
	t.Helper()
	lg, buf := newTestLogger(t)
	store := checkpoint.NewStore(filepath.Join(t.TempDir(), "cot-faith.json"))
	return memo.NewRunner(store, lg, opts...), store, buf
}

func TestDo_Idempotent(t *testing.T) {
	ctx := context.Background()
	runner, _, _ := newRunner(t)

	var calls atomic.Int32
	compute := func(context.Context) (answer, error) {
		calls.Add(1)
		return answer{Text: "\\boxed{42}", Steps: []string{"a", "b"}}, nil
	}

	first, err := memo.Do(ctx, runner, "aimebase: p", "", compute)
	require.NoError(t, err)
	second, err := memo.Do(ctx, runner, "aimebase: p", "", compute)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, memo.Stats{Hits: 1, Misses: 1}, runner.Stats())
}

func TestDo_SurvivesNewRunner(t *testing.T) {
	ctx := context.Background()
	runner, store, _ := newRunner(t)

	_, err := memo.Do(ctx, runner, "d", "", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)

	lg, _ := newTestLogger(t)
	fresh := memo.NewRunner(checkpoint.NewStore(store.Path()), lg)
	got, err := memo.Do(ctx, fresh, "d", "", func(context.Context) (int, error) {
		t.Fatal("compute must not run on a hit")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestDo_FailureIsolation(t *testing.T) {
	ctx := context.Background()
	runner, store, _ := newRunner(t)

	boom := errors.New("boom")
	_, err := memo.Do(ctx, runner, "d", "", func(context.Context) (string, error) { return "", boom })
	require.ErrorIs(t, err, boom, "compute errors propagate unchanged")

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "failed results are never stored")

	got, err := memo.Do(ctx, runner, "d", "", func(context.Context) (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int64(1), runner.Stats().Failures)
}

func TestDo_UnserializableResult(t *testing.T) {
	ctx := context.Background()
	runner, store, logs := newRunner(t)

	got, err := memo.Do(ctx, runner, "d", "nan", func(context.Context) (float64, error) { return math.NaN(), nil })
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got), "the result is returned even though it cannot be stored")

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, logs.String(), "checkpoint not saved")
	assert.Equal(t, int64(1), runner.Stats().Uncached)
}

func TestDo_Force(t *testing.T) {
	ctx := context.Background()
	runner, _, _ := newRunner(t)

	_, err := memo.Do(ctx, runner, "d", "", func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	got, err := memo.Do(ctx, runner, "d", "", func(context.Context) (int, error) { return 2, nil }, memo.WithForce())
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	got, err = memo.Do(ctx, runner, "d", "", func(context.Context) (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, got, "forced results overwrite the stored entry")
}

func TestDo_Disabled(t *testing.T) {
	ctx := context.Background()
	runner, store, _ := newRunner(t, memo.WithEnabled(false))
	assert.False(t, runner.Enabled())

	var calls int
	for range 2 {
		_, err := memo.Do(ctx, runner, "d", "", func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, calls)
	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDo_UndecodableHitIsRecomputed(t *testing.T) {
	ctx := context.Background()
	runner, store, logs := newRunner(t)

	require.NoError(t, store.Put(ctx, domain.Encode("d"), []byte(`"not a number"`)))

	got, err := memo.Do(ctx, runner, "d", "", func(context.Context) (int, error) { return 5, nil })
	require.NoError(t, err)
	assert.Equal(t, 5, got)
	assert.Contains(t, logs.String(), "discarding undecodable checkpoint")
}

func TestDo_LabelLogsHitsAndSaves(t *testing.T) {
	ctx := context.Background()
	runner, _, logs := newRunner(t)

	compute := func(context.Context) (int, error) { return 1, nil }
	_, err := memo.Do(ctx, runner, "aimebase: p", "base problem 0", compute)
	require.NoError(t, err)
	_, err = memo.Do(ctx, runner, "aimebase: p", "base problem 0", compute)
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "saved checkpoint")
	assert.Contains(t, out, "loaded checkpoint")
	assert.Contains(t, out, `name="base problem 0"`)
}

func TestDo_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCheckpointStore(ctrl)
	lg, _ := newTestLogger(t)
	runner := memo.NewRunner(store, lg)

	lockErr := errors.Join(domain.ErrLockTimeout, context.DeadlineExceeded)

	t.Run("get", func(t *testing.T) {
		store.EXPECT().Get(gomock.Any(), domain.Encode("g")).Return(nil, false, lockErr)

		_, err := memo.Do(ctx, runner, "g", "", func(context.Context) (int, error) {
			t.Fatal("compute must not run when the lookup fails")
			return 0, nil
		})
		assert.ErrorIs(t, err, domain.ErrLockTimeout)
	})

	t.Run("put", func(t *testing.T) {
		store.EXPECT().Get(gomock.Any(), domain.Encode("p")).Return(nil, false, nil)
		store.EXPECT().Put(gomock.Any(), domain.Encode("p"), []byte("1")).Return(lockErr)

		_, err := memo.Do(ctx, runner, "p", "", func(context.Context) (int, error) { return 1, nil })
		assert.ErrorIs(t, err, domain.ErrLockTimeout)
	})
}

func TestDo_Telemetry(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCheckpointStore(ctrl)
	telemetry := mocks.NewMockTelemetry(ctrl)
	lg, _ := newTestLogger(t)
	runner := memo.NewRunner(store, lg, memo.WithTelemetry(telemetry))

	t.Run("hit is marked cached", func(t *testing.T) {
		vertex := mocks.NewMockVertex(ctrl)
		telemetry.EXPECT().Record(gomock.Any(), "hidden problem 3").Return(ctx, vertex)
		store.EXPECT().Get(gomock.Any(), domain.Encode("h")).Return([]byte("9"), true, nil)
		cached := vertex.EXPECT().Cached()
		vertex.EXPECT().Complete(nil).After(cached)

		got, err := memo.Do(ctx, runner, "h", "hidden problem 3", func(context.Context) (int, error) { return 0, nil })
		require.NoError(t, err)
		assert.Equal(t, 9, got)
	})

	t.Run("unlabelled calls are named by digest", func(t *testing.T) {
		vertex := mocks.NewMockVertex(ctrl)
		telemetry.EXPECT().Record(gomock.Any(), domain.Encode("m").Digest()).Return(ctx, vertex)
		store.EXPECT().Get(gomock.Any(), domain.Encode("m")).Return(nil, false, nil)
		store.EXPECT().Put(gomock.Any(), domain.Encode("m"), []byte("1")).Return(nil)
		vertex.EXPECT().Complete(nil)

		var seen bool
		_, err := memo.Do(ctx, runner, "m", "", func(ctx context.Context) (int, error) {
			_, seen = ports.VertexFromContext(ctx)
			return 1, nil
		})
		require.NoError(t, err)
		assert.True(t, seen, "compute sees its vertex in the context")
	})

	t.Run("failure completes with the error", func(t *testing.T) {
		vertex := mocks.NewMockVertex(ctrl)
		boom := errors.New("boom")
		telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).Return(ctx, vertex)
		store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
		vertex.EXPECT().Complete(boom)

		_, err := memo.Do(ctx, runner, "f", "", func(context.Context) (int, error) { return 0, boom })
		assert.ErrorIs(t, err, boom)
	})
}

func TestMark_Generic(t *testing.T) {
	ctx := context.Background()
	runner, _, _ := newRunner(t)

	compute := func(context.Context) (any, error) {
		return map[string]any{"role": "assistant", "content": "\\boxed{1}"}, nil
	}

	first, err := runner.Mark(ctx, compute, "d", "")
	require.NoError(t, err)
	second, err := runner.Mark(ctx, func(context.Context) (any, error) {
		t.Fatal("compute must not run on a hit")
		return nil, nil
	}, "d", "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMark_HitReturnsGenericJSON(t *testing.T) {
	ctx := context.Background()
	runner, _, _ := newRunner(t)

	type result struct {
		Answer string `json:"answer"`
	}
	miss, err := runner.Mark(ctx, func(context.Context) (any, error) {
		return result{Answer: "7"}, nil
	}, "typed", "")
	require.NoError(t, err)
	assert.Equal(t, result{Answer: "7"}, miss)

	hit, err := runner.Mark(ctx, func(context.Context) (any, error) {
		t.Fatal("compute must not run on a hit")
		return nil, nil
	}, "typed", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"answer": "7"}, hit)

	typed, err := memo.Do(ctx, runner, "typed", "", func(context.Context) (result, error) {
		t.Fatal("compute must not run on a hit")
		return result{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, result{Answer: "7"}, typed)
}

func TestStats_Sub(t *testing.T) {
	a := memo.Stats{Hits: 5, Misses: 3, Failures: 1, Uncached: 2}
	b := memo.Stats{Hits: 2, Misses: 1}
	assert.Equal(t, memo.Stats{Hits: 3, Misses: 2, Failures: 1, Uncached: 2}, a.Sub(b))
}
