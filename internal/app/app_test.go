package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cotfaith/internal/adapters/checkpoint"
	"go.trai.ch/cotfaith/internal/adapters/telemetry"
	"go.trai.ch/cotfaith/internal/app"
	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/core/ports/mocks"
	"go.trai.ch/cotfaith/internal/engine/memo"
	"go.uber.org/mock/gomock"
)

// fakeSolver answers every problem from a fixed answer key and counts calls per variant.
type fakeSolver struct {
	mu      sync.Mutex
	answers map[string]string
	calls   map[domain.Variant]int
	failOn  string
}

var errSolve = errors.New("model unavailable")

func newFakeSolver(answers map[string]string) *fakeSolver {
	return &fakeSolver{answers: answers, calls: make(map[domain.Variant]int)}
}

func (f *fakeSolver) count(v domain.Variant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[v]++
}

func (f *fakeSolver) Calls(v domain.Variant) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[v]
}

func transcript(problem, output string) domain.Transcript {
	return domain.Transcript{
		{Role: domain.RoleSystem, Content: "system"},
		{Role: domain.RoleUser, Content: problem},
		{Role: domain.RoleAssistant, Content: output, Prefix: true},
	}
}

func (f *fakeSolver) Base(_ context.Context, problem string) (domain.Transcript, error) {
	f.count(domain.VariantBase)
	if problem == f.failOn {
		return nil, errSolve
	}
	return transcript(problem, "<think>work</think>\\boxed{"+f.answers[problem]+"}"), nil
}

func (f *fakeSolver) Hidden(_ context.Context, problem string, base domain.Transcript) (domain.Transcript, error) {
	f.count(domain.VariantHidden)
	if !strings.Contains(base.Output(), f.answers[problem]) {
		return nil, errors.New("hidden variant received the wrong base transcript")
	}
	return transcript(problem, "<think>....</think>\\boxed{"+f.answers[problem]+"}"), nil
}

func (f *fakeSolver) NoCoT(_ context.Context, problem string) (domain.Transcript, error) {
	f.count(domain.VariantNoCoT)
	return transcript(problem, "\\boxed{wrong}"), nil
}

func (f *fakeSolver) Paraphrased(_ context.Context, problem string) (domain.ParaphrasedResult, error) {
	f.count(domain.VariantParaphrased)
	return domain.ParaphrasedResult{
		Transcript: transcript(problem, "<think>reworded</think>\\boxed{"+f.answers[problem]+"}"),
		Steps:      []domain.ParaphraseStep{{Original: "work", Reworded: "reworded"}},
	}, nil
}

type fixture struct {
	app       *app.App
	solver    *fakeSolver
	store     *checkpoint.Store
	runner    *memo.Runner
	plans     *mocks.MockPlanLoader
	datasets  *mocks.MockDatasetSource
	artifacts *mocks.MockArtifactWriter
	saved     map[string]any
	mu        sync.Mutex
}

var (
	aime = domain.Experiment{Name: "aime", Kind: domain.KindAIME, Source: "aime.jsonl"}

	problems = []domain.Problem{
		{Text: "Find the first answer.", Answer: "033"},
		{Text: "Find the second answer.", Answer: "204"},
	}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	f := &fixture{
		solver: newFakeSolver(map[string]string{
			problems[0].Text: "33",
			problems[1].Text: "204",
		}),
		store:     checkpoint.NewStore(filepath.Join(t.TempDir(), "cot-faith.json"), checkpoint.WithLogger(log)),
		plans:     mocks.NewMockPlanLoader(ctrl),
		datasets:  mocks.NewMockDatasetSource(ctrl),
		artifacts: mocks.NewMockArtifactWriter(ctrl),
		saved:     make(map[string]any),
	}
	f.runner = memo.NewRunner(f.store, log)

	f.plans.EXPECT().Load(gomock.Any()).Return([]domain.Experiment{aime}, nil).AnyTimes()
	f.datasets.EXPECT().Load(gomock.Any(), aime).Return(problems, nil).AnyTimes()
	f.artifacts.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(name string, v any) (string, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.saved[name] = v
			return filepath.Join(".cache", name+".json"), nil
		}).AnyTimes()

	f.app = app.New(f.plans, f.datasets, f.store, f.artifacts, f.solver, f.runner, telemetry.NewNoOpTracer(), log).
		WithWorkers(2).
		WithIDGenerator(func() string { return "run-1" })
	return f
}

func TestApp_Run(t *testing.T) {
	f := newFixture(t)

	reports, err := f.app.Run(context.Background(), app.RunOptions{})
	require.NoError(t, err)
	require.Len(t, reports, 1)

	report := reports[0]
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, "aime", report.Experiment)
	assert.Equal(t, 2, report.Problems)

	want := map[domain.Variant]float64{
		domain.VariantBase:        1,
		domain.VariantHidden:      1,
		domain.VariantNoCoT:       0,
		domain.VariantParaphrased: 1,
	}
	require.Len(t, report.Scores, len(domain.Variants))
	for i, v := range domain.Variants {
		score := report.Scores[i]
		assert.Equal(t, v, score.Variant)
		assert.InDelta(t, want[v], score.Accuracy, 1e-9, "variant %s", v)
		assert.Equal(t, 0, score.Cached)
		assert.Equal(t, 2, score.Computed)
	}

	for _, name := range []string{
		"aime_base_responses",
		"aime_hidden_cot_responses",
		"aime_no_cot_responses",
		"aime_paraphrased_responses",
		"aime_reworded_pairs",
		"aime_report",
	} {
		assert.Contains(t, f.saved, name)
	}
	pairs, ok := f.saved["aime_reworded_pairs"].([][]domain.ParaphraseStep)
	require.True(t, ok)
	assert.Len(t, pairs, 2)

	n, err := f.store.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestApp_Run_ResumesFromCheckpoints(t *testing.T) {
	f := newFixture(t)

	_, err := f.app.Run(context.Background(), app.RunOptions{})
	require.NoError(t, err)

	reports, err := f.app.Run(context.Background(), app.RunOptions{})
	require.NoError(t, err)

	for _, v := range domain.Variants {
		assert.Equal(t, 2, f.solver.Calls(v), "variant %s recomputed", v)
	}
	for _, score := range reports[0].Scores {
		assert.Equal(t, 2, score.Cached)
		assert.Equal(t, 0, score.Computed)
	}
	base, ok := reports[0].Score(domain.VariantBase)
	require.True(t, ok)
	assert.InDelta(t, 1.0, base.Accuracy, 1e-9)
}

func TestApp_Run_Force(t *testing.T) {
	f := newFixture(t)

	_, err := f.app.Run(context.Background(), app.RunOptions{})
	require.NoError(t, err)
	_, err = f.app.Run(context.Background(), app.RunOptions{Force: true, Workers: 1})
	require.NoError(t, err)

	for _, v := range domain.Variants {
		assert.Equal(t, 4, f.solver.Calls(v))
	}
}

func TestApp_Run_NoCache(t *testing.T) {
	f := newFixture(t)

	reports, err := f.app.Run(context.Background(), app.RunOptions{NoCache: true})
	require.NoError(t, err)

	n, err := f.store.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, reports[0].Scores[0].Computed)
}

func TestApp_Run_BatchFailure(t *testing.T) {
	f := newFixture(t)
	f.solver.failOn = problems[1].Text

	reports, err := f.app.Run(context.Background(), app.RunOptions{Workers: 1})
	require.Error(t, err)
	assert.Empty(t, reports)
	assert.ErrorIs(t, err, domain.ErrBatchFailed)
	assert.ErrorIs(t, err, errSolve)

	// The failed problem was not checkpointed and no later variant ran.
	n, err := f.store.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, f.solver.Calls(domain.VariantHidden))
	assert.NotContains(t, f.saved, "aime_base_responses")
}

func TestApp_Run_PlanError(t *testing.T) {
	ctrl := gomock.NewController(t)
	plans := mocks.NewMockPlanLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	errPlan := errors.New("bad plan")
	plans.EXPECT().Load("plan.yaml").Return(nil, errPlan)

	a := app.New(plans, nil, nil, nil, nil, nil, telemetry.NewNoOpTracer(), log).WithPlanPath("plan.yaml")
	_, err := a.Run(context.Background(), app.RunOptions{})
	require.ErrorIs(t, err, errPlan)
}

func TestApp_Run_ArtifactFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t)
	writer := mocks.NewMockArtifactWriter(ctrl)
	writer.EXPECT().Save(gomock.Any(), gomock.Any()).Return("", domain.ErrArtifactWriteFailed).AnyTimes()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn("failed to save artifact", gomock.Any()).MinTimes(1)

	a := app.New(f.plans, f.datasets, f.store, writer, f.solver, f.runner, telemetry.NewNoOpTracer(), log)
	reports, err := a.Run(context.Background(), app.RunOptions{})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestApp_Clear(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.Run(context.Background(), app.RunOptions{})
	require.NoError(t, err)

	removed, err := f.app.Clear(context.Background(), "aimebase: *")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		domain.Description("aime", domain.VariantBase, problems[0].Text),
		domain.Description("aime", domain.VariantBase, problems[1].Text),
	}, removed)

	_, err = f.app.Run(context.Background(), app.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, f.solver.Calls(domain.VariantBase))
	assert.Equal(t, 2, f.solver.Calls(domain.VariantNoCoT))
}

func TestApp_DeleteAll(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.Run(context.Background(), app.RunOptions{})
	require.NoError(t, err)

	require.NoError(t, f.app.DeleteAll(context.Background()))
	n, err := f.store.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApp_StoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCheckpointStore(ctrl)
	log := mocks.NewMockLogger(ctrl)
	a := app.New(nil, nil, store, nil, nil, nil, telemetry.NewNoOpTracer(), log)

	store.EXPECT().Clear(gomock.Any(), "[").Return(nil, domain.ErrInvalidPattern)
	_, err := a.Clear(context.Background(), "[")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidPattern.Error())

	store.EXPECT().DeleteAll(gomock.Any()).Return(domain.ErrStoreDeleteFailed)
	require.ErrorIs(t, a.DeleteAll(context.Background()), domain.ErrStoreDeleteFailed)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "base problem 0", app.Label(domain.VariantBase, 0))
	assert.Equal(t, "hidden cot problem 3", app.Label(domain.VariantHidden, 3))
	assert.Equal(t, "no cot problem 1", app.Label(domain.VariantNoCoT, 1))
	assert.Equal(t, "paraphrased problem 2", app.Label(domain.VariantParaphrased, 2))
	assert.Equal(t, "other problem 4", app.Label("other", 4))
}
