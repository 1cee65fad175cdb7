// Package app implements the application layer for cotfaith.
package app

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/core/ports"
	"go.trai.ch/cotfaith/internal/engine/dispatch"
	"go.trai.ch/cotfaith/internal/engine/memo"
	"go.trai.ch/cotfaith/internal/engine/scoring"
	"go.trai.ch/zerr"
)

const previewLen = 50

// Solver produces the transcript of a problem under each variant.
type Solver interface {
	Base(ctx context.Context, problem string) (domain.Transcript, error)
	Hidden(ctx context.Context, problem string, base domain.Transcript) (domain.Transcript, error)
	NoCoT(ctx context.Context, problem string) (domain.Transcript, error)
	Paraphrased(ctx context.Context, problem string) (domain.ParaphrasedResult, error)
}

// App represents the main application logic.
type App struct {
	plans     ports.PlanLoader
	datasets  ports.DatasetSource
	store     ports.CheckpointStore
	artifacts ports.ArtifactWriter
	solver    Solver
	memo      *memo.Runner
	tracer    ports.Tracer
	logger    ports.Logger
	workers   int
	planPath  string
	newID     func() string
}

// New creates a new App instance.
func New(
	plans ports.PlanLoader,
	datasets ports.DatasetSource,
	store ports.CheckpointStore,
	artifacts ports.ArtifactWriter,
	solver Solver,
	runner *memo.Runner,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		plans:     plans,
		datasets:  datasets,
		store:     store,
		artifacts: artifacts,
		solver:    solver,
		memo:      runner,
		tracer:    tracer,
		logger:    log,
		newID:     uuid.NewString,
	}
}

// WithWorkers sets the default batch concurrency. Zero uses one worker per CPU.
func (a *App) WithWorkers(n int) *App {
	a.workers = n
	return a
}

// WithPlanPath sets the plan file used when RunOptions names none.
func (a *App) WithPlanPath(path string) *App {
	a.planPath = path
	return a
}

// WithIDGenerator replaces the run ID generator.
// This is primarily used for testing to get stable report contents.
func (a *App) WithIDGenerator(fn func() string) *App {
	a.newID = fn
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// PlanPath names the experiment plan file. Empty runs the default plan.
	PlanPath string
	// Force recomputes every result and overwrites its checkpoint.
	Force bool
	// NoCache computes every result without reading or writing checkpoints.
	NoCache bool
	// Workers overrides the batch concurrency when positive.
	Workers int
}

// Run evaluates every experiment of the plan in order and returns one report each.
// A failed batch stops the run. Reports of experiments that finished are still returned.
func (a *App) Run(ctx context.Context, opts RunOptions) ([]domain.Report, error) {
	planPath := opts.PlanPath
	if planPath == "" {
		planPath = a.planPath
	}
	experiments, err := a.plans.Load(planPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load experiment plan")
	}
	if len(experiments) == 0 {
		return nil, domain.ErrNoExperiments
	}

	runID := a.newID()
	reports := make([]domain.Report, 0, len(experiments))
	for _, exp := range experiments {
		report, err := a.runExperiment(ctx, runID, exp, opts)
		if err != nil {
			return reports, zerr.With(err, "experiment", exp.Name)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Clear removes every checkpoint whose description matches pattern and returns
// the removed descriptions.
func (a *App) Clear(ctx context.Context, pattern string) ([]string, error) {
	removed, err := a.store.Clear(ctx, pattern)
	if err != nil {
		return nil, zerr.With(err, "pattern", pattern)
	}
	for _, description := range removed {
		a.logger.Info("removed checkpoint", "key", domain.Preview(description, previewLen))
	}
	a.logger.Info("cleared checkpoints", "pattern", pattern, "count", len(removed))
	return removed, nil
}

// DeleteAll removes the checkpoint store and its lock file.
func (a *App) DeleteAll(ctx context.Context) error {
	if err := a.store.DeleteAll(ctx); err != nil {
		return err
	}
	a.logger.Info("deleted checkpoint store")
	return nil
}

func (a *App) runExperiment(
	ctx context.Context,
	runID string,
	exp domain.Experiment,
	opts RunOptions,
) (domain.Report, error) {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "experiment",
		ports.WithAttribute("experiment", exp.Name),
		ports.WithAttribute("kind", string(exp.Kind)),
	)
	defer span.End()

	scorer, err := scoring.ScorerFor(exp)
	if err != nil {
		span.RecordError(err)
		return domain.Report{}, err
	}

	problems, err := a.datasets.Load(ctx, exp)
	if err != nil {
		span.RecordError(err)
		return domain.Report{}, err
	}
	items := domain.NewWorkItems(problems)
	truths := make([]string, len(problems))
	for i, p := range problems {
		truths[i] = p.Answer
	}
	span.SetAttribute("problems", len(items))
	a.logger.Info("processing problems", "experiment", exp.Name, "problems", len(items))

	run := &variantRun{app: a, exp: exp, opts: opts, scorer: scorer, truths: truths}

	base, err := runBatch(ctx, run, domain.VariantBase, items, itself,
		func(ctx context.Context, w domain.WorkItem) (domain.Transcript, error) {
			return a.solver.Base(ctx, w.Problem.Text)
		})
	if err != nil {
		span.RecordError(err)
		return domain.Report{}, err
	}
	a.save(exp.Name+"_base_responses", base)
	run.score(domain.VariantBase, base)

	pairs, err := dispatch.Zip(items, base)
	if err != nil {
		return domain.Report{}, err
	}
	hidden, err := runBatch(ctx, run, domain.VariantHidden, pairs,
		func(p dispatch.Pair[domain.WorkItem, domain.Transcript]) domain.WorkItem { return p.First },
		func(ctx context.Context, p dispatch.Pair[domain.WorkItem, domain.Transcript]) (domain.Transcript, error) {
			return a.solver.Hidden(ctx, p.First.Problem.Text, p.Second)
		})
	if err != nil {
		span.RecordError(err)
		return domain.Report{}, err
	}
	a.save(exp.Name+"_hidden_cot_responses", hidden)
	run.score(domain.VariantHidden, hidden)

	nocot, err := runBatch(ctx, run, domain.VariantNoCoT, items, itself,
		func(ctx context.Context, w domain.WorkItem) (domain.Transcript, error) {
			return a.solver.NoCoT(ctx, w.Problem.Text)
		})
	if err != nil {
		span.RecordError(err)
		return domain.Report{}, err
	}
	a.save(exp.Name+"_no_cot_responses", nocot)
	run.score(domain.VariantNoCoT, nocot)

	results, err := runBatch(ctx, run, domain.VariantParaphrased, items, itself,
		func(ctx context.Context, w domain.WorkItem) (domain.ParaphrasedResult, error) {
			return a.solver.Paraphrased(ctx, w.Problem.Text)
		})
	if err != nil {
		span.RecordError(err)
		return domain.Report{}, err
	}
	paraphrased := make([]domain.Transcript, len(results))
	steps := make([][]domain.ParaphraseStep, len(results))
	for i, r := range results {
		paraphrased[i] = r.Transcript
		steps[i] = r.Steps
	}
	a.save(exp.Name+"_paraphrased_responses", paraphrased)
	a.save(exp.Name+"_reworded_pairs", steps)
	run.score(domain.VariantParaphrased, paraphrased)

	report := domain.Report{
		RunID:      runID,
		Experiment: exp.Name,
		Problems:   len(items),
		Scores:     run.scores,
		StartedAt:  start.UTC(),
		Duration:   time.Since(start),
	}
	a.save(exp.Name+"_report", report)
	return report, nil
}

// variantRun collects the scores of one experiment as its variants finish.
type variantRun struct {
	app    *App
	exp    domain.Experiment
	opts   RunOptions
	scorer scoring.Scorer
	truths []string
	scores []domain.VariantScore
	stats  memo.Stats
}

func (r *variantRun) score(v domain.Variant, transcripts []domain.Transcript) {
	outputs := make([]string, len(transcripts))
	for i, t := range transcripts {
		outputs[i] = t.Output()
	}

	accuracy, correct, err := scoring.Score(r.scorer, outputs, r.truths)
	if err != nil {
		r.app.logger.Warn("failed to score variant", "experiment", r.exp.Name, "variant", string(v), "error", err)
	}

	cached, computed := int(r.stats.Hits), int(r.stats.Misses+r.stats.Uncached)
	if r.opts.NoCache || !r.app.memo.Enabled() {
		cached, computed = 0, len(transcripts)
	}

	r.scores = append(r.scores, domain.VariantScore{
		Variant:  v,
		Accuracy: accuracy,
		Correct:  correct,
		Cached:   cached,
		Computed: computed,
	})
	r.app.logger.Info("accuracy",
		"experiment", r.exp.Name,
		"variant", string(v),
		"accuracy", accuracy,
	)
}

func itself(w domain.WorkItem) domain.WorkItem {
	return w
}

// runBatch fans inputs out to the worker pool, memoizing each solve under the
// description of its problem and variant.
func runBatch[I, O any](
	ctx context.Context,
	run *variantRun,
	v domain.Variant,
	inputs []I,
	item func(I) domain.WorkItem,
	solve func(context.Context, I) (O, error),
) ([]O, error) {
	a := run.app
	labels := make([]string, len(inputs))
	for i, in := range inputs {
		labels[i] = Label(v, item(in).Index)
	}
	a.tracer.EmitPlan(ctx, labels)
	a.logger.Info("processing variant", "experiment", run.exp.Name, "variant", string(v), "problems", len(inputs))

	workers := a.workers
	if run.opts.Workers > 0 {
		workers = run.opts.Workers
	}
	var markOpts []memo.MarkOption
	if run.opts.Force {
		markOpts = append(markOpts, memo.WithForce())
	}

	before := a.memo.Stats()
	out, err := dispatch.Map(ctx, inputs, workers, func(ctx context.Context, i int, in I) (O, error) {
		if run.opts.NoCache {
			return solve(ctx, in)
		}
		description := domain.Description(run.exp.Name, v, item(in).Problem.Text)
		return memo.Do(ctx, a.memo, description, labels[i], func(ctx context.Context) (O, error) {
			return solve(ctx, in)
		}, markOpts...)
	})
	run.stats = a.memo.Stats().Sub(before)
	if err != nil {
		return nil, zerr.With(err, "variant", string(v))
	}
	return out, nil
}

// Label names the work item of problem index under v in logs and progress output.
func Label(v domain.Variant, index int) string {
	i := strconv.Itoa(index)
	switch v {
	case domain.VariantBase:
		return "base problem " + i
	case domain.VariantHidden:
		return "hidden cot problem " + i
	case domain.VariantNoCoT:
		return "no cot problem " + i
	case domain.VariantParaphrased:
		return "paraphrased problem " + i
	default:
		return string(v) + " problem " + i
	}
}

// save writes an artifact. Failures are reported but never fail the run.
func (a *App) save(name string, v any) {
	if _, err := a.artifacts.Save(name, v); err != nil {
		a.logger.Warn("failed to save artifact", "name", name, "error", err)
	}
}
