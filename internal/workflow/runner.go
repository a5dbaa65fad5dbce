package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"alacify/internal/logging"
	"alacify/internal/media/flacmeta"
	"alacify/internal/overwrite"
	"alacify/internal/services"
	"alacify/internal/task"
	"alacify/internal/verify"
)

// Converter performs the transcode step.
type Converter interface {
	Convert(ctx context.Context, t task.Task) error
}

// Verifier performs the optional verification step.
type Verifier interface {
	Verify(ctx context.Context, t task.Task) (verify.Report, error)
}

// InspectFunc reads informational source metadata. Errors are logged and
// ignored.
type InspectFunc func(path string) (flacmeta.Info, error)

// Options controls a single run. Values are fixed once Run starts.
type Options struct {
	Policy      overwrite.Policy
	Confirmer   overwrite.Confirmer
	Parallelism int
	Verify      bool
	Simulate    bool
	// TaskTimeout bounds each task; zero disables the limit.
	TaskTimeout time.Duration
	Observers   []Observer
	// RunID names the run; a random id is generated when empty.
	RunID string
}

// Runner executes tasks.
type Runner struct {
	converter Converter
	verifier  Verifier
	inspect   InspectFunc
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

// NewRunner constructs a Runner. inspect may be nil.
func NewRunner(converter Converter, verifier Verifier, inspect InspectFunc, logger *slog.Logger) *Runner {
	return &Runner{
		converter: converter,
		verifier:  verifier,
		inspect:   inspect,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Run processes every task and returns the aggregated summary. The error is
// ErrRunFailed (with the failure count) when any task failed; per-task
// errors are reported through the summary only.
func (r *Runner) Run(ctx context.Context, tasks []task.Task, opts Options) (Summary, error) {
	runID := opts.RunID
	if runID == "" {
		runID = r.newID()
	}
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	workers := opts.Parallelism
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	info := RunInfo{
		ID:          runID,
		Total:       len(tasks),
		Parallelism: workers,
		Policy:      opts.Policy,
		Verify:      opts.Verify,
		Simulate:    opts.Simulate,
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	for _, o := range opts.Observers {
		o.RunStarted(info)
	}
	logger.Info("conversion run started",
		logging.Int("tasks", len(tasks)),
		logging.Int("parallelism", info.Parallelism),
		logging.String("overwrite", string(opts.Policy)),
		logging.Bool("verify", opts.Verify),
		logging.Bool("dry_run", opts.Simulate),
		logging.String(logging.FieldEventType, "run_started"),
	)

	started := r.now()
	resolver := overwrite.NewResolver(opts.Policy, opts.Confirmer, opts.Simulate, r.logger)
	results := make([]task.Result, len(tasks))
	events := make(chan event, workers*2+1)
	collected := make(chan struct{})
	go collect(events, opts.Observers, results, collected)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				t := tasks[index]
				if err := ctx.Err(); err != nil {
					events <- event{kind: eventFinished, index: index, result: canceledResult(t, err)}
					continue
				}
				events <- event{kind: eventStarted, index: index, task: t}
				events <- event{kind: eventFinished, index: index, result: r.runTask(ctx, index, t, resolver, opts)}
			}
		}()
	}
	for index := range tasks {
		jobs <- index
	}
	close(jobs)
	wg.Wait()
	close(events)
	<-collected

	summary := summarize(runID, results, opts.Simulate, r.now().Sub(started))
	for _, o := range opts.Observers {
		o.RunFinished(summary)
	}
	logger.Info("conversion run finished",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", len(summary.Failed)),
		logging.Duration("elapsed", summary.Elapsed),
		logging.String(logging.FieldEventType, "run_finished"),
	)

	if !summary.OK() {
		return summary, fmt.Errorf("%w: %d conversion(s) failed", ErrRunFailed, len(summary.Failed))
	}
	return summary, nil
}

// runTask applies resolve, convert and verify to one task.
func (r *Runner) runTask(ctx context.Context, index int, t task.Task, resolver *overwrite.Resolver, opts Options) task.Result {
	started := r.now()
	ctx = services.WithTaskIndex(ctx, index+1)
	logger := logging.WithContext(ctx, r.logger)

	result := task.Result{Task: t}
	finish := func(outcome task.Outcome, reason string, err error) task.Result {
		result.Outcome = outcome
		result.Reason = reason
		result.Err = err
		result.Duration = r.now().Sub(started)
		return result
	}
	fail := func(err error) task.Result {
		logging.WarnWithContext(logger, "conversion failed", "task_failed",
			logging.String("source", t.Source),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file not converted; other tasks continue"),
		)
		return finish(task.OutcomeFailed, err.Error(), err)
	}

	if t.Err != nil {
		return fail(t.Err)
	}

	if opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TaskTimeout)
		defer cancel()
	}

	if r.inspect != nil {
		if meta, err := r.inspect(t.Source); err == nil {
			result.Source = meta
		} else if !errors.Is(err, flacmeta.ErrUnsupported) {
			logger.Debug("source metadata unavailable", logging.String("source", t.Source), logging.Error(err))
		}
	}

	decision, err := resolver.Resolve(services.WithStage(ctx, "resolve"), t)
	if err != nil {
		return fail(r.timeoutAware(ctx, opts, err))
	}
	if !decision.Proceed {
		logger.Info("skipped", logging.String("destination", t.Destination), logging.String("reason", decision.Reason))
		return finish(task.OutcomeSkipped, decision.Reason, nil)
	}

	if opts.Simulate {
		result.Simulated = true
		action := "would convert"
		if decision.Exists {
			action = "would replace"
		}
		logger.Info(action,
			logging.String("source", t.Source),
			logging.String("destination", t.Destination),
			logging.String(logging.FieldEventType, "dry_run"),
		)
		return finish(task.OutcomeSuccess, action, nil)
	}

	if err := r.converter.Convert(services.WithStage(ctx, "transcode"), t); err != nil {
		return fail(r.timeoutAware(ctx, opts, err))
	}

	if opts.Verify && r.verifier != nil {
		if _, err := r.verifier.Verify(services.WithStage(ctx, "verify"), t); err != nil {
			return fail(r.timeoutAware(ctx, opts, err))
		}
		result.Verified = true
	}

	logger.Info("converted",
		logging.String("source", t.Source),
		logging.String("destination", t.Destination),
		logging.Bool("verified", result.Verified),
		logging.String("audio", result.Source.String()),
	)
	return finish(task.OutcomeSuccess, "", nil)
}

func (r *Runner) timeoutAware(ctx context.Context, opts Options, err error) error {
	if opts.TaskTimeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("timed out after %s: %w", opts.TaskTimeout, err)
	}
	return err
}

func canceledResult(t task.Task, err error) task.Result {
	wrapped := services.Wrap(services.ErrCanceled, "workflow", "schedule", "run canceled before task started", err)
	return task.Result{Task: t, Outcome: task.OutcomeFailed, Reason: wrapped.Error(), Err: wrapped}
}
