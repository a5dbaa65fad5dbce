package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"alacify/internal/config"
	"alacify/internal/deps"
	"alacify/internal/discovery"
	"alacify/internal/fileutil"
	"alacify/internal/logging"
	"alacify/internal/media/ffmpeg"
	"alacify/internal/media/flacmeta"
	"alacify/internal/metrics"
	"alacify/internal/overwrite"
	"alacify/internal/runlock"
	"alacify/internal/services"
	"alacify/internal/status"
	"alacify/internal/task"
	"alacify/internal/transcode"
	"alacify/internal/verify"
	"alacify/internal/workflow"
)

// Service wires configuration into discovery and conversion runs.
type Service struct {
	cfg     *config.Config
	logger  *slog.Logger
	runner  ffmpeg.Runner
	tracker *status.Tracker
	lockDir string
	now     func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithRunner replaces the os/exec command runner.
func WithRunner(runner ffmpeg.Runner) Option {
	return func(s *Service) {
		if runner != nil {
			s.runner = runner
		}
	}
}

// WithLockDir places run lock files in dir instead of the system temp dir.
func WithLockDir(dir string) Option {
	return func(s *Service) {
		s.lockDir = dir
	}
}

// NewService constructs a Service for cfg.
func NewService(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "init", "config is required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Service{
		cfg:     cfg,
		logger:  logger,
		runner:  ffmpeg.NewExecRunner(),
		tracker: status.NewTracker(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RunOptions controls one Run call.
type RunOptions struct {
	Policy      overwrite.Policy
	Parallelism int
	Verify      bool
	Simulate    bool
	Confirmer   overwrite.Confirmer
	Observers   []workflow.Observer
	// LockRoot is the output tree guarded against concurrent runs. Empty
	// disables locking. Simulated runs never lock.
	LockRoot string
}

// DefaultRunOptions returns the run options implied by the configuration.
func (s *Service) DefaultRunOptions() (RunOptions, error) {
	policy, err := overwrite.ParsePolicy(s.cfg.Conversion.Overwrite)
	if err != nil {
		return RunOptions{}, services.Wrap(services.ErrConfiguration, "api", "options", "conversion.overwrite", err)
	}
	return RunOptions{
		Policy:      policy,
		Parallelism: s.cfg.Parallelism(),
		Verify:      s.cfg.Conversion.Verify,
	}, nil
}

// Discover enumerates the conversion tasks for input.
func (s *Service) Discover(input, outputRoot string) ([]task.Task, error) {
	source, err := s.cfg.SourceFormat()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "discover", "conversion.source_format", err)
	}
	target, err := s.cfg.TargetFormat()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "discover", "conversion.target_format", err)
	}
	return discovery.New(source, target, s.logger).Discover(input, outputRoot)
}

// CheckTool runs the ffmpeg availability probe.
func (s *Service) CheckTool(ctx context.Context) error {
	tool, err := deps.RequireFFmpeg(ctx, s.runner, s.cfg.FFmpegBinary())
	if err != nil {
		return err
	}
	s.logger.Debug("ffmpeg available",
		logging.String("command", tool.Command),
		logging.String("version", tool.Version),
	)
	return nil
}

// Status returns a snapshot of the current or most recent run.
func (s *Service) Status() status.Snapshot {
	return s.tracker.Snapshot()
}

// Run checks preconditions and converts tasks. Precondition failures abort
// before any task starts and are recorded in Status.
func (s *Service) Run(ctx context.Context, tasks []task.Task, opts RunOptions) (workflow.Summary, error) {
	s.tracker.Reset(len(tasks))

	if err := s.CheckTool(ctx); err != nil {
		return s.abort(err)
	}
	if len(tasks) == 0 {
		return s.abort(services.Wrap(services.ErrNoInputFiles, "api", "run", "no tasks to run", nil))
	}
	target, err := s.cfg.TargetFormat()
	if err != nil {
		return s.abort(services.Wrap(services.ErrConfiguration, "api", "run", "conversion.target_format", err))
	}

	if !opts.Simulate && opts.LockRoot != "" {
		lock, err := runlock.Acquire(s.lockDir, opts.LockRoot)
		if err != nil {
			return s.abort(err)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				s.logger.Warn("release run lock failed", logging.String("path", lock.Path()), logging.Error(err))
			}
		}()
	}

	runID := uuid.NewString()
	logger, closeLog := s.openRunLog(runID)
	defer closeLog()

	binary := s.cfg.FFmpegBinary()
	executor := transcode.New(binary, target, s.runner, s.cfg.Conversion.RemovePartial, logger)
	verifier := verify.New(binary, s.runner, logger)
	runner := workflow.NewRunner(executor, verifier, flacmeta.Inspect, logger)

	observers := append([]workflow.Observer{s.tracker}, opts.Observers...)
	var recorder *metrics.Recorder
	if s.cfg.Metrics.Textfile != "" {
		recorder = metrics.NewRecorder()
		observers = append(observers, recorder)
	}

	summary, runErr := runner.Run(ctx, tasks, workflow.Options{
		Policy:      opts.Policy,
		Confirmer:   opts.Confirmer,
		Parallelism: opts.Parallelism,
		Verify:      opts.Verify,
		Simulate:    opts.Simulate,
		TaskTimeout: s.cfg.TaskTimeout(),
		Observers:   observers,
		RunID:       runID,
	})

	if recorder != nil {
		s.writeMetrics(logger, recorder)
	}
	return summary, runErr
}

func (s *Service) abort(err error) (workflow.Summary, error) {
	s.tracker.Fail(err)
	logging.ErrorWithContext(s.logger, "conversion run aborted", "run_aborted",
		logging.String(logging.FieldErrorKind, services.Kind(err)),
		logging.Error(err),
		logging.String(logging.FieldImpact, "no files were converted"),
	)
	return workflow.Summary{}, err
}

func (s *Service) writeMetrics(logger *slog.Logger, recorder *metrics.Recorder) {
	path := s.cfg.Metrics.Textfile
	if err := fileutil.EnsureParentDir(path); err != nil {
		logger.Warn("metrics textfile directory unavailable", logging.String("path", path), logging.Error(err))
		return
	}
	if err := recorder.WriteTextfile(path); err != nil {
		logger.Warn("metrics textfile not written", logging.String("path", path), logging.Error(err))
		return
	}
	logger.Debug("metrics textfile written", logging.String("path", path))
}

// openRunLog returns the logger for one run and a func that closes its file.
func (s *Service) openRunLog(runID string) (*slog.Logger, func()) {
	dir := s.cfg.Logging.Dir
	if dir == "" {
		return s.logger, func() {}
	}
	now := s.now()
	runLog, err := logging.OpenRunLog(s.logger, dir, runID, now)
	if err != nil {
		logging.WarnWithContext(s.logger, "run log unavailable", "run_log_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run logs to the console only"),
		)
		return s.logger, func() {}
	}
	if removed := logging.PruneRunLogs(runLog.Logger, dir, s.cfg.Logging.RetentionDays, now, runLog.Path); removed > 0 {
		runLog.Logger.Debug("pruned run logs", logging.Int("removed", removed))
	}
	runLog.Logger.Info("run log opened", logging.String("path", runLog.Path))
	return runLog.Logger, func() { _ = runLog.Close() }
}

// SummaryLine renders a one-line summary for console output.
func SummaryLine(summary workflow.Summary) string {
	return summary.Line()
}
