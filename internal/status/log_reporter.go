package status

import (
	"log/slog"

	"alacify/internal/logging"
	"alacify/internal/task"
	"alacify/internal/workflow"
)

// LogReporter logs run progress at bucketed percentages. It is the headless
// progress view when no terminal is attached.
type LogReporter struct {
	workflow.NopObserver
	base      *slog.Logger
	logger    *slog.Logger
	sampler   *logging.ProgressSampler
	total     int
	completed int
	failed    int
}

// NewLogReporter logs progress every bucket percent (default 10).
func NewLogReporter(logger *slog.Logger, bucket float64) *LogReporter {
	base := logging.NewComponentLogger(logger, "progress")
	return &LogReporter{
		base:    base,
		logger:  base,
		sampler: logging.NewProgressSampler(bucket),
	}
}

// RunStarted implements workflow.Observer.
func (l *LogReporter) RunStarted(info workflow.RunInfo) {
	l.total = info.Total
	l.completed = 0
	l.failed = 0
	l.sampler.Reset()
	l.logger = l.base.With(logging.String(logging.FieldRunID, info.ID))
}

// TaskFinished implements workflow.Observer.
func (l *LogReporter) TaskFinished(_ int, result task.Result) {
	l.completed++
	if result.Failed() {
		l.failed++
	}
	if !l.sampler.ShouldLog(l.completed, l.total) {
		return
	}
	l.logger.Info("conversion progress",
		logging.Int("completed", l.completed),
		logging.Int("total", l.total),
		logging.Int("failed", l.failed),
		logging.String("last", result.Task.Label()),
		logging.String(logging.FieldEventType, "run_progress"),
	)
}
