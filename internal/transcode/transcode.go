// Package transcode runs the external media tool for one conversion task.
package transcode

import (
	"context"
	"log/slog"
	"time"

	"alacify/internal/fileutil"
	"alacify/internal/logging"
	"alacify/internal/media/ffmpeg"
	"alacify/internal/media/formats"
	"alacify/internal/services"
	"alacify/internal/task"
)

// Executor converts one source file into the target format.
type Executor struct {
	Binary string
	Target formats.Format
	Runner ffmpeg.Runner
	// RemovePartial deletes the destination when the tool fails.
	RemovePartial bool
	Logger        *slog.Logger
}

// New constructs an Executor. A nil runner uses os/exec.
func New(binary string, target formats.Format, runner ffmpeg.Runner, removePartial bool, logger *slog.Logger) *Executor {
	if binary == "" {
		binary = ffmpeg.DefaultBinary
	}
	if runner == nil {
		runner = ffmpeg.NewExecRunner()
	}
	return &Executor{
		Binary:        binary,
		Target:        target,
		Runner:        runner,
		RemovePartial: removePartial,
		Logger:        logging.NewComponentLogger(logger, "transcode"),
	}
}

// Convert creates the destination directory and invokes the tool once.
func (e *Executor) Convert(ctx context.Context, t task.Task) error {
	logger := logging.WithContext(ctx, e.Logger)
	if err := fileutil.EnsureParentDir(t.Destination); err != nil {
		return services.Wrap(services.ErrTranscodeFailure, "transcode", "prepare destination", t.Destination, err)
	}

	started := time.Now()
	args := ffmpeg.TranscodeArgs(t.Source, t.Destination, e.Target)
	logger.Debug("ffmpeg transcode", logging.String("binary", e.Binary), logging.Any("args", args))

	if err := e.Runner.Run(ctx, e.Binary, args...); err != nil {
		e.cleanup(logger, t.Destination)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return services.Wrap(services.ErrCanceled, "transcode", "ffmpeg", t.Source, ctxErr)
		}
		return services.Wrap(services.ErrTranscodeFailure, "transcode", "ffmpeg", t.Source, err)
	}

	logger.Debug("transcode finished",
		logging.String("destination", t.Destination),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func (e *Executor) cleanup(logger *slog.Logger, destination string) {
	if !e.RemovePartial {
		return
	}
	if err := fileutil.RemoveIfExists(destination); err != nil {
		logging.WarnWithContext(logger, "partial output not removed", "partial_cleanup_failed",
			logging.String("destination", destination),
			logging.Error(err),
			logging.String(logging.FieldImpact, "an incomplete file remains at the destination"),
		)
	}
}
