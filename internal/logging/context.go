package logging

import (
	"context"
	"log/slog"

	"alacify/internal/services"
)

const (
	// FieldComponent names the emitting package.
	FieldComponent = "component"
	// FieldRunID carries the run correlation identifier.
	FieldRunID = "run_id"
	// FieldTask carries the 1-based task position within a run.
	FieldTask = "task"
	// FieldStage carries the pipeline stage (resolve, transcode, verify).
	FieldStage = "stage"
	// FieldEventType classifies a record for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldErrorKind carries the error taxonomy name.
	FieldErrorKind = "error_kind"
	// FieldImpact states the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if index, ok := services.TaskIndexFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldTask, index))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
