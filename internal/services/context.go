package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	taskIndexKey contextKey = "task_index"
	stageKey     contextKey = "stage"
)

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTaskIndex annotates context with the 1-based task position in the run.
func WithTaskIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, taskIndexKey, index)
}

// TaskIndexFromContext extracts the task position if present.
func TaskIndexFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(taskIndexKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}

// WithStage annotates context with the pipeline stage name (resolve, transcode, verify).
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
