package preflight

import (
	"context"
	"path/filepath"

	"alacify/internal/config"
	"alacify/internal/media/ffmpeg"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Inputs names the locations a run would touch.
type Inputs struct {
	Input      string
	OutputRoot string
	Runner     ffmpeg.Runner
}

// RunAll executes every applicable check. Empty locations are skipped.
func RunAll(ctx context.Context, cfg *config.Config, in Inputs) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{CheckFFmpeg(ctx, in.Runner, cfg.FFmpegBinary())}

	if in.Input != "" {
		results = append(results, CheckReadable("Input", in.Input))
	}
	if in.OutputRoot != "" {
		results = append(results, CheckCreatableDirectory("Output directory", in.OutputRoot))
	}
	if cfg.Logging.Dir != "" {
		results = append(results, CheckCreatableDirectory("Log directory", cfg.Logging.Dir))
	}
	if cfg.Metrics.Textfile != "" {
		results = append(results, CheckCreatableDirectory("Metrics textfile directory", filepath.Dir(cfg.Metrics.Textfile)))
	}
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
