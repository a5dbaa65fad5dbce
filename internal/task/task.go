// Package task defines the unit of work shared by discovery, the conversion
// pipeline, and status reporting.
package task

import (
	"path/filepath"
	"time"

	"alacify/internal/media/flacmeta"
)

// Task pairs one source file with its destination. Err is set when the
// source could not be mapped to a destination; such tasks are reported as
// failures without running the pipeline.
type Task struct {
	Source      string
	Destination string
	Err         error
}

// Label renders "source-name → destination-name" for progress displays.
func (t Task) Label() string {
	if t.Destination == "" {
		return filepath.Base(t.Source)
	}
	return filepath.Base(t.Source) + " → " + filepath.Base(t.Destination)
}

// Outcome is the terminal state of one task.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Result records how a task ended.
type Result struct {
	Task      Task
	Outcome   Outcome
	Reason    string
	Err       error
	Simulated bool
	Verified  bool
	Source    flacmeta.Info
	Duration  time.Duration
}

// Failed reports whether the result counts against the run.
func (r Result) Failed() bool {
	return r.Outcome == OutcomeFailed
}

// ErrorLine formats a failure as "path: reason" for status lists.
func (r Result) ErrorLine() string {
	return r.Task.Source + ": " + r.Reason
}
