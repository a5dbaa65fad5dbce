package workflow

import (
	"errors"
	"fmt"
	"time"

	"alacify/internal/task"
)

// ErrRunFailed is returned by Run when at least one task failed.
var ErrRunFailed = errors.New("conversion run failed")

// Failure attributes one failed task to its source path.
type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Summary aggregates the outcome of a run. Succeeded, Skipped and
// len(Failed) always add up to Total.
type Summary struct {
	RunID     string        `json:"run_id"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Skipped   int           `json:"skipped"`
	Failed    []Failure     `json:"failed"`
	Simulated bool          `json:"simulated"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	Results   []task.Result `json:"-"`
}

// OK reports whether no task failed.
func (s Summary) OK() bool {
	return len(s.Failed) == 0
}

// Line renders the counts as one line, such as "3 converted, 1 skipped, 0 failed".
func (s Summary) Line() string {
	verb := "converted"
	if s.Simulated {
		verb = "would convert"
	}
	return fmt.Sprintf("%d %s, %d skipped, %d failed", s.Succeeded, verb, s.Skipped, len(s.Failed))
}

func summarize(runID string, results []task.Result, simulated bool, elapsed time.Duration) Summary {
	summary := Summary{
		RunID:     runID,
		Total:     len(results),
		Failed:    []Failure{},
		Simulated: simulated,
		Elapsed:   elapsed,
		Results:   results,
	}
	for _, r := range results {
		switch r.Outcome {
		case task.OutcomeSuccess:
			summary.Succeeded++
		case task.OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Failed = append(summary.Failed, Failure{Path: r.Task.Source, Reason: r.Reason})
		}
	}
	return summary
}
