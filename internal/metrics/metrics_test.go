package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"alacify/internal/services"
	"alacify/internal/task"
	"alacify/internal/workflow"
)

func TestRecorderCountsOutcomes(t *testing.T) {
	r := NewRecorder()
	r.RunStarted(workflow.RunInfo{Total: 3})

	tk := task.Task{Source: "/in/a.flac", Destination: "/in/a.m4a"}
	r.TaskStarted(0, tk)
	if got := testutil.ToFloat64(r.TasksInFlight); got != 1 {
		t.Fatalf("expected 1 task in flight, got %v", got)
	}
	r.TaskFinished(0, task.Result{Task: tk, Outcome: task.OutcomeSuccess, Duration: 2 * time.Second})

	r.TaskStarted(1, tk)
	mismatch := services.Wrap(services.ErrVerificationMismatch, "verify", "compare", "differs", nil)
	r.TaskFinished(1, task.Result{Task: tk, Outcome: task.OutcomeFailed, Err: mismatch, Duration: time.Second})

	canceled := services.Wrap(services.ErrCanceled, "workflow", "schedule", "", nil)
	r.TaskFinished(2, task.Result{Task: tk, Outcome: task.OutcomeFailed, Err: canceled})

	r.RunFinished(workflow.Summary{Total: 3, Succeeded: 1, Failed: []workflow.Failure{{}, {}}, Elapsed: 3 * time.Second})

	if got := testutil.ToFloat64(r.TasksTotal.WithLabelValues("success")); got != 1 {
		t.Fatalf("success count = %v", got)
	}
	if got := testutil.ToFloat64(r.TasksTotal.WithLabelValues("failed")); got != 2 {
		t.Fatalf("failed count = %v", got)
	}
	if got := testutil.ToFloat64(r.FailuresTotal.WithLabelValues("verification_mismatch")); got != 1 {
		t.Fatalf("mismatch failures = %v", got)
	}
	if got := testutil.ToFloat64(r.FailuresTotal.WithLabelValues("canceled")); got != 1 {
		t.Fatalf("canceled failures = %v", got)
	}
	if got := testutil.ToFloat64(r.TasksInFlight); got != 0 {
		t.Fatalf("expected no tasks in flight, got %v", got)
	}
	if got := testutil.ToFloat64(r.LastRunFailed); got != 2 {
		t.Fatalf("last run failed = %v", got)
	}
	if got := testutil.ToFloat64(r.LastRunDuration); got != 3 {
		t.Fatalf("last run duration = %v", got)
	}
	if got := testutil.ToFloat64(r.RunsTotal); got != 1 {
		t.Fatalf("runs total = %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RunFinished(workflow.Summary{Elapsed: time.Second})

	path := filepath.Join(t.TempDir(), "alacify.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"alacify_runs_total 1", "alacify_last_run_duration_seconds 1"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected %q in textfile:\n%s", want, data)
		}
	}
}
