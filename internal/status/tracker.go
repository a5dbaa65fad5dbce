package status

import (
	"sync"

	"alacify/internal/task"
	"alacify/internal/workflow"
)

// Snapshot is a point-in-time copy of a run's progress.
type Snapshot struct {
	Total     int      `json:"total"`
	Completed int      `json:"completed"`
	Current   string   `json:"current"`
	Errors    []string `json:"errors"`
	Done      bool     `json:"done"`
}

// Tracker is the shared progress record for one run. Every mutation and
// every snapshot takes the same lock.
type Tracker struct {
	mu       sync.Mutex
	state    Snapshot
	inFlight map[int]string
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{inFlight: make(map[int]string)}
}

// Reset discards previous state and prepares for a run of total tasks.
func (t *Tracker) Reset(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Snapshot{Total: total}
	t.inFlight = make(map[int]string)
}

// Begin marks a task as in progress and makes it the current label.
func (t *Tracker) Begin(index int, label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight[index] = label
	t.state.Current = label
}

// Complete records one finished task. The completed count and the error
// list change in the same critical section.
func (t *Tracker) Complete(index int, result task.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Completed < t.state.Total {
		t.state.Completed++
	}
	if result.Failed() {
		t.state.Errors = append(t.state.Errors, result.ErrorLine())
	}
	delete(t.inFlight, index)
	if t.state.Current == result.Task.Label() {
		t.state.Current = ""
		for _, label := range t.inFlight {
			t.state.Current = label
			break
		}
	}
}

// Fail records a run-level failure and marks the run done.
func (t *Tracker) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Errors = append(t.state.Errors, "Conversion failed: "+err.Error())
	t.state.Current = ""
	t.state.Done = true
}

// Finish marks the run done.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Current = ""
	t.state.Done = true
}

// Snapshot returns a copy that is safe to read without the lock.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.state
	snap.Errors = make([]string, len(t.state.Errors))
	copy(snap.Errors, t.state.Errors)
	return snap
}

// RunStarted implements workflow.Observer.
func (t *Tracker) RunStarted(info workflow.RunInfo) { t.Reset(info.Total) }

// TaskStarted implements workflow.Observer.
func (t *Tracker) TaskStarted(index int, tk task.Task) { t.Begin(index, tk.Label()) }

// TaskFinished implements workflow.Observer.
func (t *Tracker) TaskFinished(index int, result task.Result) { t.Complete(index, result) }

// RunFinished implements workflow.Observer.
func (t *Tracker) RunFinished(workflow.Summary) { t.Finish() }
