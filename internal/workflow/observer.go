package workflow

import (
	"alacify/internal/overwrite"
	"alacify/internal/task"
)

// RunInfo describes a run as it starts.
type RunInfo struct {
	ID          string
	Total       int
	Parallelism int
	Policy      overwrite.Policy
	Verify      bool
	Simulate    bool
}

// Observer receives run progress. Calls for one run are made from a single
// goroutine, in order.
type Observer interface {
	RunStarted(info RunInfo)
	TaskStarted(index int, t task.Task)
	TaskFinished(index int, result task.Result)
	RunFinished(summary Summary)
}

// NopObserver implements Observer with no-ops; embed it to handle a subset
// of events.
type NopObserver struct{}

func (NopObserver) RunStarted(RunInfo)            {}
func (NopObserver) TaskStarted(int, task.Task)    {}
func (NopObserver) TaskFinished(int, task.Result) {}
func (NopObserver) RunFinished(Summary)           {}

type eventKind int

const (
	eventStarted eventKind = iota
	eventFinished
)

type event struct {
	kind   eventKind
	index  int
	task   task.Task
	result task.Result
}

// collect forwards events to observers and stores each finished result at
// its task index.
func collect(events <-chan event, observers []Observer, results []task.Result, done chan<- struct{}) {
	defer close(done)
	for ev := range events {
		switch ev.kind {
		case eventStarted:
			for _, o := range observers {
				o.TaskStarted(ev.index, ev.task)
			}
		case eventFinished:
			results[ev.index] = ev.result
			for _, o := range observers {
				o.TaskFinished(ev.index, ev.result)
			}
		}
	}
}
