// Package status turns workflow events into progress views.
//
// Tracker is the shared snapshot polled by interactive front ends. Progress
// renders a terminal progress bar for headless runs, and LogReporter emits
// sampled progress log lines. All three are workflow.Observers and can be
// attached to the same run.
package status
