// Package metrics provides Prometheus instrumentation for conversion runs.
//
// A Recorder owns its own registry and observes a run like any other
// workflow.Observer. All metrics are prefixed with "alacify_". After a run
// the registry can be written to a node_exporter textfile so batch runs
// become visible to Prometheus without a long-lived process.
//
//   - alacify_tasks_total{outcome}: finished tasks by outcome
//   - alacify_task_failures_total{kind}: failed tasks by error kind
//   - alacify_task_duration_seconds{outcome}: per-task wall time
//   - alacify_tasks_in_flight: tasks currently running
//   - alacify_runs_total: completed runs
//   - alacify_last_run_timestamp_seconds, alacify_last_run_duration_seconds,
//     alacify_last_run_failed_tasks: the most recent run
package metrics
