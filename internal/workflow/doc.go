// Package workflow runs conversion tasks across a bounded worker pool.
//
// Each task is resolved against the overwrite policy, converted, and
// optionally verified. A failing task never stops its siblings: every task
// yields exactly one task.Result and the run reports a Summary. Workers
// publish started/finished events on a channel drained by a single collector
// goroutine, which forwards them to the registered Observers in order, so
// observers never run concurrently with each other.
package workflow
