// Package api is the facade the command-line front ends drive. A Service
// discovers tasks, checks the external tool, and runs the worker pool with
// the per-run status tracker, metrics recorder, and run log attached.
//
// Both front ends (the streaming progress bar and the polling status view)
// consume the same Run call; they differ only in the observers they pass and
// in whether they read Status while the run is in flight.
package api
