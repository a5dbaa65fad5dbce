// Package main hosts the alacify CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds a
// logger from the [logging] section, and hands discovery and conversion to
// internal/api. The convert command hosts both front ends: a streaming
// progress bar (or plain log lines when stderr is not a terminal) and a
// polling view that reads the run status snapshot on a ticker.
//
// Keep this package lean: add behaviour to the internal packages first, then
// surface it through commands or flags here.
package main
