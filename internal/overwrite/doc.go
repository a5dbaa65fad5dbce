// Package overwrite decides what happens when a conversion's destination
// already exists.
//
// A Policy (skip, prompt, replace) is fixed for the whole run. The Resolver
// applies it per task; prompting goes through a Confirmer so headless and
// simulated runs can substitute a non-blocking implementation.
package overwrite
