// Package preflight runs the checks behind "alacify check": tool
// availability and filesystem access for the input, output, log, and
// metrics locations.
package preflight
