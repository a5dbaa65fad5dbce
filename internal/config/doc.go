// Package config loads, normalizes, and validates alacify configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the ALACIFY_FFMPEG environment fallback. Command
// line flags override individual values after Load returns.
package config
