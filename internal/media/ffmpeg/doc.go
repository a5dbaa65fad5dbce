// Package ffmpeg builds ffmpeg argument vectors for lossless transcodes and
// raw PCM decodes, and runs them through a Runner.
//
// The package treats ffmpeg as an opaque file-in/file-out or
// file-in/stream-out transformer. ExecRunner is the production Runner; tests
// substitute stub binaries on PATH or a fake Runner.
//
// Primary entry points:
//   - TranscodeArgs: first audio stream re-encoded, cover art copied, metadata propagated
//   - DecodeArgs: first audio stream decoded to signed 32-bit little-endian PCM on stdout
//   - Version: lightweight availability probe
package ffmpeg
