// Package formats describes the lossless audio formats the converter can read
// and write.
//
// Each Format records the canonical file extension, the ffmpeg encoder used
// when it is a conversion target, and whether the container can carry an
// attached cover-art image. Source matching is driven by Extensions, which may
// list more than one spelling (for example .aif and .aiff).
package formats
