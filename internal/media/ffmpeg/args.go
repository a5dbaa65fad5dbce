package ffmpeg

import (
	"alacify/internal/media/formats"
)

// DefaultBinary is the executable resolved from PATH when none is configured.
const DefaultBinary = "ffmpeg"

// PCMFormat is the raw sample layout used for verification decodes. 32 bits
// holds 16- and 24-bit sources without loss.
const PCMFormat = "s32le"

// TranscodeArgs returns the argument vector that converts source into
// destination using the target format's encoder. The first audio stream is
// re-encoded, the first video stream (if any) is copied and flagged as an
// attached picture, and container metadata is carried over.
func TranscodeArgs(source, destination string, target formats.Format) []string {
	args := []string{
		"-hide_banner",
		"-v", "warning",
		"-y",
		"-i", source,
		"-map", "0:a:0",
	}
	if target.CoverArt {
		args = append(args, "-map", "0:v:0?")
	}
	args = append(args, "-c:a", target.Codec)
	if target.CoverArt {
		args = append(args,
			"-c:v", "copy",
			"-disposition:v", "attached_pic",
		)
	}
	args = append(args,
		"-map_metadata", "0",
		destination,
	)
	return args
}

// DecodeArgs returns the argument vector that decodes the first audio stream
// of source to raw PCM on stdout.
func DecodeArgs(source string) []string {
	return []string{
		"-hide_banner",
		"-v", "error",
		"-i", source,
		"-map", "0:a:0",
		"-f", PCMFormat,
		"-acodec", "pcm_" + PCMFormat,
		"pipe:1",
	}
}

// VersionArgs returns the argument vector for the availability probe.
func VersionArgs() []string {
	return []string{"-hide_banner", "-version"}
}
