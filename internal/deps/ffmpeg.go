package deps

import (
	"context"
	"fmt"

	"alacify/internal/media/ffmpeg"
	"alacify/internal/services"
)

// CheckFFmpeg resolves binary and runs its version probe.
func CheckFFmpeg(ctx context.Context, runner ffmpeg.Runner, binary string) Status {
	if binary == "" {
		binary = ffmpeg.DefaultBinary
	}
	status := CheckBinaries([]Requirement{{
		Name:        "FFmpeg",
		Command:     binary,
		Description: "Transcodes and decodes audio",
	}})[0]
	if !status.Available {
		return status
	}
	if runner == nil {
		runner = ffmpeg.NewExecRunner()
	}
	version, err := ffmpeg.Version(ctx, runner, status.Command)
	if err != nil {
		status.Available = false
		status.Detail = fmt.Sprintf("version probe failed: %v", err)
		return status
	}
	status.Version = version
	return status
}

// RequireFFmpeg returns ErrToolUnavailable unless the version probe succeeds.
func RequireFFmpeg(ctx context.Context, runner ffmpeg.Runner, binary string) (Status, error) {
	status := CheckFFmpeg(ctx, runner, binary)
	if !status.Available {
		return status, services.Wrap(services.ErrToolUnavailable, "deps", "ffmpeg", status.Detail+"; install ffmpeg or set tools.ffmpeg", nil)
	}
	return status, nil
}
