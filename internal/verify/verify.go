// Package verify checks that a conversion preserved the audio exactly.
//
// Both files are decoded by the external tool to the same raw PCM layout and
// each stream is hashed with SHA-256 while it is produced. Equal digests mean
// the audio is bit-identical; the files' containers and metadata are not
// compared.
package verify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"

	"alacify/internal/logging"
	"alacify/internal/media/ffmpeg"
	"alacify/internal/services"
	"alacify/internal/task"
)

// ChunkSize is the read size used while hashing decoded audio.
const ChunkSize = 64 * 1024

// Report carries the digests of both decoded streams.
type Report struct {
	Match             bool
	SourceDigest      string
	DestinationDigest string
}

// Verifier compares decoded audio digests.
type Verifier struct {
	Binary string
	Runner ffmpeg.Runner
	Logger *slog.Logger
}

// New constructs a Verifier. A nil runner uses os/exec.
func New(binary string, runner ffmpeg.Runner, logger *slog.Logger) *Verifier {
	if binary == "" {
		binary = ffmpeg.DefaultBinary
	}
	if runner == nil {
		runner = ffmpeg.NewExecRunner()
	}
	return &Verifier{
		Binary: binary,
		Runner: runner,
		Logger: logging.NewComponentLogger(logger, "verify"),
	}
}

// Verify decodes source and destination and compares their digests. A
// mismatch returns the report together with ErrVerificationMismatch.
func (v *Verifier) Verify(ctx context.Context, t task.Task) (Report, error) {
	sourceDigest, err := v.Digest(ctx, t.Source)
	if err != nil {
		return Report{}, err
	}
	destinationDigest, err := v.Digest(ctx, t.Destination)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Match:             sourceDigest == destinationDigest,
		SourceDigest:      sourceDigest,
		DestinationDigest: destinationDigest,
	}
	logging.WithContext(ctx, v.Logger).Debug("audio digests compared",
		logging.String("source_sha256", sourceDigest),
		logging.String("destination_sha256", destinationDigest),
		logging.Bool("match", report.Match),
	)
	if !report.Match {
		return report, services.Wrap(services.ErrVerificationMismatch, "verify", "compare", "decoded audio differs from source", nil)
	}
	return report, nil
}

// Digest returns the hex SHA-256 of path's decoded audio.
func (v *Verifier) Digest(ctx context.Context, path string) (string, error) {
	hasher := sha256.New()
	consume := func(r io.Reader) error {
		_, err := io.CopyBuffer(hasher, r, make([]byte, ChunkSize))
		return err
	}
	if err := v.Runner.Stream(ctx, consume, v.Binary, ffmpeg.DecodeArgs(path)...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", services.Wrap(services.ErrCanceled, "verify", "decode", path, ctxErr)
		}
		return "", services.Wrap(services.ErrDecodeFailure, "verify", "decode", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
