package verify

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	"alacify/internal/services"
	"alacify/internal/task"
)

// streamRunner serves canned decode output keyed by the -i argument.
type streamRunner struct {
	outputs map[string][]byte
	fail    map[string]error
	calls   []string
}

func (s *streamRunner) Run(context.Context, string, ...string) error {
	return errors.New("not used")
}

func (s *streamRunner) Stream(_ context.Context, consume func(io.Reader) error, _ string, args ...string) error {
	var input string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-i" {
			input = args[i+1]
		}
	}
	s.calls = append(s.calls, input)
	if err := s.fail[input]; err != nil {
		return err
	}
	return consume(bytes.NewReader(s.outputs[input]))
}

func digestOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestVerifyMatch(t *testing.T) {
	pcm := bytes.Repeat([]byte{1, 2, 3, 4}, 3*ChunkSize)
	runner := &streamRunner{outputs: map[string][]byte{"a.flac": pcm, "a.m4a": pcm}}
	v := New("ffmpeg", runner, nil)

	report, err := v.Verify(context.Background(), task.Task{Source: "a.flac", Destination: "a.m4a"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.Match || report.SourceDigest != digestOf(pcm) || report.DestinationDigest != report.SourceDigest {
		t.Fatalf("unexpected report %+v", report)
	}
	if strings.Join(runner.calls, ",") != "a.flac,a.m4a" {
		t.Fatalf("expected source then destination decode, got %v", runner.calls)
	}
}

func TestVerifyMismatch(t *testing.T) {
	runner := &streamRunner{outputs: map[string][]byte{"a.flac": []byte("pcm-original"), "a.m4a": []byte("pcm-truncat")}}
	report, err := New("ffmpeg", runner, nil).Verify(context.Background(), task.Task{Source: "a.flac", Destination: "a.m4a"})
	if !errors.Is(err, services.ErrVerificationMismatch) {
		t.Fatalf("expected ErrVerificationMismatch, got %v", err)
	}
	if report.Match || report.SourceDigest == report.DestinationDigest {
		t.Fatalf("expected differing digests, got %+v", report)
	}
}

func TestVerifyDecodeFailure(t *testing.T) {
	runner := &streamRunner{
		outputs: map[string][]byte{"a.flac": []byte("pcm")},
		fail:    map[string]error{"a.m4a": errors.New("exit status 1: moov atom not found")},
	}
	_, err := New("ffmpeg", runner, nil).Verify(context.Background(), task.Task{Source: "a.flac", Destination: "a.m4a"})
	if !errors.Is(err, services.ErrDecodeFailure) {
		t.Fatalf("expected ErrDecodeFailure, got %v", err)
	}
	if !strings.Contains(err.Error(), "a.m4a") {
		t.Fatalf("expected failing path in error, got %v", err)
	}
}

func TestDigestEmptyStream(t *testing.T) {
	runner := &streamRunner{outputs: map[string][]byte{}}
	got, err := New("", runner, nil).Digest(context.Background(), "silent.flac")
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if got != digestOf(nil) {
		t.Fatalf("unexpected digest for empty stream %s", got)
	}
}
