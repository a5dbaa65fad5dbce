package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"alacify/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTranscodeFailure, "transcode", "ffmpeg", "exit status 1", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTranscodeFailure) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcode", "ffmpeg", "exit status 1", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(services.ErrInvalidPath, "", "", "", nil)
	if err.Error() != "invalid path: service failure" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestKindClassifiesTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrToolUnavailable, "deps", "ffmpeg", "missing", nil), "tool_unavailable"},
		{services.Wrap(services.ErrNoInputFiles, "discovery", "", "", nil), "no_input_files"},
		{services.Wrap(services.ErrDecodeFailure, "verify", "decode", "", nil), "decode_failure"},
		{services.Wrap(services.ErrVerificationMismatch, "verify", "compare", "", nil), "verification_mismatch"},
		{services.Wrap(services.ErrInvalidPath, "discovery", "map", "", nil), "invalid_path"},
		{fmt.Errorf("wrapped: %w", context.Canceled), "canceled"},
		{errors.New("other"), "error"},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestIsFatal(t *testing.T) {
	if !services.IsFatal(services.Wrap(services.ErrToolUnavailable, "", "", "", nil)) {
		t.Fatal("expected tool unavailable to be fatal")
	}
	if services.IsFatal(services.Wrap(services.ErrTranscodeFailure, "", "", "", nil)) {
		t.Fatal("expected transcode failure to be per-task")
	}
}
