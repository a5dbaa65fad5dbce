package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrToolUnavailable      = errors.New("tool unavailable")
	ErrNoInputFiles         = errors.New("no input files")
	ErrTranscodeFailure     = errors.New("transcode failure")
	ErrDecodeFailure        = errors.New("decode failure")
	ErrVerificationMismatch = errors.New("verification mismatch")
	ErrInvalidPath          = errors.New("invalid path")
	ErrConfiguration        = errors.New("configuration error")
	ErrCanceled             = errors.New("canceled")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTranscodeFailure
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error onto the short taxonomy name used in reports and metric
// labels. Unclassified errors report "error".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrToolUnavailable):
		return "tool_unavailable"
	case errors.Is(err, ErrNoInputFiles):
		return "no_input_files"
	case errors.Is(err, ErrVerificationMismatch):
		return "verification_mismatch"
	case errors.Is(err, ErrDecodeFailure):
		return "decode_failure"
	case errors.Is(err, ErrTranscodeFailure):
		return "transcode_failure"
	case errors.Is(err, ErrInvalidPath):
		return "invalid_path"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrCanceled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// IsFatal reports whether err is a run-level precondition failure that must
// abort a run before any task is attempted.
func IsFatal(err error) bool {
	return errors.Is(err, ErrToolUnavailable) || errors.Is(err, ErrNoInputFiles) || errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
