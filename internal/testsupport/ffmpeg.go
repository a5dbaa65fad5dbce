package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// StubOptions tunes the behaviour of the stub ffmpeg script.
type StubOptions struct {
	// LogPath receives one line per invocation with the full argument list.
	LogPath string
	// FailOn makes every invocation whose arguments contain the substring
	// exit non-zero.
	FailOn string
	// Version is printed by -version. Defaults to "ffmpeg version 6.1-stub".
	Version string
}

// WriteFFmpegStub writes an executable shell script that imitates the parts of
// ffmpeg the pipeline relies on: -version prints a banner, decodes to pipe:1
// cat the input, and any other invocation copies the -i input to the last
// argument. The path of the script is returned.
func WriteFFmpegStub(t testing.TB, dir string, opts StubOptions) string {
	t.Helper()

	if opts.Version == "" {
		opts.Version = "ffmpeg version 6.1-stub"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir stub dir: %v", err)
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	if opts.LogPath != "" {
		fmt.Fprintf(&b, "echo \"$*\" >> %s\n", shellQuote(opts.LogPath))
	}
	b.WriteString("for a in \"$@\"; do\n")
	b.WriteString("  if [ \"$a\" = \"-version\" ]; then\n")
	fmt.Fprintf(&b, "    echo %s\n", shellQuote(opts.Version))
	b.WriteString("    exit 0\n  fi\ndone\n")
	if opts.FailOn != "" {
		fmt.Fprintf(&b, "case \"$*\" in\n  *%s*) echo 'stub: forced failure' >&2; exit 1 ;;\nesac\n", shellQuote(opts.FailOn))
	}
	b.WriteString(`in=""
prev=""
last=""
for a in "$@"; do
  if [ "$prev" = "-i" ]; then in="$a"; fi
  prev="$a"
  last="$a"
done
if [ -z "$in" ]; then echo 'stub: missing -i' >&2; exit 1; fi
if [ "$last" = "pipe:1" ]; then exec cat "$in"; fi
cp "$in" "$last"
`)

	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	return path
}

// ReadInvocations returns the logged argument lines of a stub run.
func ReadInvocations(t testing.TB, logPath string) []string {
	t.Helper()

	data, err := os.ReadFile(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read stub log: %v", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
