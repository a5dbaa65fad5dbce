package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

const defaultStderrLines = 20

// Runner executes external commands on behalf of the pipeline.
type Runner interface {
	// Run executes binary and waits for it to exit.
	Run(ctx context.Context, binary string, args ...string) error
	// Stream executes binary and hands its stdout to consume while the process
	// is still running. The process is waited on after consume returns.
	Stream(ctx context.Context, consume func(io.Reader) error, binary string, args ...string) error
}

// ExecRunner runs commands with os/exec. Failures carry the last StderrLines
// lines of the command's stderr.
type ExecRunner struct {
	StderrLines int
}

// NewExecRunner returns an ExecRunner with the default stderr tail length.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{StderrLines: defaultStderrLines}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, binary string, args ...string) error {
	stderr := newTailBuffer(r.lines())
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return commandError(err, stderr)
	}
	return nil
}

// Stream implements Runner.
func (r *ExecRunner) Stream(ctx context.Context, consume func(io.Reader) error, binary string, args ...string) error {
	if consume == nil {
		return errors.New("stream consumer is required")
	}
	stderr := newTailBuffer(r.lines())
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("open stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return commandError(err, stderr)
	}

	consumeErr := consume(stdout)
	// Drain whatever the consumer left so the child never blocks on a full pipe.
	_, _ = io.Copy(io.Discard, stdout)
	waitErr := cmd.Wait()
	if waitErr != nil {
		return commandError(waitErr, stderr)
	}
	if consumeErr != nil {
		return fmt.Errorf("consume output: %w", consumeErr)
	}
	return nil
}

func (r *ExecRunner) lines() int {
	if r == nil || r.StderrLines <= 0 {
		return defaultStderrLines
	}
	return r.StderrLines
}

func commandError(err error, stderr *tailBuffer) error {
	tail := stderr.String()
	if tail == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, tail)
}

// Version runs the availability probe and returns the first line of output.
func Version(ctx context.Context, runner Runner, binary string) (string, error) {
	if runner == nil {
		runner = NewExecRunner()
	}
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	var out bytes.Buffer
	err := runner.Stream(ctx, func(r io.Reader) error {
		_, err := io.Copy(&out, io.LimitReader(r, 4096))
		return err
	}, binary, VersionArgs()...)
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(out.String(), "\n")
	return strings.TrimSpace(line), nil
}

// tailBuffer keeps the last n lines written to it.
type tailBuffer struct {
	mu    sync.Mutex
	max   int
	lines []string
	part  string
}

func newTailBuffer(n int) *tailBuffer {
	return &tailBuffer{max: n}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data := t.part + string(p)
	parts := strings.Split(data, "\n")
	t.part = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		t.lines = append(t.lines, line)
		if len(t.lines) > t.max {
			t.lines = t.lines[len(t.lines)-t.max:]
		}
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	lines := t.lines
	if rest := strings.TrimSpace(t.part); rest != "" {
		lines = append(append([]string(nil), lines...), rest)
		if len(lines) > t.max {
			lines = lines[len(lines)-t.max:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
