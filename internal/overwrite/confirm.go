package overwrite

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

var (
	// Decline answers no without blocking. Used for headless and simulated runs.
	Decline Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
	// Accept answers yes without blocking.
	Accept Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
)

var affirmative = map[string]struct{}{
	"y":   {},
	"yes": {},
	"o":   {},
	"oui": {},
}

// IsAffirmative reports whether answer is one of the accepted yes spellings,
// compared after Unicode case folding.
func IsAffirmative(answer string) bool {
	folded := cases.Fold().String(strings.TrimSpace(answer))
	_, ok := affirmative[folded]
	return ok
}

// TerminalConfirmer prompts on out and reads one line from in per question.
// Questions from concurrent workers are asked one at a time.
type TerminalConfirmer struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
	// pending holds a line read still in flight after a canceled prompt, so a
	// later question picks up its answer instead of racing a second reader.
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewTerminalConfirmer builds a confirmer over the given streams.
func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm writes "prompt [y/N] " and waits for an answer or for ctx to be
// done. End of input with no answer returns io.EOF.
func (c *TerminalConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintf(c.out, "%s [y/N] ", prompt); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}
	if c.pending == nil {
		ch := make(chan lineResult, 1)
		c.pending = ch
		go func() {
			line, err := c.in.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-c.pending:
		c.pending = nil
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if res.err != nil && !(errors.Is(res.err, io.EOF) && res.line != "") {
			return false, res.err
		}
		return IsAffirmative(res.line), nil
	}
}
