package overwrite

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"alacify/internal/services"
	"alacify/internal/task"
)

func TestParsePolicy(t *testing.T) {
	for _, input := range []string{"skip", " Prompt ", "REPLACE"} {
		if _, err := ParsePolicy(input); err != nil {
			t.Fatalf("ParsePolicy(%q): %v", input, err)
		}
	}
	if _, err := ParsePolicy("always"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestIsAffirmative(t *testing.T) {
	yes := []string{"y", "Y", "yes", "YES", "o", "O", "oui", "Oui", " oui\n"}
	no := []string{"", "n", "no", "non", "yep", "ouais"}
	for _, answer := range yes {
		if !IsAffirmative(answer) {
			t.Errorf("expected %q to be affirmative", answer)
		}
	}
	for _, answer := range no {
		if IsAffirmative(answer) {
			t.Errorf("expected %q to be negative", answer)
		}
	}
}

func TestTerminalConfirmerReadsAnswers(t *testing.T) {
	var out bytes.Buffer
	c := NewTerminalConfirmer(strings.NewReader("oui\nn\ny"), &out)
	ctx := context.Background()

	want := []bool{true, false, true}
	for i, expected := range want {
		got, err := c.Confirm(ctx, "overwrite?")
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if got != expected {
			t.Fatalf("answer %d: got %v, want %v", i, got, expected)
		}
	}
	if _, err := c.Confirm(ctx, "overwrite?"); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF once input is exhausted, got %v", err)
	}
	if strings.Count(out.String(), "overwrite? [y/N] ") != 4 {
		t.Fatalf("unexpected prompt output %q", out.String())
	}
}

func TestTerminalConfirmerSerializesPrompts(t *testing.T) {
	var out bytes.Buffer
	c := NewTerminalConfirmer(strings.NewReader(strings.Repeat("y\n", 8)), &out)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := c.Confirm(context.Background(), "q"); err != nil || !ok {
				t.Errorf("Confirm = %v, %v", ok, err)
			}
		}()
	}
	wg.Wait()
	if out.String() != strings.Repeat("q [y/N] ", 8) {
		t.Fatalf("prompts interleaved: %q", out.String())
	}
}

func TestTerminalConfirmerHonorsCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	var out bytes.Buffer
	c := NewTerminalConfirmer(pr, &out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Confirm(ctx, "overwrite?")
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Confirm still blocked after cancel")
	}

	// The abandoned read still delivers its line to the next question.
	answered := make(chan bool, 1)
	go func() {
		ok, err := c.Confirm(context.Background(), "again?")
		if err != nil {
			t.Errorf("Confirm after cancel: %v", err)
		}
		answered <- ok
	}()
	if _, err := io.WriteString(pw, "yes\n"); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	select {
	case ok := <-answered:
		if !ok {
			t.Fatal("expected affirmative answer after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second Confirm never returned")
	}
}

func existingTask(t *testing.T) task.Task {
	t.Helper()
	dir := t.TempDir()
	dst := filepath.Join(dir, "song.m4a")
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	return task.Task{Source: filepath.Join(dir, "song.flac"), Destination: dst}
}

type countingConfirmer struct {
	answer bool
	err    error
	calls  int
}

func (c *countingConfirmer) Confirm(context.Context, string) (bool, error) {
	c.calls++
	return c.answer, c.err
}

func TestResolverMissingDestinationProceeds(t *testing.T) {
	confirmer := &countingConfirmer{}
	r := NewResolver(PolicyPrompt, confirmer, false, nil)
	tk := task.Task{Source: "/in/a.flac", Destination: filepath.Join(t.TempDir(), "a.m4a")}

	d, err := r.Resolve(context.Background(), tk)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !d.Proceed || d.Exists {
		t.Fatalf("expected proceed without existing file, got %+v", d)
	}
	if confirmer.calls != 0 {
		t.Fatal("confirmer must not be consulted when destination is missing")
	}
}

func TestResolverPolicies(t *testing.T) {
	tests := []struct {
		name      string
		policy    Policy
		simulate  bool
		confirmer *countingConfirmer
		proceed   bool
		calls     int
		reason    string
	}{
		{name: "skip", policy: PolicySkip, confirmer: &countingConfirmer{answer: true}, reason: "destination exists"},
		{name: "replace", policy: PolicyReplace, confirmer: &countingConfirmer{}, proceed: true},
		{name: "prompt yes", policy: PolicyPrompt, confirmer: &countingConfirmer{answer: true}, proceed: true, calls: 1},
		{name: "prompt no", policy: PolicyPrompt, confirmer: &countingConfirmer{answer: false}, calls: 1, reason: "declined overwrite"},
		{name: "prompt simulated", policy: PolicyPrompt, simulate: true, confirmer: &countingConfirmer{answer: true}, reason: "destination exists"},
		{name: "prompt error", policy: PolicyPrompt, confirmer: &countingConfirmer{err: io.EOF}, calls: 1, reason: "overwrite prompt failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.policy, tt.confirmer, tt.simulate, nil)
			d, err := r.Resolve(context.Background(), existingTask(t))
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if d.Proceed != tt.proceed || !d.Exists {
				t.Fatalf("unexpected decision %+v", d)
			}
			if d.Reason != tt.reason {
				t.Fatalf("reason = %q, want %q", d.Reason, tt.reason)
			}
			if tt.confirmer.calls != tt.calls {
				t.Fatalf("confirmer calls = %d, want %d", tt.confirmer.calls, tt.calls)
			}
		})
	}
}

func TestResolverPromptWithoutConfirmerSkips(t *testing.T) {
	r := NewResolver(PolicyPrompt, nil, false, nil)
	d, err := r.Resolve(context.Background(), existingTask(t))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Proceed {
		t.Fatal("expected default confirmer to decline")
	}
}

func TestResolverCanceledPrompt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewResolver(PolicyPrompt, NewTerminalConfirmer(strings.NewReader("y\n"), io.Discard), false, nil)
	_, err := r.Resolve(ctx, existingTask(t))
	if !errors.Is(err, services.ErrCanceled) {
		t.Fatalf("expected canceled error, got %v", err)
	}
}
