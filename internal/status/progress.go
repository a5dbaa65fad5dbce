package status

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"alacify/internal/task"
	"alacify/internal/workflow"
)

// Progress renders a single progress bar whose description follows the most
// recently started task.
type Progress struct {
	workflow.NopObserver
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewProgress writes the bar to out (normally stderr).
func NewProgress(out io.Writer) *Progress {
	return &Progress{out: out}
}

// RunStarted implements workflow.Observer.
func (p *Progress) RunStarted(info workflow.RunInfo) {
	description := "converting"
	if info.Simulate {
		description = "simulating"
	}
	p.bar = progressbar.NewOptions(info.Total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(80*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// TaskStarted implements workflow.Observer.
func (p *Progress) TaskStarted(_ int, t task.Task) {
	if p.bar != nil {
		p.bar.Describe(t.Label())
	}
}

// TaskFinished implements workflow.Observer.
func (p *Progress) TaskFinished(int, task.Result) {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// RunFinished implements workflow.Observer.
func (p *Progress) RunFinished(summary workflow.Summary) {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprintf(p.out, "%s in %s\n", summary.Line(), summary.Elapsed.Round(time.Millisecond))
}
