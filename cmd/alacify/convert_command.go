package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"alacify/internal/api"
	"alacify/internal/config"
	"alacify/internal/overwrite"
	"alacify/internal/services"
	"alacify/internal/status"
	"alacify/internal/task"
	"alacify/internal/workflow"
)

const (
	uiAuto     = "auto"
	uiProgress = "progress"
	uiPoll     = "poll"
	uiNone     = "none"
)

const pollInterval = 250 * time.Millisecond

type convertFlags struct {
	input     string
	output    string
	jobs      int
	verify    bool
	overwrite string
	dryRun    bool
	ui        string
	json      bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert a FLAC file or directory tree to ALAC",
		Long: "Convert every FLAC file under the input path to ALAC (.m4a).\n\n" +
			"Without --output each file is written next to its source. With --output the\n" +
			"input's subdirectory structure is recreated under the output root.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Input file or directory")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output root (default: alongside each source)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "Parallel conversions (default from config; 0 = number of CPUs)")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "Decode source and destination and compare the audio")
	cmd.Flags().StringVar(&flags.overwrite, "overwrite", "", "Existing destinations: skip, prompt or replace (default from config)")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Show what would be converted without writing anything")
	cmd.Flags().StringVar(&flags.ui, "ui", uiAuto, "Progress display: auto, progress, poll or none")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the run summary as JSON")
	return cmd
}

func runConvert(cmd *cobra.Command, ctx *commandContext, flags convertFlags, args []string) error {
	input, err := resolveInput(flags.input, args)
	if err != nil {
		return err
	}
	output := strings.TrimSpace(flags.output)
	if output != "" {
		if output, err = config.ExpandPath(output); err != nil {
			return err
		}
	}
	ui, err := resolveUI(flags.ui, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	svc, logger, err := ctx.service(cmd)
	if err != nil {
		return err
	}
	opts, err := svc.DefaultRunOptions()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("jobs") {
		if flags.jobs < 0 {
			return fmt.Errorf("--jobs must be zero or positive")
		}
		opts.Parallelism = flags.jobs
	}
	if cmd.Flags().Changed("verify") {
		opts.Verify = flags.verify
	}
	if cmd.Flags().Changed("overwrite") {
		if opts.Policy, err = overwrite.ParsePolicy(flags.overwrite); err != nil {
			return err
		}
	}
	opts.Simulate = flags.dryRun
	opts.LockRoot = lockRoot(input, output)
	opts.Confirmer = confirmerFor(cmd, opts, logger)

	if err := svc.CheckTool(cmd.Context()); err != nil {
		return abortError(err)
	}
	tasks, err := svc.Discover(input, output)
	if err != nil {
		return abortError(err)
	}

	switch ui {
	case uiProgress:
		opts.Observers = append(opts.Observers, status.NewProgress(cmd.ErrOrStderr()))
	case uiNone:
		opts.Observers = append(opts.Observers, status.NewLogReporter(logger, 0))
	}

	var summary workflow.Summary
	var runErr error
	if ui == uiPoll {
		summary, runErr = runPolling(cmd.Context(), cmd.ErrOrStderr(), svc, tasks, opts)
	} else {
		summary, runErr = svc.Run(cmd.Context(), tasks, opts)
	}
	if runErr != nil && !errors.Is(runErr, workflow.ErrRunFailed) {
		return abortError(runErr)
	}

	if flags.json {
		if err := writeJSON(cmd, summary); err != nil {
			return err
		}
		return runErr
	}
	printSummary(cmd.OutOrStdout(), cmd.ErrOrStderr(), summary, ui != uiProgress)
	return runErr
}

// abortError marks precondition failures so the operator can tell a run
// that never started from one that failed part way.
func abortError(err error) error {
	if services.IsFatal(err) {
		return fmt.Errorf("nothing converted: %w", err)
	}
	return err
}

// confirmerFor returns an interactive confirmer only when a prompt could be
// answered. Otherwise the resolver falls back to declining, which skips.
func confirmerFor(cmd *cobra.Command, opts api.RunOptions, logger *slog.Logger) overwrite.Confirmer {
	if opts.Policy != overwrite.PolicyPrompt || opts.Simulate {
		return nil
	}
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !isTerminal(in) {
		logger.Info("overwrite prompts unavailable without a terminal; existing destinations will be skipped")
		return nil
	}
	return overwrite.NewTerminalConfirmer(in, cmd.ErrOrStderr())
}

func resolveUI(value string, stderr io.Writer) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", uiAuto:
		if shouldColorize(stderr) {
			return uiProgress, nil
		}
		return uiNone, nil
	case uiProgress:
		return uiProgress, nil
	case uiPoll:
		return uiPoll, nil
	case uiNone:
		return uiNone, nil
	default:
		return "", fmt.Errorf("--ui must be one of auto, progress, poll, none (got %q)", value)
	}
}

// runPolling runs the conversion in the background and prints the status
// snapshot whenever it changes.
func runPolling(ctx context.Context, out io.Writer, svc *api.Service, tasks []task.Task, opts api.RunOptions) (workflow.Summary, error) {
	type outcome struct {
		summary workflow.Summary
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		summary, err := svc.Run(ctx, tasks, opts)
		done <- outcome{summary: summary, err: err}
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	last := ""
	emit := func() {
		line := renderSnapshot(svc.Status())
		if line != last {
			fmt.Fprintln(out, line)
			last = line
		}
	}
	for {
		select {
		case res := <-done:
			emit()
			return res.summary, res.err
		case <-ticker.C:
			emit()
		}
	}
}

// printSummary writes the summary line to out and the failure table to errOut.
func printSummary(out, errOut io.Writer, summary workflow.Summary, withLine bool) {
	if withLine {
		fmt.Fprintln(out, api.SummaryLine(summary))
	}
	if len(summary.Failed) == 0 {
		return
	}
	rows := make([][]string, 0, len(summary.Failed))
	for _, f := range summary.Failed {
		rows = append(rows, []string{f.Path, f.Reason})
	}
	fmt.Fprintln(errOut, tableSpec{
		headers: []string{"Source", "Reason"},
		rows:    rows,
	}.render())
}
