package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"alacify/internal/config"
	"alacify/internal/fileutil"
	"alacify/internal/task"
)

type discoveredTask struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Exists      bool   `json:"exists"`
	Error       string `json:"error,omitempty"`
}

func newDiscoverCommand(ctx *commandContext) *cobra.Command {
	var inputFlag string
	var outputFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "discover [input]",
		Short: "List the conversions a run would perform",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := resolveInput(inputFlag, args)
			if err != nil {
				return err
			}
			output := strings.TrimSpace(outputFlag)
			if output != "" {
				if output, err = config.ExpandPath(output); err != nil {
					return err
				}
			}
			svc, _, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			tasks, err := svc.Discover(input, output)
			if err != nil {
				return err
			}

			entries := describeTasks(tasks)
			if jsonOutput {
				return writeJSON(cmd, entries)
			}
			fmt.Fprintln(cmd.OutOrStdout(), discoverTable(input, entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Input file or directory")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output root (default: alongside each source)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print tasks as JSON")
	return cmd
}

func describeTasks(tasks []task.Task) []discoveredTask {
	entries := make([]discoveredTask, 0, len(tasks))
	for _, t := range tasks {
		entry := discoveredTask{Source: t.Source, Destination: t.Destination}
		if t.Err != nil {
			entry.Error = t.Err.Error()
		} else if exists, err := fileutil.Exists(t.Destination); err == nil {
			entry.Exists = exists
		}
		entries = append(entries, entry)
	}
	return entries
}

func discoverTable(input string, entries []discoveredTask) string {
	rows := make([][]string, 0, len(entries))
	existing := 0
	for _, e := range entries {
		state := "new"
		switch {
		case e.Error != "":
			state = "invalid"
		case e.Exists:
			state = "exists"
			existing++
		}
		rows = append(rows, []string{relativeTo(input, e.Source), e.Destination, state})
	}
	return tableSpec{
		headers: []string{"Source", "Destination", "State"},
		rows:    rows,
		footer:  []string{fmt.Sprintf("%d file(s)", len(entries)), "", fmt.Sprintf("%d existing", existing)},
	}.render()
}

// relativeTo shortens path against a directory input; file inputs and paths
// outside root are returned unchanged.
func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
