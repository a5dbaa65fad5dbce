package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"alacify/internal/config"
	"alacify/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var inputFlag string
	var outputFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check [input]",
		Short: "Check ffmpeg and filesystem access before converting",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			in := preflight.Inputs{}
			if strings.TrimSpace(inputFlag) != "" || len(args) > 0 {
				if in.Input, err = resolveInput(inputFlag, args); err != nil {
					return err
				}
			}
			if output := strings.TrimSpace(outputFlag); output != "" {
				if in.OutputRoot, err = config.ExpandPath(output); err != nil {
					return err
				}
			}

			results := preflight.RunAll(cmd.Context(), cfg, in)
			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("alacify check", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Config", statusInfo, configDescription(ctx), colorize))
				for _, line := range preflightLines(results, colorize) {
					fmt.Fprintln(out, line)
				}
			}
			if !preflight.Passed(results) {
				return fmt.Errorf("preflight checks failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Input file or directory to check")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output root to check")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}

func configDescription(ctx *commandContext) string {
	if !ctx.configSeen {
		return "defaults (no config file)"
	}
	return ctx.configPath
}
