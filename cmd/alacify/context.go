package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"alacify/internal/api"
	"alacify/internal/config"
	"alacify/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verbose != nil && *c.verbose {
			cfg.Logging.Level = "debug"
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// logger builds the console logger for cmd. Output goes to stderr so stdout
// carries only command results.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg, cmd.ErrOrStderr())
}

func (c *commandContext) service(cmd *cobra.Command) (*api.Service, *slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, nil, err
	}
	svc, err := api.NewService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return svc, logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// resolveInput picks the input path from --input or the first positional
// argument.
func resolveInput(flag string, args []string) (string, error) {
	input := strings.TrimSpace(flag)
	if input == "" && len(args) > 0 {
		input = strings.TrimSpace(args[0])
	}
	if input == "" {
		return "", fmt.Errorf("an input file or directory is required (use --input or pass it as an argument)")
	}
	return config.ExpandPath(input)
}

// lockRoot returns the tree a run writes into: the output root when given,
// otherwise the input directory (or the input file's directory).
func lockRoot(input, output string) string {
	if output != "" {
		return output
	}
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		return filepath.Dir(input)
	}
	return input
}
