package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mediasort/internal/config"
	"mediasort/internal/history"
	"mediasort/internal/logging"
	"mediasort/internal/pipeline"
)

type rootFlags struct {
	config   string
	source   string
	target   string
	logLevel string
}

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if err := cfg.Apply(config.Overrides{
			SourceRoot: c.flags.source,
			TargetRoot: c.flags.target,
			LogLevel:   c.flags.logLevel,
		}); err != nil {
			c.configErr = fmt.Errorf("apply overrides: %w", err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// withRunner builds a pipeline runner, attaching the run ledger when history is
// enabled. A ledger that cannot be opened is logged and skipped.
func (c *commandContext) withRunner(ctx context.Context, fn func(*pipeline.Runner) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	var opts []pipeline.Option
	if cfg.History.Enabled {
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}
		store, err := history.Open(ctx, cfg.History.Path)
		if err != nil {
			logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check history.path or disable [history]"),
				logging.String(logging.FieldImpact, "this run will not be recorded"),
			)
		} else {
			defer store.Close()
			opts = append(opts, pipeline.WithHistory(store))
		}
	}
	return fn(pipeline.New(cfg, logger, opts...))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
