package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tci/internal/config"
	"tci/internal/logging"
	"tci/internal/session"
	"tci/internal/state"
)

type commandContext struct {
	configFlag  *string
	datasetFlag *string
	jsonFlag    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, datasetFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		datasetFlag: datasetFlag,
		jsonFlag:    jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withSession opens the workspace, restores the active dataset (switching
// to --dataset when given) and hands the session to fn.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(context.Context, *session.Session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := state.Open(cfg)
	if err != nil {
		if errors.Is(err, state.ErrLocked) {
			return fmt.Errorf("open workspace: %w; another tci command is running against %s", err, cfg.StatePath())
		}
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := session.New(ctx, store, session.Options{Config: cfg, Logger: c.loggerValue()})
	if err != nil {
		return err
	}
	if c.datasetFlag != nil {
		if id := strings.TrimSpace(*c.datasetFlag); id != "" && id != sess.Dataset() {
			if _, err := sess.Dispatch(ctx, session.UseDatasetRequest{Dataset: id, Create: true}); err != nil {
				return err
			}
		}
	}
	return fn(ctx, sess)
}

func dispatch[T any](ctx context.Context, sess *session.Session, req session.Request) (T, error) {
	var zero T
	resp, err := sess.Dispatch(ctx, req)
	if err != nil {
		return zero, err
	}
	typed, ok := resp.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected response %T", resp)
	}
	return typed, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
