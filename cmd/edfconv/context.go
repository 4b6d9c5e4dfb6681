package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"edfconv/internal/config"
	"edfconv/internal/logging"
	"edfconv/internal/services"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	logger *slog.Logger
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
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
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) levelOverride() string {
	if c.logLevelFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.logLevelFlag)
}

// ensureLogger builds the command logger from the loaded config, writing to
// the command's stderr.
func (c *commandContext) ensureLogger(cmd *cobra.Command) (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, c.levelOverride(), cmd.ErrOrStderr())
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "config", "logging", "", err)
	}
	c.logger = logger
	return logger, nil
}

// loggerFor returns the command logger, or a console logger on w when the
// config could not be loaded.
func (c *commandContext) loggerFor(w io.Writer) *slog.Logger {
	if c != nil && c.logger != nil {
		return c.logger
	}
	var level string
	if c != nil {
		level = c.levelOverride()
	}
	logger, err := logging.New(logging.Options{Level: level, Format: "console", Writer: w})
	if err != nil {
		logger, _ = logging.New(logging.Options{Format: "console", Writer: w})
	}
	return logger
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
