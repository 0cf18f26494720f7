package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"accent-check-go/internal/app"
	"accent-check-go/internal/config"
	"accent-check-go/internal/logger"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

// buildApp loads the classifier and pipeline. Logs go to stderr so stdout
// stays parseable.
func (c *commandContext) buildApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log := logger.NewWith(cfg.Environment, cfg.LogLevel)
	log.Logger.SetOutput(cmd.ErrOrStderr())
	return app.Build(cmd.Context(), cfg, log)
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

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
