// cmd/tools/assessment-admin/root.go
package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"finops-assessment/internal/app"
	"finops-assessment/internal/common/config"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/observability"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "assessment-admin",
	Short:         "Maintenance commands for the FinOps assessment service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func newLogger() logger.Logger {
	return logger.NewStructured(logLevel, "console")
}

// openRuntime connects without waiting for slow backends; an admin run
// should fail fast.
func openRuntime(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Runtime, error) {
	otelMetrics, _ := observability.NewMetrics(cfg.App.Name + "-admin")
	return app.NewRuntime(ctx, cfg, log, otelMetrics, app.Options{
		Attempts:     2,
		InitialDelay: time.Second,
	})
}
