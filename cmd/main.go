package main

import (
	"fmt"
	"os"

	"healthtrack/config"
	"healthtrack/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "healthtrack",
	Short: "Personal health tracker API",
	Long: `healthtrack serves the health tracker HTTP API and ships a few
maintenance commands that run against the same database.

Configuration comes from the environment (and .env when present).`,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, recomputeCmd)
	rootCmd.RunE = serveCmd.RunE
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads config and installs the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "healthtrack", logger.WithFile(logger.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	}))
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	logger.Set(log)
	return cfg, log, nil
}
