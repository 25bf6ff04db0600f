package main

import (
	"github.com/blue-collar-job-portal/moderation/internal/config"
	"github.com/blue-collar-job-portal/moderation/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd = &cobra.Command{
	Use:   "moderation-api",
	Short: "Job moderation and appeals service",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
}

// setupLogger installs the global zap logger at the configured level. The returned func
// restores the previous globals and flushes.
func setupLogger(cfg *config.Config) func() {
	logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
	if err != nil {
		logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger := log.InitLog(logLvl)
	undo := zap.ReplaceGlobals(logger)
	return func() {
		undo()
		_ = logger.Sync()
	}
}
