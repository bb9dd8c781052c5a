package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mosscheck/internal/config"
	"github.com/sells-group/mosscheck/internal/pipeline"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "mosscheck",
	Short:         "Plagiarism check of one file against a corpus via MOSS",
	Long:          "Splits a corpus into batches, submits each batch with the suspect file to MOSS, downloads the reports and writes a single overlap summary.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fields := []zap.Field{zap.Error(err)}
		if stage, ok := pipeline.FailedStage(err); ok {
			fields = append(fields, zap.String("stage", string(stage)))
		}
		zap.L().Error("mosscheck failed", fields...)
		_ = zap.L().Sync()
		os.Exit(1)
	}
}
