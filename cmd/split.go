package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mosscheck/internal/partition"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Copy the corpus into the configured batch directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		p := partition.New(cfg.Batch.Dirs, cfg.Corpus.Extension, zap.L())
		batches, err := p.Split(cmd.Context(), cfg.Corpus.Dir)
		if err != nil {
			return eris.Wrap(err, "split")
		}

		for _, b := range batches {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", b.Dir, len(b.Files)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)
}
