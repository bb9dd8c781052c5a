package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkCorpus  string
	checkResults string
)

var checkCmd = &cobra.Command{
	Use:   "check <suspect-file>",
	Short: "Run the full check for one suspect file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyDirOverrides(checkCorpus, checkResults)

		p, err := initPipeline(cfg, zap.L())
		if err != nil {
			return err
		}

		result, err := p.Run(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "check")
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Summary.Render())
		return err
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <suspect-file>",
	Short: "Re-score previously fetched reports without resubmitting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyDirOverrides(checkCorpus, checkResults)

		p, err := initPipeline(cfg, zap.L())
		if err != nil {
			return err
		}

		result, err := p.Analyze(args[0])
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Summary.Render())
		return err
	},
}

// applyDirOverrides replaces configured directories with non-empty flag values.
func applyDirOverrides(corpus, results string) {
	if corpus != "" {
		cfg.Corpus.Dir = corpus
	}
	if results != "" {
		cfg.Result.Dir = results
	}
}

func init() {
	for _, c := range []*cobra.Command{checkCmd, analyzeCmd} {
		c.Flags().StringVar(&checkCorpus, "corpus", "", "corpus directory (overrides corpus.dir)")
		c.Flags().StringVar(&checkResults, "results", "", "result directory (overrides result.dir)")
		rootCmd.AddCommand(c)
	}
}
