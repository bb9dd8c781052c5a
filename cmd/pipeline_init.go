package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mosscheck/internal/config"
	"github.com/sells-group/mosscheck/internal/fetcher"
	"github.com/sells-group/mosscheck/internal/moss"
	"github.com/sells-group/mosscheck/internal/partition"
	"github.com/sells-group/mosscheck/internal/pipeline"
	"github.com/sells-group/mosscheck/internal/report"
)

// initPipeline validates the config and wires every stage into a Pipeline.
func initPipeline(c *config.Config, log *zap.Logger) (*pipeline.Pipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	matcher, err := moss.NewURLMatcher(c.Moss.URLPattern)
	if err != nil {
		return nil, eris.Wrap(err, "init pipeline")
	}

	splitter := partition.New(c.Batch.Dirs, c.Corpus.Extension, log)
	comparer := moss.NewClient(moss.Options{
		Interpreter: c.Moss.Interpreter,
		Script:      c.Moss.Script,
		Language:    c.Moss.Language,
	}, matcher, log)
	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  c.Fetch.UserAgent,
		Timeout:    time.Duration(c.Fetch.TimeoutSecs) * time.Second,
		RatePerSec: c.Fetch.RatePerSec,
	}, log)
	analyzer := report.NewAnalyzer(report.Options{
		CorpusDir: c.Corpus.Dir,
		Extension: c.Corpus.Extension,
		Threshold: c.Analysis.Threshold,
	}, log)

	return pipeline.New(
		pipeline.Options{
			CorpusDir:   c.Corpus.Dir,
			ResultDir:   c.Result.Dir,
			SummaryFile: c.Result.SummaryFile,
			BatchCount:  len(c.Batch.Dirs),
			ReportName:  c.Result.ReportName,
		},
		splitter, comparer, httpFetcher, analyzer, log,
	), nil
}
