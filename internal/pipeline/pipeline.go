// Package pipeline runs a plagiarism check end to end:
// partition, submit, fetch and analyze.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mosscheck/internal/fetcher"
	"github.com/sells-group/mosscheck/internal/model"
	"github.com/sells-group/mosscheck/internal/moss"
	"github.com/sells-group/mosscheck/internal/report"
)

// Splitter partitions a corpus directory into batches.
type Splitter interface {
	Split(ctx context.Context, corpusDir string) ([]model.Batch, error)
}

// Options configures where the pipeline reads and writes.
type Options struct {
	CorpusDir   string
	ResultDir   string
	SummaryFile string
	BatchCount  int
	ReportName  func(index int) string
}

// Result is the outcome of a run.
type Result struct {
	Run         model.Run
	Summary     model.Summary
	Findings    []model.Finding
	SummaryPath string
}

// Pipeline sequences the check stages. Every stage must fully complete
// before the next begins and nothing is retried.
type Pipeline struct {
	opts     Options
	splitter Splitter
	comparer moss.Comparer
	fetcher  fetcher.Fetcher
	analyzer *report.Analyzer
	log      *zap.Logger
}

// New creates a Pipeline with all dependencies. A nil logger falls back to the global one.
func New(
	opts Options,
	splitter Splitter,
	comparer moss.Comparer,
	f fetcher.Fetcher,
	analyzer *report.Analyzer,
	log *zap.Logger,
) *Pipeline {
	if log == nil {
		log = zap.L()
	}
	return &Pipeline{
		opts:     opts,
		splitter: splitter,
		comparer: comparer,
		fetcher:  f,
		analyzer: analyzer,
		log:      log,
	}
}

// ReportPaths returns the local report location for every batch, in batch order.
func (p *Pipeline) ReportPaths() []string {
	paths := make([]string, p.opts.BatchCount)
	for i := range paths {
		paths[i] = filepath.Join(p.opts.ResultDir, p.opts.ReportName(i))
	}
	return paths
}

// SummaryPath returns where the summary document is written.
func (p *Pipeline) SummaryPath() string {
	return filepath.Join(p.opts.ResultDir, p.opts.SummaryFile)
}

// Run executes Partition, Submit, Fetch and Analyze for the suspect file.
// Infrastructure failures stop the run and are returned as a *StageError.
func (p *Pipeline) Run(ctx context.Context, suspect string) (*Result, error) {
	run := model.Run{
		ID:        uuid.New().String(),
		Suspect:   suspect,
		StartedAt: time.Now(),
	}
	log := p.log.With(zap.String("run_id", run.ID), zap.String("suspect", suspect))
	log.Info("pipeline: starting check")

	result := &Result{}
	fail := func(stage model.Stage, err error) (*Result, error) {
		run.Stage = model.StageFailed
		result.Run = run
		return result, &StageError{Stage: stage, Err: err}
	}

	// ===== Partition =====
	var batches []model.Batch
	if err := p.trackStage(log, &run, model.StagePartition, func() error {
		b, err := p.splitter.Split(ctx, p.opts.CorpusDir)
		batches = b
		return err
	}); err != nil {
		return fail(model.StagePartition, err)
	}

	// ===== Submit =====
	var refs []model.ReportRef
	if err := p.trackStage(log, &run, model.StageSubmit, func() error {
		r, err := runAll(batches, func(i int, b model.Batch) (model.ReportRef, error) {
			u, err := p.comparer.Submit(ctx, suspect, b)
			if err != nil {
				return model.ReportRef{}, err
			}
			return model.ReportRef{Batch: i, URL: u}, nil
		})
		refs = r
		return err
	}); err != nil {
		return fail(model.StageSubmit, err)
	}

	// ===== Fetch =====
	if err := p.trackStage(log, &run, model.StageFetch, func() error {
		_, err := runAll(refs, func(_ int, ref model.ReportRef) (int64, error) {
			return p.fetcher.FetchReport(ctx, ref.URL, p.opts.ResultDir, p.opts.ReportName(ref.Batch))
		})
		return err
	}); err != nil {
		return fail(model.StageFetch, err)
	}

	// ===== Analyze =====
	if err := p.trackStage(log, &run, model.StageAnalyze, func() error {
		res, err := p.Analyze(suspect)
		if err != nil {
			return err
		}
		result.Summary = res.Summary
		result.Findings = res.Findings
		result.SummaryPath = res.SummaryPath
		return nil
	}); err != nil {
		return fail(model.StageAnalyze, err)
	}

	run.Stage = model.StageDone
	run.Summary = &result.Summary
	result.Run = run
	log.Info("pipeline: check complete",
		zap.Bool("significant", result.Summary.Significant()),
		zap.String("summary", result.SummaryPath),
	)
	return result, nil
}

// Analyze scores whatever reports are present in the result directory and
// writes the summary. Missing reports only reduce the findings.
func (p *Pipeline) Analyze(suspect string) (*Result, error) {
	summary, findings := p.analyzer.Analyze(p.ReportPaths(), suspect)

	path := p.SummaryPath()
	if err := report.WriteSummary(path, summary); err != nil {
		return nil, eris.Wrap(err, "pipeline: write summary")
	}
	p.log.Info("plagiarism report written", zap.String("path", path))

	return &Result{Summary: summary, Findings: findings, SummaryPath: path}, nil
}

// trackStage runs fn as the named stage and records its duration on run.
func (p *Pipeline) trackStage(log *zap.Logger, run *model.Run, stage model.Stage, fn func() error) error {
	run.Stage = stage
	start := time.Now()
	err := fn()
	sr := model.StageResult{Stage: stage, Duration: time.Since(start).Milliseconds()}

	if err != nil {
		sr.Error = err.Error()
		log.Warn("pipeline: stage failed",
			zap.String("stage", string(stage)),
			zap.Int64("duration_ms", sr.Duration),
		)
	} else {
		log.Info("pipeline: stage complete",
			zap.String("stage", string(stage)),
			zap.Int64("duration_ms", sr.Duration),
		)
	}
	run.Stages = append(run.Stages, sr)
	return err
}
