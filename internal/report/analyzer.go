// Package report turns fetched comparison reports into a plagiarism summary.
package report

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mosscheck/internal/model"
)

// DefaultThreshold is the minimum overlap score, in percent, worth reporting.
const DefaultThreshold = 40.0

// Options configures an Analyzer.
type Options struct {
	CorpusDir string
	Extension string
	Threshold float64
	Reader    TableReader
}

// Analyzer extracts and scores report rows that involve the suspect file.
type Analyzer struct {
	opts   Options
	fileRe *regexp.Regexp
	log    *zap.Logger
}

// NewAnalyzer creates an Analyzer. Zero-valued options fall back to defaults.
func NewAnalyzer(opts Options, log *zap.Logger) *Analyzer {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Reader == nil {
		opts.Reader = HTMLTableReader{}
	}
	if log == nil {
		log = zap.L()
	}
	return &Analyzer{
		opts:   opts,
		fileRe: regexp.MustCompile(`\S+` + regexp.QuoteMeta(opts.Extension)),
		log:    log.With(zap.String("component", "report")),
	}
}

// Score returns matched/total as a percentage rounded to two decimals.
func Score(matched, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(matched)*10000/float64(total)) / 100
}

// Reduce folds findings into a summary holding the highest score. On a tie
// the earliest finding wins.
func Reduce(findings []model.Finding) model.Summary {
	var best *model.Finding
	for i := range findings {
		if best == nil || findings[i].Score > best.Score {
			f := findings[i]
			best = &f
		}
	}
	return model.Summary{Best: best}
}

// Analyze scores every report in order and reduces the findings to a summary.
// Missing or unreadable reports are logged and skipped. It also returns every
// finding that passed the threshold, in batch then row order.
func (a *Analyzer) Analyze(reports []string, suspect string) (model.Summary, []model.Finding) {
	var findings []model.Finding
	for _, path := range reports {
		records, err := a.Extract(path, suspect)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				a.log.Warn("report file does not exist", zap.String("path", path))
			} else {
				a.log.Warn("report unreadable, skipping", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		for _, rec := range records {
			if f, ok := a.Evaluate(rec, suspect); ok {
				findings = append(findings, f)
			}
		}
	}

	summary := Reduce(findings)
	if summary.Best != nil {
		a.log.Info("highest overlap",
			zap.String("file", summary.Best.File),
			zap.Float64("score", summary.Best.Score),
			zap.Int("significant", len(findings)),
		)
	} else {
		a.log.Info("no significant overlap")
	}
	return summary, findings
}

// Extract reads one report and returns the rows naming the suspect file.
func (a *Analyzer) Extract(path, suspect string) ([]model.MatchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "report: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	rows, err := a.opts.Reader.ReadRows(f)
	if err != nil {
		return nil, eris.Wrapf(err, "report: read %s", path)
	}

	var records []model.MatchRecord
	for _, cells := range rows {
		if len(cells) < 3 {
			continue
		}
		first, second := cells[0], cells[1]
		if !strings.Contains(first, suspect) && !strings.Contains(second, suspect) {
			continue
		}
		matched, err := strconv.Atoi(strings.TrimSpace(cells[2]))
		if err != nil {
			a.log.Warn("non-numeric matched line count, using 0",
				zap.String("path", path),
				zap.String("value", cells[2]),
			)
			matched = 0
		}
		records = append(records, model.MatchRecord{First: first, Second: second, Matched: matched})
	}
	return records, nil
}

// ComparedFile returns the bare filename of the non-suspect side of rec.
func (a *Analyzer) ComparedFile(rec model.MatchRecord, suspect string) (string, bool) {
	other := rec.Second
	if strings.Contains(rec.Second, suspect) && !strings.Contains(rec.First, suspect) {
		other = rec.First
	}
	path := a.fileRe.FindString(other)
	if path == "" {
		return "", false
	}
	return filepath.Base(filepath.FromSlash(path)), true
}

// Evaluate scores one record against the compared file's length in the
// corpus. It reports false for self matches, unresolvable files and scores
// below the threshold.
func (a *Analyzer) Evaluate(rec model.MatchRecord, suspect string) (model.Finding, bool) {
	name, ok := a.ComparedFile(rec, suspect)
	if !ok {
		a.log.Warn("no compared file in report row",
			zap.String("first", rec.First),
			zap.String("second", rec.Second),
		)
		return model.Finding{}, false
	}
	if name == filepath.Base(suspect) {
		return model.Finding{}, false
	}

	file := model.CandidateFile{Name: name, Path: filepath.Join(a.opts.CorpusDir, name)}
	total, err := file.LineCount()
	if err != nil {
		a.log.Warn("compared file not found in corpus", zap.String("path", file.Path), zap.Error(err))
		return model.Finding{}, false
	}

	score := Score(rec.Matched, total)
	if score < a.opts.Threshold {
		return model.Finding{}, false
	}

	a.log.Info("significant overlap",
		zap.String("file", name),
		zap.Float64("score", score),
		zap.Int("matched", rec.Matched),
		zap.Int("lines", total),
	)
	return model.Finding{File: name, Score: score}, true
}

// WriteSummary writes the rendered summary to path, creating its directory.
func WriteSummary(path string, s model.Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "report: create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(s.Render()), 0o644); err != nil {
		return eris.Wrapf(err, "report: write summary %s", path)
	}
	return nil
}
