package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "games", cfg.Corpus.Dir)
	assert.Equal(t, ".js", cfg.Corpus.Extension)
	assert.Equal(t, []string{".github/split1", ".github/split2"}, cfg.Batch.Dirs)
	assert.Equal(t, ".github/moss_results", cfg.Result.Dir)
	assert.Equal(t, "plagiarism-report.md", cfg.Result.SummaryFile)
	assert.Equal(t, "perl", cfg.Moss.Interpreter)
	assert.Equal(t, "javascript", cfg.Moss.Language)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSecs)
	assert.InDelta(t, 40.0, cfg.Analysis.Threshold, 0.001)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
corpus:
  dir: submissions
  extension: .py
batch:
  dirs: [b1, b2, b3]
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "submissions", cfg.Corpus.Dir)
	assert.Equal(t, ".py", cfg.Corpus.Extension)
	assert.Equal(t, []string{"b1", "b2", "b3"}, cfg.Batch.Dirs)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, "report_split%d.html", cfg.Result.ReportPattern)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
corpus:
  dir: submissions
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("MOSSCHECK_CORPUS_DIR", "games")
	t.Setenv("MOSSCHECK_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "games", cfg.Corpus.Dir)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestReportName(t *testing.T) {
	r := ResultConfig{ReportPattern: "report_split%d.html"}
	assert.Equal(t, "report_split1.html", r.ReportName(0))
	assert.Equal(t, "report_split2.html", r.ReportName(1))
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	return &Config{
		Corpus: CorpusConfig{Dir: "games", Extension: ".js"},
		Batch:  BatchConfig{Dirs: []string{"split1", "split2"}},
		Result: ResultConfig{
			Dir:           "results",
			ReportPattern: "report_split%d.html",
			SummaryFile:   "plagiarism-report.md",
		},
		Moss: MossConfig{
			Interpreter: "perl",
			Script:      "moss.pl",
			Language:    "javascript",
			URLPattern:  `http://moss\.stanford\.edu/results/\S+`,
		},
		Analysis: AnalysisConfig{Threshold: 40},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_NoBatches(t *testing.T) {
	cfg := validDefaults()
	cfg.Batch.Dirs = nil

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.dirs must name at least one directory")
}

func TestValidate_DuplicateBatch(t *testing.T) {
	cfg := validDefaults()
	cfg.Batch.Dirs = []string{"split1", "split1"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"split1" twice`)
}

func TestValidate_BadPatternAndThreshold(t *testing.T) {
	cfg := validDefaults()
	cfg.Moss.URLPattern = "("
	cfg.Analysis.Threshold = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moss.url_pattern")
	assert.Contains(t, err.Error(), "analysis.threshold")
}

func TestValidate_ReportPattern(t *testing.T) {
	cfg := validDefaults()
	cfg.Result.ReportPattern = "report.html"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "result.report_pattern")
}
