package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Corpus   CorpusConfig   `yaml:"corpus" mapstructure:"corpus"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Result   ResultConfig   `yaml:"result" mapstructure:"result"`
	Moss     MossConfig     `yaml:"moss" mapstructure:"moss"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CorpusConfig locates the candidate files.
type CorpusConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	Extension string `yaml:"extension" mapstructure:"extension"`
}

// BatchConfig names the batch directories. The batch count is len(Dirs).
type BatchConfig struct {
	Dirs []string `yaml:"dirs" mapstructure:"dirs"`
}

// ResultConfig configures where reports and the summary are written.
type ResultConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	ReportPattern string `yaml:"report_pattern" mapstructure:"report_pattern"`
	SummaryFile   string `yaml:"summary_file" mapstructure:"summary_file"`
}

// ReportName returns the report filename for the zero-based batch index.
func (r ResultConfig) ReportName(index int) string {
	return fmt.Sprintf(r.ReportPattern, index+1)
}

// MossConfig configures the external submission script.
type MossConfig struct {
	Interpreter string `yaml:"interpreter" mapstructure:"interpreter"`
	Script      string `yaml:"script" mapstructure:"script"`
	Language    string `yaml:"language" mapstructure:"language"`
	URLPattern  string `yaml:"url_pattern" mapstructure:"url_pattern"`
}

// FetchConfig configures report downloads.
type FetchConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// AnalysisConfig configures report scoring.
type AnalysisConfig struct {
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MOSSCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("corpus.dir", "games")
	v.SetDefault("corpus.extension", ".js")
	v.SetDefault("batch.dirs", []string{".github/split1", ".github/split2"})
	v.SetDefault("result.dir", ".github/moss_results")
	v.SetDefault("result.report_pattern", "report_split%d.html")
	v.SetDefault("result.summary_file", "plagiarism-report.md")
	v.SetDefault("moss.interpreter", "perl")
	v.SetDefault("moss.script", ".github/scripts/moss.pl")
	v.SetDefault("moss.language", "javascript")
	v.SetDefault("moss.url_pattern", `https?://moss\.stanford\.edu/results/\S+`)
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.user_agent", "mosscheck/1.0")
	v.SetDefault("fetch.rate_per_sec", 5.0)
	v.SetDefault("analysis.threshold", 40.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the values the pipeline cannot run without.
func (c *Config) Validate() error {
	var errs []string

	if c.Corpus.Dir == "" {
		errs = append(errs, "corpus.dir is required")
	}
	if c.Corpus.Extension == "" {
		errs = append(errs, "corpus.extension is required")
	}
	if len(c.Batch.Dirs) == 0 {
		errs = append(errs, "batch.dirs must name at least one directory")
	}
	seen := make(map[string]bool, len(c.Batch.Dirs))
	for _, d := range c.Batch.Dirs {
		if d == "" {
			errs = append(errs, "batch.dirs contains an empty entry")
			continue
		}
		if seen[d] {
			errs = append(errs, fmt.Sprintf("batch.dirs contains %q twice", d))
		}
		seen[d] = true
	}
	if c.Result.Dir == "" {
		errs = append(errs, "result.dir is required")
	}
	if !strings.Contains(c.Result.ReportPattern, "%d") {
		errs = append(errs, "result.report_pattern must contain %d")
	}
	if c.Result.SummaryFile == "" {
		errs = append(errs, "result.summary_file is required")
	}
	if c.Moss.Interpreter == "" || c.Moss.Script == "" {
		errs = append(errs, "moss.interpreter and moss.script are required")
	}
	if _, err := regexp.Compile(c.Moss.URLPattern); err != nil || c.Moss.URLPattern == "" {
		errs = append(errs, "moss.url_pattern must be a valid regular expression")
	}
	if c.Analysis.Threshold <= 0 || c.Analysis.Threshold > 100 {
		errs = append(errs, "analysis.threshold must be in (0, 100]")
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
