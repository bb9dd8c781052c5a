// Package moss submits a suspect file and a batch directory to the MOSS
// submission script and returns the report URL it prints.
package moss

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mosscheck/internal/model"
)

var (
	// ErrToolFailed is returned when the submission script exits non-zero.
	ErrToolFailed = eris.New("moss: submission script failed")
	// ErrNoOutput is returned when the script prints nothing to stdout.
	ErrNoOutput = eris.New("moss: submission script produced no output")
	// ErrNoReportURL is returned when stdout holds no recognizable report URL.
	ErrNoReportURL = eris.New("moss: no report url in output")
)

// Comparer submits one batch for comparison against the suspect file.
type Comparer interface {
	Submit(ctx context.Context, suspect string, batch model.Batch) (string, error)
}

// Options configures the submission command.
type Options struct {
	Interpreter string // e.g. "perl"
	Script      string // path to moss.pl
	Language    string // value of the -l flag
}

// Client runs the submission script as a child process.
type Client struct {
	opts    Options
	matcher *URLMatcher
	log     *zap.Logger
}

// NewClient creates a Client. A nil logger falls back to the global one.
func NewClient(opts Options, matcher *URLMatcher, log *zap.Logger) *Client {
	if log == nil {
		log = zap.L()
	}
	return &Client{
		opts:    opts,
		matcher: matcher,
		log:     log.With(zap.String("component", "moss")),
	}
}

// Args builds the script arguments for one submission. Targets are the files
// assigned to the batch, not whatever else sits in its directory.
func (c *Client) Args(suspect string, batch model.Batch) []string {
	args := make([]string, 0, 4+len(batch.Files))
	args = append(args, c.opts.Script, "-l", c.opts.Language, suspect)
	for _, f := range batch.Files {
		args = append(args, f.Path)
	}
	return args
}

// Submit runs the script for one batch and returns the first report URL it prints.
func (c *Client) Submit(ctx context.Context, suspect string, batch model.Batch) (string, error) {
	log := c.log.With(zap.String("batch", batch.Dir))

	args := c.Args(suspect, batch)
	log.Info("submitting batch", zap.Int("targets", len(batch.Files)))

	cmd := exec.CommandContext(ctx, c.opts.Interpreter, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if stderr.Len() > 0 {
		log.Warn("submission script stderr", zap.String("stderr", strings.TrimSpace(stderr.String())))
	}
	if runErr != nil {
		log.Warn("submission script failed", zap.Error(runErr))
		return "", eris.Wrapf(ErrToolFailed, "batch %s: %v", batch.Dir, runErr)
	}

	out := stdout.String()
	if strings.TrimSpace(out) == "" {
		return "", eris.Wrapf(ErrNoOutput, "batch %s", batch.Dir)
	}

	u, ok := c.matcher.FirstURL(out)
	if !ok {
		log.Warn("no report url found", zap.String("stdout", out))
		return "", eris.Wrapf(ErrNoReportURL, "batch %s", batch.Dir)
	}

	log.Info("report url received", zap.String("url", u))
	return u, nil
}
