// Package partition splits a corpus directory into batch directories for
// concurrent submission.
package partition

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/mosscheck/internal/model"
)

// Partitioner copies eligible corpus files into a fixed set of batch directories.
type Partitioner struct {
	dirs      []string
	extension string
	log       *zap.Logger
}

// New creates a Partitioner for the given batch directories. The batch count
// is len(dirs). A nil logger falls back to the global one.
func New(dirs []string, extension string, log *zap.Logger) *Partitioner {
	if log == nil {
		log = zap.L()
	}
	return &Partitioner{
		dirs:      dirs,
		extension: extension,
		log:       log.With(zap.String("component", "partition")),
	}
}

// List returns the eligible files in corpusDir in directory order.
// os.ReadDir sorts by name, so the order is stable within a run.
func List(corpusDir, extension string) ([]model.CandidateFile, error) {
	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		return nil, eris.Wrapf(err, "partition: read corpus %s", corpusDir)
	}

	var files []model.CandidateFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), extension) {
			continue
		}
		files = append(files, model.CandidateFile{
			Name: e.Name(),
			Path: filepath.Join(corpusDir, e.Name()),
		})
	}
	return files, nil
}

// Assign slices files into k contiguous groups of ceil(len/k). Trailing
// groups are empty when there are fewer files than groups.
func Assign(files []model.CandidateFile, k int) [][]model.CandidateFile {
	if k <= 0 {
		return nil
	}
	size := (len(files) + k - 1) / k

	groups := make([][]model.CandidateFile, k)
	for i := range k {
		start := min(i*size, len(files))
		end := min(start+size, len(files))
		groups[i] = files[start:end]
	}
	return groups
}

// Split lists corpusDir, creates every batch directory and copies each file
// into its assigned batch. Existing batch directories are reused; eligible
// files left there by an earlier split and no longer assigned are removed.
// Any failure aborts the whole split.
func (p *Partitioner) Split(ctx context.Context, corpusDir string) ([]model.Batch, error) {
	files, err := List(corpusDir, p.extension)
	if err != nil {
		return nil, err
	}

	p.log.Info("splitting corpus",
		zap.String("corpus", corpusDir),
		zap.Int("files", len(files)),
		zap.Int("batches", len(p.dirs)),
	)

	groups := Assign(files, len(p.dirs))
	batches := make([]model.Batch, len(p.dirs))

	var g errgroup.Group
	for i, dir := range p.dirs {
		batches[i] = model.Batch{Index: i, Dir: dir}
		group := groups[i]
		g.Go(func() error {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return eris.Wrapf(err, "partition: create batch dir %s", dir)
			}
			if err := p.prune(dir, group); err != nil {
				return err
			}
			copied := make([]model.CandidateFile, 0, len(group))
			for _, f := range group {
				if err := ctx.Err(); err != nil {
					return eris.Wrap(err, "partition: cancelled")
				}
				dest := filepath.Join(dir, f.Name)
				if err := copyFile(f.Path, dest); err != nil {
					return err
				}
				copied = append(copied, model.CandidateFile{Name: f.Name, Path: dest})
			}
			batches[i].Files = copied
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "partition: split files")
	}

	p.log.Info("corpus split", zap.Int("batches", len(batches)))
	return batches, nil
}

// prune removes eligible files in dir that are not part of keep.
func (p *Partitioner) prune(dir string, keep []model.CandidateFile) error {
	assigned := make(map[string]bool, len(keep))
	for _, f := range keep {
		assigned[f.Name] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return eris.Wrapf(err, "partition: read batch dir %s", dir)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), p.extension) || assigned[e.Name()] {
			continue
		}
		stale := filepath.Join(dir, e.Name())
		if err := os.Remove(stale); err != nil {
			return eris.Wrapf(err, "partition: remove stale %s", stale)
		}
		p.log.Debug("removed stale batch file", zap.String("path", stale))
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return eris.Wrapf(err, "partition: open %s", src)
	}
	defer in.Close() //nolint:errcheck

	out, err := os.Create(dest)
	if err != nil {
		return eris.Wrapf(err, "partition: create %s", dest)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return eris.Wrapf(err, "partition: copy %s", src)
	}
	if err := out.Close(); err != nil {
		return eris.Wrapf(err, "partition: close %s", dest)
	}
	return nil
}
