package model

import (
	"bytes"
	"os"

	"github.com/rotisserie/eris"
)

// CandidateFile is one source file discovered in the corpus.
type CandidateFile struct {
	Name string `json:"name"` // bare filename, e.g. "snake.js"
	Path string `json:"path"` // location in the corpus directory
}

// LineCount reads the file and returns its line count. It is computed on
// demand rather than at discovery.
func (f CandidateFile) LineCount() (int, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return 0, eris.Wrapf(err, "model: read %s", f.Path)
	}
	return CountLines(data), nil
}

// CountLines returns the number of newline-delimited segments in content.
// A trailing newline yields a final empty segment, and empty content counts
// as one segment, so the result is never zero.
func CountLines(content []byte) int {
	return bytes.Count(content, []byte{'\n'}) + 1
}

// Batch is a directory holding a disjoint subset of the corpus.
type Batch struct {
	Index int             `json:"index"`
	Dir   string          `json:"dir"`
	Files []CandidateFile `json:"files"`
}
