package model

import (
	"fmt"
	"strings"
)

// Summary document layout.
const (
	SummaryTitle    = "# Plagiarism Report"
	SummarySection  = "## Game overlap report:"
	NoOverlapNotice = "No significant overlap found."
)

// ReportRef is the remote location of one batch's comparison report.
type ReportRef struct {
	Batch int    `json:"batch"`
	URL   string `json:"url"`
}

// MatchRecord is one row of a comparison report.
type MatchRecord struct {
	First   string `json:"first"`
	Second  string `json:"second"`
	Matched int    `json:"matched"`
}

// Finding is a compared file whose overlap score passed the threshold.
type Finding struct {
	File  string  `json:"file"`
	Score float64 `json:"score"` // percent, two decimals
}

// String formats the finding as a summary line.
func (f Finding) String() string {
	return fmt.Sprintf("%s: %.2f%%", f.File, f.Score)
}

// Summary is the outcome of a run: the single most significant finding, if any.
type Summary struct {
	Best *Finding `json:"best,omitempty"`
}

// Significant reports whether any finding passed the threshold.
func (s Summary) Significant() bool {
	return s.Best != nil
}

// Render returns the summary document.
func (s Summary) Render() string {
	lines := []string{SummaryTitle, SummarySection}
	if s.Best != nil {
		lines = append(lines, s.Best.String())
	} else {
		lines = append(lines, "", NoOverlapNotice)
	}
	return strings.Join(lines, "\n")
}
