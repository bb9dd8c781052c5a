package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryRender_Best(t *testing.T) {
	t.Parallel()
	s := Summary{Best: &Finding{File: "b.js", Score: 72.3}}

	assert.True(t, s.Significant())
	assert.Equal(t, "# Plagiarism Report\n## Game overlap report:\nb.js: 72.30%", s.Render())
}

func TestSummaryRender_NoOverlap(t *testing.T) {
	t.Parallel()
	s := Summary{}

	assert.False(t, s.Significant())
	assert.Equal(t, "# Plagiarism Report\n## Game overlap report:\n\nNo significant overlap found.", s.Render())
	assert.NotContains(t, s.Render(), "%")
}

func TestFindingString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a.js: 40.00%", Finding{File: "a.js", Score: 40}.String())
}
