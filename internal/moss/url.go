package moss

import (
	"regexp"

	"github.com/rotisserie/eris"
)

// URLMatcher extracts report locations from free-form tool output.
type URLMatcher struct {
	re *regexp.Regexp
}

// NewURLMatcher compiles pattern into a URLMatcher.
func NewURLMatcher(pattern string) (*URLMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, eris.Wrapf(err, "moss: compile url pattern %q", pattern)
	}
	return &URLMatcher{re: re}, nil
}

// FirstURL returns the first match in text.
func (m *URLMatcher) FirstURL(text string) (string, bool) {
	loc := m.re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}
