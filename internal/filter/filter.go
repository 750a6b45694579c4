package filter

import (
	"strings"

	"github.com/amishk599/jobwatch/internal/model"
)

var _ model.Matcher = (*KeywordMatcher)(nil)

// KeywordMatcher matches postings whose title or description contains any of
// the configured keywords. Matching is a case-insensitive substring test with
// no word-boundary logic, so "AI" also matches "fails".
type KeywordMatcher struct {
	keywords []string // lowercased
}

// NewKeywordMatcher returns a matcher over the given keywords. Empty strings
// are dropped; a matcher with no keywords matches nothing.
func NewKeywordMatcher(keywords []string) *KeywordMatcher {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		lowered = append(lowered, strings.ToLower(kw))
	}
	return &KeywordMatcher{keywords: lowered}
}

// Match returns true if any keyword occurs in the posting's title joined with
// its description.
func (m *KeywordMatcher) Match(p model.Posting) bool {
	if p.Title == "" && p.Description == "" {
		return false
	}
	text := strings.ToLower(p.Title + " " + p.Description)
	for _, kw := range m.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Keywords returns the normalized keyword list.
func (m *KeywordMatcher) Keywords() []string {
	return append([]string(nil), m.keywords...)
}
