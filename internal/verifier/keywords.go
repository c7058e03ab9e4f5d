package verifier

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// keywordSet finds which of a fixed list of tokens occur in a text as whole
// words. A trailing plural "s" is accepted, so "bids" counts as "bid" but
// "forbid" and "coffee" count for nothing.
// The underlying matcher keeps per-call state, so Match is serialized.
type keywordSet struct {
	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	keywords []string
}

func newKeywordSet(keywords ...string) *keywordSet {
	return &keywordSet{
		matcher:  ahocorasick.NewStringMatcher(keywords),
		keywords: keywords,
	}
}

// Match returns the distinct tokens found in text, sorted.
func (k *keywordSet) Match(text string) []string {
	counts := k.Count(text)
	found := make([]string, 0, len(counts))
	for kw := range counts {
		found = append(found, kw)
	}
	sort.Strings(found)
	return found
}

// Count returns the number of whole-word occurrences of each token in text.
// Tokens that do not occur are absent from the map.
func (k *keywordSet) Count(text string) map[string]int {
	if text == "" {
		return nil
	}

	k.mu.Lock()
	hits := k.matcher.Match([]byte(text))
	k.mu.Unlock()

	// The automaton reports each dictionary entry once; occurrences are
	// counted per candidate.
	counts := make(map[string]int, len(hits))
	for _, idx := range hits {
		if idx < 0 || idx >= len(k.keywords) {
			continue
		}
		kw := k.keywords[idx]
		if _, done := counts[kw]; done {
			continue
		}
		if n := countWords(text, kw); n > 0 {
			counts[kw] = n
		}
	}
	return counts
}

// total sums the occurrences in counts.
func total(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

func countWords(text, word string) int {
	if word == "" {
		return 0
	}
	n := 0
	for i := 0; i < len(text); {
		j := strings.Index(text[i:], word)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(word)
		if wordBoundaryBefore(text, start) && wordEndsAt(text, end) {
			n++
		}
		i = end
	}
	return n
}

func wordEndsAt(text string, end int) bool {
	if wordBoundaryAfter(text, end) {
		return true
	}
	if end < len(text) && (text[end] == 's' || text[end] == 'S') {
		return wordBoundaryAfter(text, end+1)
	}
	return false
}

func wordBoundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func wordBoundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
