package dedup

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle reduces a title to a comparison key: Unicode-normalized,
// lowercased, punctuation stripped, whitespace collapsed and truncated to
// the first truncateLen runes.
func NormalizeTitle(raw string, truncateLen int) string {
	normalized := norm.NFC.String(raw)
	normalized = strings.ToLower(normalized)

	var b strings.Builder
	b.Grow(len(normalized))
	lastSpace := true
	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}

	result := strings.TrimSpace(b.String())
	runes := []rune(result)
	if truncateLen > 0 && len(runes) > truncateLen {
		result = strings.TrimSpace(string(runes[:truncateLen]))
	}
	return result
}

// TitleTokens splits a normalized title into its unique words of length
// greater than two.
func TitleTokens(normalizedTitle string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(normalizedTitle) {
		if len([]rune(word)) > 2 {
			tokens[word] = struct{}{}
		}
	}
	return tokens
}

// Jaccard is |A∩B| / |A∪B| over token sets. An empty set never matches
// anything, so the similarity is defined as zero.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
