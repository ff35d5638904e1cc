package feed

import (
	"strings"
)

// Item categories shown in the UI. Categorization is presentational and
// runs at normalize time, outside the dedup and cache hot path.
const (
	CategoryAI       = "AI"
	CategoryTech     = "Tech"
	CategoryScience  = "Science"
	CategoryBusiness = "Business"
	CategoryGeneral  = "General"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryAI, []string{
		"ai", "artificial intelligence", "machine learning", "llm",
		"openai", "chatgpt", "anthropic", "claude", "gemini",
		"neural network", "deep learning", "generative",
	}},
	{CategoryTech, []string{
		"software", "programming", "startup", "app", "chip", "semiconductor",
		"cloud", "cybersecurity", "smartphone", "browser", "linux", "open source",
	}},
	{CategoryScience, []string{
		"research", "study", "physics", "biology", "astronomy", "climate",
		"space", "nasa", "quantum", "vaccine", "genome",
	}},
	{CategoryBusiness, []string{
		"earnings", "ipo", "acquisition", "merger", "revenue", "stock",
		"investor", "funding", "valuation", "layoffs",
	}},
}

// Categorize picks one fixed category from item text, falling back to the
// source's configured category when no keyword matches.
func Categorize(title, description, sourceCategory string) string {
	text := strings.ToLower(title + " " + description)

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if containsWord(text, keyword) {
				return entry.category
			}
		}
	}

	if sourceCategory != "" {
		return sourceCategory
	}
	return CategoryGeneral
}

// containsWord checks whole-word presence so that short keywords like "ai"
// do not match inside longer words.
func containsWord(text, word string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], word)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(word)

		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
