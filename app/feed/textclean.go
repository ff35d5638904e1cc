package feed

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text cleaning is centralized here because duplicate detection depends on
// clean titles and descriptions; every source kind funnels through CleanText.

var (
	urlPattern        = regexp.MustCompile(`https?://\S+`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// Boilerplate phrases feeds append to titles and summaries.
	boilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)read more(\s*[.…»>]*)?`),
		regexp.MustCompile(`(?i)continue reading(\s*[.…»>]*)?`),
		regexp.MustCompile(`(?i)comments:`),
		regexp.MustCompile(`(?i)submitted by\s+/?u/\S+`),
		regexp.MustCompile(`(?i)\[link\]`),
		regexp.MustCompile(`(?i)\[comments\]`),
	}
)

// CleanText strips HTML markup, embedded URLs and boilerplate phrases from
// feed-provided text, then collapses whitespace.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}

	text := raw
	if strings.Contains(text, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}

	text = html.UnescapeString(text)
	text = urlPattern.ReplaceAllString(text, " ")
	for _, pattern := range boilerplatePatterns {
		text = pattern.ReplaceAllString(text, " ")
	}
	text = whitespacePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// FirstImage returns the src of the first <img> inside an HTML fragment,
// or an empty string when there is none.
func FirstImage(rawHTML string) string {
	if !strings.Contains(rawHTML, "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	src, ok := doc.Find("img").First().Attr("src")
	if !ok {
		return ""
	}
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return ""
	}
	return src
}
