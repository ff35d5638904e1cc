package feed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"newspulse/app/fetch"
)

// normalizeRSS handles RSS 2.0 and Atom payloads. gofeed detects the feed
// flavor itself, which also covers unknown XML: a payload that matches
// neither flavor fails as a whole.
func (n *Normalizer) normalizeRSS(res *fetch.Result) ([]Item, error) {
	parsed, err := n.parser.Parse(bytes.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseablePayload, err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry == nil || (entry.Title == "" && entry.Link == "") {
			continue
		}

		item := Item{
			Title:       entry.Title,
			Description: entry.Description,
			URL:         entry.Link,
			ImageURL:    rssImage(entry),
		}

		if entry.GUID != "" {
			item.ID = deriveID(res.SourceID, entry.GUID)
		}

		if entry.PublishedParsed != nil {
			item.PublishedAt = entry.PublishedParsed.UTC()
		} else if entry.UpdatedParsed != nil {
			item.PublishedAt = entry.UpdatedParsed.UTC()
		}

		items = append(items, item)
	}

	return items, nil
}

// rssImage tries image locations in a fixed order; the first match wins.
func rssImage(entry *gofeed.Item) string {
	// 1. media:thumbnail / media:content extension attributes
	if media, ok := entry.Extensions["media"]; ok {
		for _, name := range []string{"thumbnail", "content"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}

	// 2. enclosure with an image MIME type
	for _, enclosure := range entry.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") && enclosure.URL != "" {
			return enclosure.URL
		}
	}

	// 3. first <img> inside the raw HTML description
	if img := FirstImage(entry.Description); img != "" {
		return img
	}
	return FirstImage(entry.Content)
}
