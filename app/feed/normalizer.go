package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newspulse/app/fetch"
	"newspulse/app/sources"
)

var (
	ErrUnparseablePayload = errors.New("unparseable payload")
	ErrUnknownSourceKind  = errors.New("unknown source kind")
)

// Normalizer converts raw fetch payloads into canonical items. Dispatch is
// by source kind; every kind funnels through the same finalize step so the
// invariants hold uniformly.
type Normalizer struct {
	parser   *gofeed.Parser
	maxItems int
}

func NewNormalizer(maxItemsPerSource int) *Normalizer {
	if maxItemsPerSource <= 0 {
		maxItemsPerSource = 10
	}
	return &Normalizer{
		parser:   gofeed.NewParser(),
		maxItems: maxItemsPerSource,
	}
}

// Run normalizes one source's payload. A failure to parse the whole payload
// returns an error for this source only; unparseable individual entries are
// skipped inside the kind-specific branches.
func (n *Normalizer) Run(res *fetch.Result, src sources.Source) ([]Item, error) {
	var items []Item
	var err error

	switch src.Kind {
	case sources.KindRSS:
		items, err = n.normalizeRSS(res)
	case sources.KindYouTube:
		items, err = n.normalizeYouTube(res)
	case sources.KindReddit:
		items, err = n.normalizeReddit(res)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSourceKind, src.Kind)
	}
	if err != nil {
		return nil, err
	}

	// Upstream order is assumed newest-first; take the first N.
	if len(items) > n.maxItems {
		items = items[:n.maxItems]
	}

	for i := range items {
		n.finalize(&items[i], src, res.FetchedAt)
	}

	return items, nil
}

func (n *Normalizer) finalize(item *Item, src sources.Source, fetchedAt time.Time) {
	item.Title = CleanText(item.Title)
	if item.Title == "" {
		item.Title = "Untitled"
	}

	item.Description = CleanText(item.Description)
	item.URL = sanitizeURL(item.URL)
	item.ImageURL = sanitizeImageURL(item.ImageURL)

	item.SourceID = src.ID
	item.SourceName = src.Name
	item.Category = Categorize(item.Title, item.Description, src.Category)

	if item.PublishedAt.IsZero() {
		item.PublishedAt = fetchedAt
	}
	if item.ID == "" {
		item.ID = deriveID(src.ID, item.URL, item.Title)
	}
}

// sanitizeURL keeps absolute http(s) links and replaces everything else
// with the NoURL sentinel.
func sanitizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return NoURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NoURL
	}
	return u.String()
}

func sanitizeImageURL(raw string) string {
	if raw == "" {
		return ""
	}
	if sanitized := sanitizeURL(raw); sanitized != NoURL {
		return sanitized
	}
	return ""
}

// deriveID builds a stable identifier when the source does not provide one.
func deriveID(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:8])
}
