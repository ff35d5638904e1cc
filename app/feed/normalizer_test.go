package feed

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"newspulse/app/fetch"
	"newspulse/app/sources"
)

var testFetchedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testResult(sourceID, body string) *fetch.Result {
	return &fetch.Result{
		SourceID:  sourceID,
		FetchedAt: testFetchedAt,
		Body:      []byte(body),
	}
}

const rssPayload = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <item>
      <title>First &amp; Foremost</title>
      <link>https://example.com/first</link>
      <guid>first-guid</guid>
      <description>&lt;p&gt;Body with &lt;b&gt;markup&lt;/b&gt;&lt;/p&gt;</description>
      <pubDate>Mon, 02 Mar 2026 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>No Date Entry</title>
      <link>https://example.com/second</link>
    </item>
    <item>
      <title></title>
      <link></link>
    </item>
  </channel>
</rss>`

func TestNormalizeRSS(t *testing.T) {
	normalizer := NewNormalizer(10)
	src := sources.Source{ID: "example", Name: "Example", Kind: sources.KindRSS, Category: "General"}

	items, err := normalizer.Run(testResult("example", rssPayload), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (empty entry skipped), got %d", len(items))
	}

	first := items[0]
	if first.Title != "First & Foremost" {
		t.Errorf("expected unescaped title, got %q", first.Title)
	}
	if first.Description != "Body with markup" {
		t.Errorf("expected stripped description, got %q", first.Description)
	}
	if first.URL != "https://example.com/first" {
		t.Errorf("unexpected URL %q", first.URL)
	}
	if first.ID == "" {
		t.Error("expected GUID-derived ID")
	}
	expectedDate := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(expectedDate) {
		t.Errorf("expected published %v, got %v", expectedDate, first.PublishedAt)
	}
	if first.SourceID != "example" || first.SourceName != "Example" {
		t.Errorf("source fields not set: %q %q", first.SourceID, first.SourceName)
	}

	second := items[1]
	if !second.PublishedAt.Equal(testFetchedAt) {
		t.Errorf("expected fetch time fallback, got %v", second.PublishedAt)
	}
	if second.ID == "" {
		t.Error("expected derived ID for entry without GUID")
	}
}

func TestNormalizeRSSAtom(t *testing.T) {
	payload := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <entry>
    <title>Atom Entry</title>
    <link href="https://example.com/atom"/>
    <id>atom-1</id>
    <updated>2026-03-02T09:00:00Z</updated>
  </entry>
</feed>`

	normalizer := NewNormalizer(10)
	src := sources.Source{ID: "atom", Name: "Atom", Kind: sources.KindRSS}

	items, err := normalizer.Run(testResult("atom", payload), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].URL != "https://example.com/atom" {
		t.Errorf("unexpected URL %q", items[0].URL)
	}
}

func TestNormalizeRSSUnparseable(t *testing.T) {
	normalizer := NewNormalizer(10)
	src := sources.Source{ID: "bad", Kind: sources.KindRSS}

	_, err := normalizer.Run(testResult("bad", "this is not xml at all"), src)
	if !errors.Is(err, ErrUnparseablePayload) {
		t.Errorf("expected ErrUnparseablePayload, got %v", err)
	}
}

func TestNormalizeRSSMaxItems(t *testing.T) {
	var entries strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&entries, `<item><title>Entry %d</title><link>https://example.com/%d</link></item>`, i, i)
	}
	payload := `<?xml version="1.0"?><rss version="2.0"><channel><title>Big</title>` +
		entries.String() + `</channel></rss>`

	normalizer := NewNormalizer(5)
	src := sources.Source{ID: "big", Kind: sources.KindRSS}

	items, err := normalizer.Run(testResult("big", payload), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("expected cap at 5 items, got %d", len(items))
	}
	if items[0].Title != "Entry 0" {
		t.Errorf("expected first entries kept, got %q", items[0].Title)
	}
}

func TestNormalizeYouTube(t *testing.T) {
	payload := `{
  "items": [
    {
      "id": {"videoId": "abc123"},
      "snippet": {
        "publishedAt": "2026-03-01T08:00:00Z",
        "channelTitle": "Example Channel",
        "title": "Video One",
        "description": "About the video",
        "thumbnails": {
          "high": {"url": "https://i.ytimg.com/vi/abc123/hqdefault.jpg"},
          "default": {"url": "https://i.ytimg.com/vi/abc123/default.jpg"}
        }
      }
    },
    {
      "id": {},
      "snippet": {"title": "Not a video"}
    }
  ]
}`

	normalizer := NewNormalizer(10)
	src := sources.Source{ID: "yt", Name: "Example Channel", Kind: sources.KindYouTube}

	items, err := normalizer.Run(testResult("yt", payload), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item (entry without videoId skipped), got %d", len(items))
	}

	item := items[0]
	if item.URL != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("unexpected URL %q", item.URL)
	}
	if item.ImageURL != "https://i.ytimg.com/vi/abc123/hqdefault.jpg" {
		t.Errorf("expected high thumbnail, got %q", item.ImageURL)
	}
	expected := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if !item.PublishedAt.Equal(expected) {
		t.Errorf("expected published %v, got %v", expected, item.PublishedAt)
	}
}

func TestNormalizeReddit(t *testing.T) {
	payload := `{
  "data": {
    "children": [
      {"data": {
        "id": "p1",
        "title": "Sticky announcement",
        "stickied": true,
        "created_utc": 1772500000
      }},
      {"data": {
        "id": "p2",
        "title": "Outbound link post",
        "url": "https://example.com/article",
        "permalink": "/r/golang/comments/p2/post/",
        "thumbnail": "https://b.thumbs.redditmedia.com/p2.jpg",
        "created_utc": 1772500000
      }},
      {"data": {
        "id": "p3",
        "title": "Self post",
        "selftext": "Discussion body",
        "url": "/r/golang/comments/p3/post/",
        "permalink": "/r/golang/comments/p3/post/",
        "thumbnail": "self",
        "created_utc": 1772400000
      }}
    ]
  }
}`

	normalizer := NewNormalizer(10)
	src := sources.Source{ID: "r-golang", Name: "r/golang", Kind: sources.KindReddit}

	items, err := normalizer.Run(testResult("r-golang", payload), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (stickied skipped), got %d", len(items))
	}

	link := items[0]
	if link.URL != "https://example.com/article" {
		t.Errorf("expected outbound URL, got %q", link.URL)
	}
	if link.ImageURL != "https://b.thumbs.redditmedia.com/p2.jpg" {
		t.Errorf("unexpected ImageURL %q", link.ImageURL)
	}
	if !link.PublishedAt.Equal(time.Unix(1772500000, 0).UTC()) {
		t.Errorf("unexpected PublishedAt %v", link.PublishedAt)
	}

	self := items[1]
	if self.URL != "https://www.reddit.com/r/golang/comments/p3/post/" {
		t.Errorf("expected permalink fallback, got %q", self.URL)
	}
	if self.ImageURL != "" {
		t.Errorf("expected placeholder thumbnail dropped, got %q", self.ImageURL)
	}
	if self.Description != "Discussion body" {
		t.Errorf("unexpected description %q", self.Description)
	}
}

func TestNormalizeUnknownKind(t *testing.T) {
	normalizer := NewNormalizer(10)
	src := sources.Source{ID: "odd", Kind: "telegram"}

	_, err := normalizer.Run(testResult("odd", "{}"), src)
	if !errors.Is(err, ErrUnknownSourceKind) {
		t.Errorf("expected ErrUnknownSourceKind, got %v", err)
	}
}

func TestFinalizeDefaults(t *testing.T) {
	payload := `{
  "data": {
    "children": [
      {"data": {"id": "p1", "title": "<b></b>", "created_utc": 0}}
    ]
  }
}`

	normalizer := NewNormalizer(10)
	src := sources.Source{ID: "r-x", Name: "r/x", Kind: sources.KindReddit, Category: "General"}

	items, err := normalizer.Run(testResult("r-x", payload), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.Title != "Untitled" {
		t.Errorf("expected Untitled fallback, got %q", item.Title)
	}
	if item.URL != NoURL {
		t.Errorf("expected NoURL for missing link, got %q", item.URL)
	}
	if !item.PublishedAt.Equal(testFetchedAt) {
		t.Errorf("expected fetch time fallback, got %v", item.PublishedAt)
	}
}
