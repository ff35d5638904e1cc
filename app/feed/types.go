package feed

import (
	"time"
)

// NoURL is the sentinel stored when a source item has no absolute http(s)
// link to the original content.
const NoURL = "none"

// Item is the canonical record shared by all downstream consumers. Articles
// and videos use the same shape. Items are immutable once produced; a new
// fetch cycle replaces them wholesale.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	SourceID    string    `json:"source_id"`
	SourceName  string    `json:"source_name"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"published_at"`
}
