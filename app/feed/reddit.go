package feed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"newspulse/app/fetch"
)

// Reddit listing JSON, reduced to the fields we read.
type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	URL        string  `json:"url"`
	Permalink  string  `json:"permalink"`
	Thumbnail  string  `json:"thumbnail"`
	CreatedUTC float64 `json:"created_utc"`
	Stickied   bool    `json:"stickied"`
}

func (n *Normalizer) normalizeReddit(res *fetch.Result) ([]Item, error) {
	var listing redditListing
	if err := json.Unmarshal(res.Body, &listing); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseablePayload, err)
	}

	items := make([]Item, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data
		if post.Title == "" || post.Stickied {
			continue
		}

		item := Item{
			Title:       post.Title,
			Description: post.Selftext,
			URL:         redditLink(post),
			ImageURL:    redditThumbnail(post.Thumbnail),
		}

		if post.ID != "" {
			item.ID = deriveID(res.SourceID, post.ID)
		}
		if post.CreatedUTC > 0 {
			item.PublishedAt = time.Unix(int64(post.CreatedUTC), 0).UTC()
		}

		items = append(items, item)
	}

	return items, nil
}

// redditLink prefers the outbound link; self posts fall back to the
// permalink on reddit.com.
func redditLink(post redditPost) string {
	if strings.HasPrefix(post.URL, "http://") || strings.HasPrefix(post.URL, "https://") {
		return post.URL
	}
	if post.Permalink != "" {
		return "https://www.reddit.com" + post.Permalink
	}
	return ""
}

// redditThumbnail filters out reddit's placeholder values ("self",
// "default", "nsfw", "spoiler"), which are not URLs.
func redditThumbnail(thumbnail string) string {
	if strings.HasPrefix(thumbnail, "http://") || strings.HasPrefix(thumbnail, "https://") {
		return thumbnail
	}
	return ""
}
