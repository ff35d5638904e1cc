package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"newspulse/app/fetch"
)

// YouTube Data API v3 search response, reduced to the fields we read.
type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			PublishedAt  string `json:"publishedAt"`
			ChannelTitle string `json:"channelTitle"`
			Title        string `json:"title"`
			Description  string `json:"description"`
			Thumbnails   struct {
				High    youtubeThumbnail `json:"high"`
				Medium  youtubeThumbnail `json:"medium"`
				Default youtubeThumbnail `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type youtubeThumbnail struct {
	URL string `json:"url"`
}

func (n *Normalizer) normalizeYouTube(res *fetch.Result) ([]Item, error) {
	var response youtubeSearchResponse
	if err := json.Unmarshal(res.Body, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseablePayload, err)
	}

	items := make([]Item, 0, len(response.Items))
	for _, entry := range response.Items {
		if entry.ID.VideoID == "" {
			continue
		}

		item := Item{
			ID:          deriveID(res.SourceID, entry.ID.VideoID),
			Title:       entry.Snippet.Title,
			Description: entry.Snippet.Description,
			URL:         fmt.Sprintf("https://www.youtube.com/watch?v=%s", entry.ID.VideoID),
			ImageURL:    youtubeImage(entry.Snippet.Thumbnails.High, entry.Snippet.Thumbnails.Medium, entry.Snippet.Thumbnails.Default),
		}

		if published, err := time.Parse(time.RFC3339, entry.Snippet.PublishedAt); err == nil {
			item.PublishedAt = published.UTC()
		}

		items = append(items, item)
	}

	return items, nil
}

func youtubeImage(thumbnails ...youtubeThumbnail) string {
	for _, thumbnail := range thumbnails {
		if thumbnail.URL != "" {
			return thumbnail.URL
		}
	}
	return ""
}
