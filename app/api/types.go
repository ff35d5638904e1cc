package api

import (
	"context"
	"time"

	"newspulse/app/aggregator"
	"newspulse/app/cache"
	"newspulse/app/feed"
	"newspulse/app/newsletter"
	"newspulse/app/sources"
)

type AggregatorInterface interface {
	Run(ctx context.Context, srcs []sources.Source, cacheKey string) ([]feed.Item, error)
}

var _ AggregatorInterface = (*aggregator.Aggregator)(nil)

type Handler struct {
	registry   *sources.Registry
	aggregator AggregatorInterface
	cache      cache.Cache
	subscriber newsletter.Subscriber
}

// FeedResponse is the JSON shape consumed by the UI layer. It is always
// renderable: a degraded cycle produces an empty or stale items array plus
// a warning, never an error page.
type FeedResponse struct {
	Items       []feed.Item `json:"items"`
	Count       int         `json:"count"`
	LastUpdated time.Time   `json:"lastUpdated"`
	Warning     string      `json:"warning,omitempty"`
}

type SubscribeRequest struct {
	Email string `json:"email"`
}
