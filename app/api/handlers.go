package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"newspulse/app/aggregator"
	"newspulse/app/cache"
	"newspulse/app/feed"
	"newspulse/app/newsletter"
	"newspulse/app/sources"
)

func NewHandler(registry *sources.Registry, agg AggregatorInterface,
	store cache.Cache, subscriber newsletter.Subscriber) *Handler {
	return &Handler{
		registry:   registry,
		aggregator: agg,
		cache:      store,
		subscriber: subscriber,
	}
}

// GetFeeds serves the aggregated feed, optionally narrowed by ?category=
// and ?kind= query parameters.
func (h *Handler) GetFeeds(c *gin.Context) {
	filter := sources.Filter{
		Category: c.Query("category"),
		Kind:     sources.Kind(strings.ToLower(c.Query("kind"))),
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown source kind"})
		return
	}

	h.serveAggregated(c, filter)
}

// GetFeedsByCategory serves a category-scoped aggregation.
func (h *Handler) GetFeedsByCategory(c *gin.Context) {
	category := c.Param("category")

	filter := sources.Filter{Category: category}
	if len(h.registry.List(filter)) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sources configured for category"})
		return
	}

	h.serveAggregated(c, filter)
}

// GetVideos serves the video rail: youtube sources only.
func (h *Handler) GetVideos(c *gin.Context) {
	h.serveAggregated(c, sources.Filter{Kind: sources.KindYouTube})
}

func (h *Handler) serveAggregated(c *gin.Context, filter sources.Filter) {
	srcs := h.registry.List(filter)
	key := aggregator.CacheKey(filter)

	items, err := h.aggregator.Run(c.Request.Context(), srcs, key)

	response := FeedResponse{
		Items:       items,
		Count:       len(items),
		LastUpdated: time.Now().UTC(),
	}
	if entry := h.cache.Get(key); entry != nil {
		response.LastUpdated = entry.WrittenAt
	}

	if err != nil {
		if !errors.Is(err, aggregator.ErrAllSourcesFailed) {
			slog.Error("Aggregation error", "key", key, "error", err)
		}
		// Soft degradation: the caller still gets a renderable list.
		response.Warning = "all sources failed; results may be stale or empty"
	}
	if response.Items == nil {
		response.Items = []feed.Item{}
	}

	c.JSON(http.StatusOK, response)
}

// Subscribe validates a newsletter signup and hands it to the email
// collaborator.
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	email, err := newsletter.ValidateEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	if err := h.subscriber.Subscribe(c.Request.Context(), email); err != nil {
		slog.Error("Newsletter subscription failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "subscription failed, try again later"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"sources":   h.registry.Count(),
		"cache":     h.cache.Health(),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	kinds := make(map[string]int)
	priorities := make(map[string]int)
	for _, src := range h.registry.All() {
		kinds[string(src.Kind)]++
		priorities[string(src.Priority)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"sources":    h.registry.Count(),
		"categories": h.registry.Categories(),
		"kinds":      kinds,
		"priorities": priorities,
	})
}

// APIClearCache removes one cache key (?key=) or everything.
func (h *Handler) APIClearCache(c *gin.Context) {
	key := c.Query("key")
	h.cache.Clear(key)

	if key == "" {
		slog.Info("Cache cleared")
		c.JSON(http.StatusOK, gin.H{"success": true, "cleared": "all"})
		return
	}
	slog.Info("Cache key cleared", "key", key)
	c.JSON(http.StatusOK, gin.H{"success": true, "cleared": key})
}
