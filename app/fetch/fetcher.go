package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"newspulse/app/sources"
)

// Result is the raw payload of one successful source fetch. It only lives
// for the duration of an aggregation cycle.
type Result struct {
	SourceID    string
	FetchedAt   time.Time
	Body        []byte
	ContentType string
	Status      int
}

// Options configures request building. Values come from cfg at wiring time.
type Options struct {
	UserAgent     string
	Timeout       time.Duration
	YouTubeAPIKey string
	MaxItems      int // upstream result limit for API sources
}

// Fetcher issues one HTTP request per source. It keeps no state across
// calls and never retries; fallback decisions belong to the orchestrator.
type Fetcher struct {
	client *http.Client
	opts   Options
}

func NewFetcher(client *http.Client, opts Options) *Fetcher {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxItems == 0 {
		opts.MaxItems = 10
	}
	return &Fetcher{client: client, opts: opts}
}

// Fetch retrieves the raw payload for a single source. The request carries
// its own timeout, independent of sibling fetches.
func (f *Fetcher) Fetch(ctx context.Context, src sources.Source) (*Result, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := f.buildRequest(timeoutCtx, src)
	if err != nil {
		return nil, &Error{Kind: ErrorInvalidResponse, SourceID: src.ID, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || timeoutCtx.Err() == context.DeadlineExceeded {
			return nil, &Error{Kind: ErrorTimeout, SourceID: src.ID, Err: err}
		}
		return nil, &Error{Kind: ErrorNetwork, SourceID: src.ID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: ErrorHTTP, SourceID: src.ID, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: ErrorNetwork, SourceID: src.ID, Err: err}
	}
	if len(body) == 0 {
		return nil, &Error{Kind: ErrorInvalidResponse, SourceID: src.ID, Err: fmt.Errorf("empty response body")}
	}

	return &Result{
		SourceID:    src.ID,
		FetchedAt:   time.Now().UTC(),
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		Status:      resp.StatusCode,
	}, nil
}

func (f *Fetcher) buildRequest(ctx context.Context, src sources.Source) (*http.Request, error) {
	requestURL, accept, err := f.requestTarget(src)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", accept)

	return req, nil
}

func (f *Fetcher) requestTarget(src sources.Source) (requestURL, accept string, err error) {
	switch src.Kind {
	case sources.KindRSS:
		return src.Locator, "application/rss+xml, application/atom+xml, application/xml, text/xml", nil

	case sources.KindYouTube:
		if f.opts.YouTubeAPIKey == "" {
			return "", "", fmt.Errorf("youtube API key is not configured")
		}
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("channelId", src.Locator)
		params.Set("maxResults", fmt.Sprintf("%d", f.opts.MaxItems))
		params.Set("order", "date")
		params.Set("type", "video")
		params.Set("key", f.opts.YouTubeAPIKey)
		return "https://www.googleapis.com/youtube/v3/search?" + params.Encode(), "application/json", nil

	case sources.KindReddit:
		return fmt.Sprintf("https://www.reddit.com/r/%s/hot.json?limit=%d", src.Locator, f.opts.MaxItems), "application/json", nil

	default:
		return "", "", fmt.Errorf("unknown source kind: %s", src.Kind)
	}
}
