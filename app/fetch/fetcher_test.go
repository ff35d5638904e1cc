package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"newspulse/app/sources"
)

func rssSource(locator string) sources.Source {
	return sources.Source{
		ID:      "test-rss",
		Name:    "Test RSS",
		Kind:    sources.KindRSS,
		Locator: locator,
	}
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "newspulse-test/1.0" {
			t.Errorf("Expected custom user agent, got: %s", ua)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(nil, Options{UserAgent: "newspulse-test/1.0", Timeout: 2 * time.Second})

	result, err := fetcher.Fetch(context.Background(), rssSource(server.URL))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.SourceID != "test-rss" {
		t.Errorf("Expected source id test-rss, got: %s", result.SourceID)
	}
	if string(result.Body) != "<rss></rss>" {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if result.Status != http.StatusOK {
		t.Errorf("Expected status 200, got: %d", result.Status)
	}
	if result.ContentType != "application/rss+xml" {
		t.Errorf("Unexpected content type: %s", result.ContentType)
	}
	if result.FetchedAt.IsZero() {
		t.Error("Expected FetchedAt to be set")
	}
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(nil, Options{Timeout: 2 * time.Second})

	_, err := fetcher.Fetch(context.Background(), rssSource(server.URL))
	if err == nil {
		t.Fatal("Expected error for HTTP 500")
	}

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *fetch.Error, got: %T", err)
	}
	if fetchErr.Kind != ErrorHTTP {
		t.Errorf("Expected ErrorHTTP, got: %s", fetchErr.Kind)
	}
	if fetchErr.Status != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got: %d", fetchErr.Status)
	}
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(nil, Options{Timeout: 50 * time.Millisecond})

	started := time.Now()
	_, err := fetcher.Fetch(context.Background(), rssSource(server.URL))
	elapsed := time.Since(started)

	if err == nil {
		t.Fatal("Expected timeout error")
	}

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *fetch.Error, got: %T", err)
	}
	if fetchErr.Kind != ErrorTimeout {
		t.Errorf("Expected ErrorTimeout, got: %s", fetchErr.Kind)
	}
	if elapsed > 300*time.Millisecond {
		t.Errorf("Fetch did not respect timeout, took %v", elapsed)
	}
}

func TestFetchEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	fetcher := NewFetcher(nil, Options{Timeout: 2 * time.Second})

	_, err := fetcher.Fetch(context.Background(), rssSource(server.URL))
	if err == nil {
		t.Fatal("Expected error for empty body")
	}

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *fetch.Error, got: %T", err)
	}
	if fetchErr.Kind != ErrorInvalidResponse {
		t.Errorf("Expected ErrorInvalidResponse, got: %s", fetchErr.Kind)
	}
}

func TestFetchNetworkError(t *testing.T) {
	fetcher := NewFetcher(nil, Options{Timeout: 2 * time.Second})

	// Port 0 is never reachable
	_, err := fetcher.Fetch(context.Background(), rssSource("http://127.0.0.1:0/feed"))
	if err == nil {
		t.Fatal("Expected network error")
	}

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *fetch.Error, got: %T", err)
	}
	if fetchErr.Kind != ErrorNetwork {
		t.Errorf("Expected ErrorNetwork, got: %s", fetchErr.Kind)
	}
}

func TestRequestTargetYouTube(t *testing.T) {
	fetcher := NewFetcher(nil, Options{YouTubeAPIKey: "test-key", MaxItems: 7})

	src := sources.Source{ID: "yt", Kind: sources.KindYouTube, Locator: "UC123"}
	requestURL, accept, err := fetcher.requestTarget(src)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.HasPrefix(requestURL, "https://www.googleapis.com/youtube/v3/search?") {
		t.Errorf("Unexpected youtube URL: %s", requestURL)
	}
	for _, fragment := range []string{"channelId=UC123", "maxResults=7", "key=test-key", "order=date", "type=video"} {
		if !strings.Contains(requestURL, fragment) {
			t.Errorf("Expected %s in URL: %s", fragment, requestURL)
		}
	}
	if accept != "application/json" {
		t.Errorf("Expected JSON accept header, got: %s", accept)
	}
}

func TestRequestTargetYouTubeMissingKey(t *testing.T) {
	fetcher := NewFetcher(nil, Options{})

	src := sources.Source{ID: "yt", Kind: sources.KindYouTube, Locator: "UC123"}
	if _, _, err := fetcher.requestTarget(src); err == nil {
		t.Error("Expected error when youtube API key is not configured")
	}
}

func TestRequestTargetReddit(t *testing.T) {
	fetcher := NewFetcher(nil, Options{MaxItems: 10})

	src := sources.Source{ID: "r", Kind: sources.KindReddit, Locator: "golang"}
	requestURL, accept, err := fetcher.requestTarget(src)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if requestURL != "https://www.reddit.com/r/golang/hot.json?limit=10" {
		t.Errorf("Unexpected reddit URL: %s", requestURL)
	}
	if accept != "application/json" {
		t.Errorf("Expected JSON accept header, got: %s", accept)
	}
}
