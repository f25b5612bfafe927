// Package feeds retrieves RSS feed items through a list of relay endpoints.
//
// The dashboard's feeds sit behind cross-origin restrictions, so every fetch
// goes through a public relay. Relays are flaky: the fetcher models them as
// an ordered candidate list where the first successful parse wins and
// exhausting the list is terminal for that feed.
package feeds

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"news-trust/internal/models"
)

const (
	// maxItemsPerFeed bounds memory per feed; the pipeline applies its own
	// smaller cap when merging.
	maxItemsPerFeed = 1000

	// maxFeedBodyBytes caps how much relay response we are willing to read.
	maxFeedBodyBytes = 2 << 20 // 2 MiB

	defaultTimeout = 10 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Fetcher retrieves and parses one feed at a time through the configured
// relays.
type Fetcher struct {
	client *http.Client
	relays []string
}

// NewFetcher creates a fetcher for the given relay base URLs. A nil client
// gets a default with a bounded timeout. An empty relay list means feeds are
// fetched directly.
func NewFetcher(relays []string, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Fetcher{client: client, relays: relays}
}

// Fetch retrieves the feed's items, trying each relay in order until one
// returns well-formed XML. A relay is never retried. When every relay fails
// the returned error describes the last failure; the caller treats the feed
// as empty.
func (f *Fetcher) Fetch(ctx context.Context, feed models.FeedDescriptor) ([]Item, error) {
	var lastErr error

	for _, candidate := range f.candidates(feed.URL) {
		items, err := f.fetchOnce(ctx, candidate)
		if err != nil {
			log.Printf("⚠️  feed %s: relay attempt failed: %v", feed.Name, err)
			lastErr = err
			continue
		}
		return items, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no relays configured and no direct URL")
	}
	return nil, fmt.Errorf("feed %s: all relays exhausted: %w", feed.Name, lastErr)
}

// candidates builds the ordered list of request URLs for a feed: one per
// relay, or the feed URL itself when no relays are configured.
func (f *Fetcher) candidates(feedURL string) []string {
	if len(f.relays) == 0 {
		return []string{feedURL}
	}
	urls := make([]string, 0, len(f.relays))
	for _, relay := range f.relays {
		urls = append(urls, relay+url.QueryEscape(feedURL))
	}
	return urls
}

func (f *Fetcher) fetchOnce(ctx context.Context, requestURL string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	items, err := parseRSS(io.LimitReader(resp.Body, maxFeedBodyBytes), maxItemsPerFeed)
	if err != nil {
		return nil, fmt.Errorf("parse feed xml: %w", err)
	}
	return items, nil
}
