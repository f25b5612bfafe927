package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"news-trust/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Sample</title>
    <item>
      <title>First headline</title>
      <link>https://news.example.com/1</link>
      <description>First body</description>
      <pubDate>Mon, 02 Jan 2006 15:04:05 +0900</pubDate>
    </item>
    <item>
      <title>Second headline</title>
      <guid>https://news.example.com/2</guid>
    </item>
  </channel>
</rss>`

func testDescriptor(url string) models.FeedDescriptor {
	return models.FeedDescriptor{Name: "Sample News", URL: url, Code: "055"}
}

func TestFetcherRelayFallback(t *testing.T) {
	var firstHits, secondHits int

	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		firstHits++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer first.Close()

	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondHits++
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer second.Close()

	f := NewFetcher([]string{first.URL + "/?u=", second.URL + "/?u="}, nil)

	items, err := f.Fetch(context.Background(), testDescriptor("https://feed.example.com/rss"))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 1, firstHits, "failed relay must not be retried")
	assert.Equal(t, 1, secondHits)
	assert.Equal(t, "First headline", items[0].Title)
	assert.Equal(t, "https://news.example.com/1", items[0].Link)
}

func TestFetcherMalformedXMLAdvancesRelay(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>not a feed</body></html>"))
	}))
	defer bad.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer good.Close()

	f := NewFetcher([]string{bad.URL + "/?u=", good.URL + "/?u="}, nil)

	items, err := f.Fetch(context.Background(), testDescriptor("https://feed.example.com/rss"))
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestFetcherAllRelaysExhausted(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	f := NewFetcher([]string{down.URL + "/a?u=", down.URL + "/b?u="}, nil)

	items, err := f.Fetch(context.Background(), testDescriptor("https://feed.example.com/rss"))
	assert.Error(t, err)
	assert.Nil(t, items)
}

func TestFetcherDirectWithoutRelays(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer origin.Close()

	f := NewFetcher(nil, nil)

	items, err := f.Fetch(context.Background(), testDescriptor(origin.URL))
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestParseRSSFieldDefaults(t *testing.T) {
	feed := `<rss><channel>
	  <item></item>
	  <item><title>Titled</title></item>
	</channel></rss>`

	items, err := parseRSS(strings.NewReader(feed), maxItemsPerFeed)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "(untitled)", items[0].Title)
	assert.Equal(t, "#", items[0].Link)
	assert.Equal(t, "(untitled)", items[0].Description, "description falls back to title")

	assert.Equal(t, "Titled", items[1].Title)
	assert.Equal(t, "Titled", items[1].Description)
}

func TestParseRSSGUIDFallback(t *testing.T) {
	feed := `<rss><channel>
	  <item><title>A</title><guid>https://news.example.com/guid-only</guid></item>
	</channel></rss>`

	items, err := parseRSS(strings.NewReader(feed), maxItemsPerFeed)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://news.example.com/guid-only", items[0].Link)
}

func TestParseRSSItemCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("<rss><channel>")
	for range 5 {
		b.WriteString("<item><title>x</title></item>")
	}
	b.WriteString("</channel></rss>")

	items, err := parseRSS(strings.NewReader(b.String()), 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestParsePubDate(t *testing.T) {
	t.Run("rfc1123z", func(t *testing.T) {
		got, ok := ParsePubDate("Mon, 02 Jan 2006 15:04:05 +0900")
		require.True(t, ok)
		assert.Equal(t, 2006, got.Year())
	})

	t.Run("rfc3339", func(t *testing.T) {
		got, ok := ParsePubDate("2024-05-01T09:30:00Z")
		require.True(t, ok)
		assert.Equal(t, time.May, got.Month())
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := ParsePubDate("not a date")
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := ParsePubDate("")
		assert.False(t, ok)
	})
}
