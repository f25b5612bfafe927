package feeds

import (
	"encoding/xml"
	"io"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// Item is one raw feed entry before sanitization and scoring. Fields carry
// the documented placeholders when the feed omits them.
type Item struct {
	Title       string
	Link        string
	Description string
	PubDate     string
}

const (
	placeholderTitle = "(untitled)"
	placeholderLink  = "#"
)

// rssDocument matches the subset of RSS 2.0 the dashboard consumes.
type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// parseRSS decodes feed XML into items, applying per-field placeholders.
// The decoder is charset-aware because several Korean feeds still serve
// EUC-KR.
func parseRSS(r io.Reader, maxItems int) ([]Item, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	var doc rssDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}

	entries := doc.Channel.Items
	if len(entries) > maxItems {
		entries = entries[:maxItems]
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		item := Item{
			Title:       strings.TrimSpace(entry.Title),
			Link:        strings.TrimSpace(entry.Link),
			Description: strings.TrimSpace(entry.Description),
			PubDate:     strings.TrimSpace(entry.PubDate),
		}
		if item.Title == "" {
			item.Title = placeholderTitle
		}
		if item.Link == "" {
			item.Link = strings.TrimSpace(entry.GUID)
		}
		if item.Link == "" {
			item.Link = placeholderLink
		}
		if item.Description == "" {
			item.Description = item.Title
		}
		items = append(items, item)
	}

	return items, nil
}

// pubDateLayouts covers the date formats seen across the configured feeds.
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParsePubDate parses an RSS pubDate. ok is false when no known layout
// matches; callers fall back to the ingestion time.
func ParsePubDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
