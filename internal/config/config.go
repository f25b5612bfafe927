package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"news-trust/internal/models"
)

// Config holds the service configuration, loaded from the environment.
type Config struct {
	Port            string
	FeedSources     []models.FeedDescriptor
	RelayURLs       []string
	ScorerURL       string
	ScorerTimeout   time.Duration
	ScorerCompat    bool
	RefreshInterval time.Duration
	ScoreWorkers    int
	PerFeedCap      int
	AdminSecret     string
}

// The stock feed set. Overridable with NEWS_FEEDS as
// "name|url|code" entries separated by semicolons.
var defaultFeeds = []models.FeedDescriptor{
	{Name: "SBS 뉴스", URL: "https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=01", Code: "055"},
	{Name: "BBC 코리아", URL: "https://feeds.bbci.co.uk/korean/rss.xml", Code: "BBC"},
	{Name: "SBS 경제", URL: "https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=08", Code: "055"},
	{Name: "SBS 스포츠", URL: "https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=07", Code: "055"},
	{Name: "SBS 연예", URL: "https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=14", Code: "055"},
	{Name: "SBS 사회", URL: "https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=02", Code: "055"},
	{Name: "SBS 국제", URL: "https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=03", Code: "055"},
	{Name: "SBS 정치", URL: "https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=04", Code: "055"},
	{Name: "SBS IT/과학", URL: "https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=05", Code: "055"},
}

// Relay candidates, tried in order. A relay prefix is concatenated with the
// url-escaped feed URL.
var defaultRelays = []string{
	"https://api.allorigins.win/raw?url=",
	"https://cors-anywhere.herokuapp.com/",
	"https://api.codetabs.com/v1/proxy?quest=",
	"https://thingproxy.freeboard.io/fetch/",
	"https://cors.bridged.cc/",
}

// Load builds the configuration from environment variables, falling back
// to defaults that work out of the box.
func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8080"),
		FeedSources:     parseFeeds(getEnv("NEWS_FEEDS", "")),
		RelayURLs:       parseList(getEnv("RELAY_URLS", "")),
		ScorerURL:       getEnv("SCORER_URL", "http://210.119.33.7:4610/predict"),
		ScorerTimeout:   getDuration("SCORER_TIMEOUT", 10*time.Second),
		ScorerCompat:    getBool("SCORER_COMPAT_ZERO", false),
		RefreshInterval: getDuration("REFRESH_INTERVAL", time.Hour),
		ScoreWorkers:    getInt("SCORE_WORKERS", 4),
		PerFeedCap:      getInt("PER_FEED_CAP", 30),
		AdminSecret:     getEnv("ADMIN_JWT_SECRET", ""),
	}
}

func parseFeeds(raw string) []models.FeedDescriptor {
	if raw == "" {
		return defaultFeeds
	}

	var out []models.FeedDescriptor
	for _, entry := range strings.Split(raw, ";") {
		parts := strings.Split(strings.TrimSpace(entry), "|")
		if len(parts) < 2 {
			continue
		}
		feed := models.FeedDescriptor{Name: parts[0], URL: parts[1]}
		if len(parts) > 2 {
			feed.Code = parts[2]
		}
		out = append(out, feed)
	}
	if len(out) == 0 {
		return defaultFeeds
	}
	return out
}

func parseList(raw string) []string {
	if raw == "" {
		return defaultRelays
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultRelays
	}
	return out
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
