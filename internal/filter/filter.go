// Package filter derives filtered, sorted views of an article collection.
// Apply never mutates its input; callers recompute statistics from the
// returned view when displaying filtered rollups.
package filter

import (
	"sort"
	"strings"
	"time"

	"news-trust/internal/models"
)

// Sort keys accepted by Spec.SortBy.
const (
	SortByPublishedAt = "published_at"
	SortByClickbait   = "clickbait_rate"
	SortByAccuracy    = "accuracy"
	SortByTitle       = "title"
)

// Sort orders accepted by Spec.SortOrder.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Date range windows accepted by Spec.DateRange. Week and month are rolling
// windows, not calendar-aligned; today means the same calendar date as now.
const (
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
)

// all is the wildcard value meaning "no restriction" for any field.
const all = "all"

// Spec describes one filtered view. Zero or "all" fields restrict nothing;
// populated fields compose conjunctively. RiskLevel only ever matches scored
// articles, mirroring how the risk buckets are aggregated.
type Spec struct {
	Search    string `form:"search" json:"search"`
	Publisher string `form:"publisher" json:"publisher"`
	Author    string `form:"author" json:"author"`
	RiskLevel string `form:"risk" json:"risk"`
	DateRange string `form:"range" json:"range"`
	SortBy    string `form:"sort_by" json:"sort_by"`
	SortOrder string `form:"order" json:"order"`
}

// Apply filters and sorts articles according to the spec, evaluated against
// now for the date windows. The result is a fresh slice; the input is left
// untouched and equal sort keys keep their relative input order.
func Apply(articles []models.Article, spec Spec, now time.Time) []models.Article {
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if matches(a, spec, now) {
			out = append(out, a)
		}
	}
	sortArticles(out, spec)
	return out
}

func matches(a models.Article, spec Spec, now time.Time) bool {
	if term := strings.ToLower(strings.TrimSpace(spec.Search)); term != "" {
		title := strings.ToLower(a.Title)
		content := strings.ToLower(a.Content)
		if !strings.Contains(title, term) && !strings.Contains(content, term) {
			return false
		}
	}

	if restricts(spec.Publisher) && a.Publisher != spec.Publisher {
		return false
	}
	if restricts(spec.Author) && a.Author != spec.Author {
		return false
	}

	if restricts(spec.RiskLevel) {
		// Unscored articles carry no meaningful risk value and are
		// excluded from all risk buckets, matching the aggregation side.
		if !a.Scored {
			return false
		}
		level, ok := models.ParseRiskLevel(spec.RiskLevel)
		if !ok || a.RiskLevel() != level {
			return false
		}
	}

	if restricts(spec.DateRange) && !inDateRange(a.PublishedAt, spec.DateRange, now) {
		return false
	}

	return true
}

func restricts(value string) bool {
	return value != "" && value != all
}

func inDateRange(published time.Time, window string, now time.Time) bool {
	switch window {
	case RangeToday:
		// Articles are stored in UTC; compare calendar dates in UTC
		// regardless of the host's location.
		py, pm, pd := published.UTC().Date()
		ny, nm, nd := now.UTC().Date()
		return py == ny && pm == nm && pd == nd
	case RangeWeek:
		return !published.Before(now.Add(-7 * 24 * time.Hour))
	case RangeMonth:
		return !published.Before(now.Add(-30 * 24 * time.Hour))
	default:
		return true
	}
}

func sortArticles(articles []models.Article, spec Spec) {
	asc := spec.SortOrder == OrderAsc

	var less func(a, b models.Article) bool
	switch spec.SortBy {
	case SortByClickbait:
		less = func(a, b models.Article) bool { return a.ClickbaitRate < b.ClickbaitRate }
	case SortByAccuracy:
		less = func(a, b models.Article) bool { return a.Accuracy < b.Accuracy }
	case SortByTitle:
		less = func(a, b models.Article) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	default: // published_at
		less = func(a, b models.Article) bool { return a.PublishedAt.Before(b.PublishedAt) }
	}

	sort.SliceStable(articles, func(i, j int) bool {
		if asc {
			return less(articles[i], articles[j])
		}
		return less(articles[j], articles[i])
	})
}
