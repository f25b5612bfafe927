// Package stats computes the dashboard rollups: the overall risk breakdown
// and the publisher/author leaderboards. Everything here is a pure function
// of the article collection it is given; derived values are never stored.
package stats

import (
	"math"

	"news-trust/internal/models"
)

// Overall computes the dashboard-wide statistics. Articles the scorer failed
// on are counted in UnscoredNews and excluded from the averages and risk
// buckets, so low averages mean low scores rather than hidden failures.
// (In compat mode every article arrives scored and UnscoredNews stays zero.)
// Empty input yields well-formed zero stats.
func Overall(articles []models.Article) models.OverallStats {
	s := models.OverallStats{TotalNews: len(articles)}
	if len(articles) == 0 {
		return s
	}

	var clickbaitSum, accuracySum int
	var scored int

	for _, a := range articles {
		if !a.Scored {
			s.UnscoredNews++
			continue
		}
		scored++
		clickbaitSum += a.ClickbaitRate
		accuracySum += a.Accuracy

		switch a.RiskLevel() {
		case models.RiskHigh:
			s.HighRiskNews++
		case models.RiskMedium:
			s.MediumRiskNews++
		default:
			s.LowRiskNews++
		}
	}

	if scored > 0 {
		s.AverageClickbaitRate = float64(clickbaitSum) / float64(scored)
		s.AverageAccuracy = float64(accuracySum) / float64(scored)
	}
	return s
}

// ByPublisher builds the publisher leaderboard.
func ByPublisher(articles []models.Article) []models.GroupStat {
	return Grouped(articles, func(a models.Article) string { return a.Publisher })
}

// ByAuthor builds the author leaderboard.
func ByAuthor(articles []models.Article) []models.GroupStat {
	return Grouped(articles, func(a models.Article) string { return a.Author })
}

// Grouped groups articles by the given key, computes per-group rounded mean
// clickbait rate and accuracy, and orders descending by mean clickbait rate.
// The sort is stable: ties keep first-encountered order. Group means cover
// scored articles only; Count covers every article in the group.
func Grouped(articles []models.Article, key func(models.Article) string) []models.GroupStat {
	type bucket struct {
		count        int
		scored       int
		clickbaitSum int
		accuracySum  int
	}

	buckets := make(map[string]*bucket)
	var order []string

	for _, a := range articles {
		k := key(a)
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			order = append(order, k)
		}
		b.count++
		if a.Scored {
			b.scored++
			b.clickbaitSum += a.ClickbaitRate
			b.accuracySum += a.Accuracy
		}
	}

	out := make([]models.GroupStat, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		stat := models.GroupStat{Name: k, Count: b.count}
		if b.scored > 0 {
			stat.ClickbaitRate = roundMean(b.clickbaitSum, b.scored)
			stat.Accuracy = roundMean(b.accuracySum, b.scored)
		}
		out = append(out, stat)
	}

	sortByClickbaitDesc(out)
	return out
}

func roundMean(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}
