package stats

import (
	"sort"

	"news-trust/internal/models"
)

// sortByClickbaitDesc orders leaderboard rows by mean clickbait rate,
// highest first. Stable so that equal rates keep input order.
func sortByClickbaitDesc(groups []models.GroupStat) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].ClickbaitRate > groups[j].ClickbaitRate
	})
}
