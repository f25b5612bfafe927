package stats

import (
	"testing"

	"news-trust/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(publisher, author string, clickbait, accuracy int) models.Article {
	return models.Article{
		Publisher:     publisher,
		Author:        author,
		ClickbaitRate: clickbait,
		Accuracy:      accuracy,
		Scored:        true,
	}
}

func TestOverallEmptyInput(t *testing.T) {
	s := Overall(nil)

	assert.Equal(t, models.OverallStats{}, s)
	assert.Zero(t, s.AverageClickbaitRate)
	assert.Zero(t, s.AverageAccuracy)
}

func TestOverallRiskBuckets(t *testing.T) {
	articles := []models.Article{
		scored("A", "a", 60, 100), // risk 60 -> high
		scored("A", "a", 59, 100), // risk 59 -> medium
		scored("A", "a", 0, 71),   // risk 29 -> low
		scored("A", "a", 0, 70),   // risk 30 -> medium
	}

	s := Overall(articles)

	assert.Equal(t, 4, s.TotalNews)
	assert.Equal(t, 1, s.HighRiskNews)
	assert.Equal(t, 2, s.MediumRiskNews)
	assert.Equal(t, 1, s.LowRiskNews)
	assert.Equal(t, 0, s.UnscoredNews)
	assert.Equal(t, s.TotalNews, s.HighRiskNews+s.MediumRiskNews+s.LowRiskNews+s.UnscoredNews)
}

func TestOverallBucketTotalsAlwaysMatch(t *testing.T) {
	articles := []models.Article{
		scored("A", "a", 10, 90),
		scored("B", "b", 45, 55),
		scored("C", "c", 90, 10),
		{Publisher: "D", Author: "d"}, // unscored
	}

	s := Overall(articles)
	assert.Equal(t, s.TotalNews, s.HighRiskNews+s.MediumRiskNews+s.LowRiskNews+s.UnscoredNews)
}

func TestOverallExcludesUnscoredFromAverages(t *testing.T) {
	articles := []models.Article{
		scored("A", "a", 80, 40),
		scored("A", "a", 40, 80),
		{Publisher: "A", Author: "a"}, // scoring failed, zeros
	}

	s := Overall(articles)

	assert.Equal(t, 3, s.TotalNews)
	assert.Equal(t, 1, s.UnscoredNews)
	assert.InDelta(t, 60.0, s.AverageClickbaitRate, 1e-9, "unscored zeros must not drag the mean")
	assert.InDelta(t, 60.0, s.AverageAccuracy, 1e-9)
}

func TestOverallAveragesUnrounded(t *testing.T) {
	articles := []models.Article{
		scored("A", "a", 1, 0),
		scored("A", "a", 2, 0),
		scored("A", "a", 2, 0),
	}

	s := Overall(articles)
	assert.InDelta(t, 5.0/3.0, s.AverageClickbaitRate, 1e-9)
}

func TestGroupedOrderingAndMeans(t *testing.T) {
	articles := []models.Article{
		scored("Calm Courier", "x", 10, 90),
		scored("Calm Courier", "x", 20, 80),
		scored("Loud Gazette", "y", 80, 30),
		scored("Loud Gazette", "y", 90, 20),
		scored("Middle Post", "z", 50, 50),
	}

	groups := ByPublisher(articles)
	require.Len(t, groups, 3)

	// Strictly descending by mean clickbait rate.
	assert.Equal(t, "Loud Gazette", groups[0].Name)
	assert.Equal(t, 85, groups[0].ClickbaitRate)
	assert.Equal(t, 25, groups[0].Accuracy)
	assert.Equal(t, "Middle Post", groups[1].Name)
	assert.Equal(t, "Calm Courier", groups[2].Name)
	assert.Equal(t, 15, groups[2].ClickbaitRate)

	for i := 1; i < len(groups); i++ {
		assert.GreaterOrEqual(t, groups[i-1].ClickbaitRate, groups[i].ClickbaitRate)
	}
}

func TestGroupedRoundsToNearest(t *testing.T) {
	articles := []models.Article{
		scored("P", "a", 1, 0),
		scored("P", "a", 2, 0),
	}

	groups := ByPublisher(articles)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].ClickbaitRate, "1.5 rounds to 2")
}

func TestGroupedStableTies(t *testing.T) {
	articles := []models.Article{
		scored("First Seen", "a", 50, 50),
		scored("Second Seen", "b", 50, 50),
	}

	groups := ByPublisher(articles)
	require.Len(t, groups, 2)
	assert.Equal(t, "First Seen", groups[0].Name)
	assert.Equal(t, "Second Seen", groups[1].Name)
}

func TestByAuthorGroupsOnAuthor(t *testing.T) {
	articles := []models.Article{
		scored("P1", "shared reporter", 40, 60),
		scored("P2", "shared reporter", 60, 40),
	}

	groups := ByAuthor(articles)
	require.Len(t, groups, 1)
	assert.Equal(t, "shared reporter", groups[0].Name)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, 50, groups[0].ClickbaitRate)
}
