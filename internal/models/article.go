package models

import (
	"time"

	"github.com/google/uuid"
)

// Article represents one ingested, sanitized, and scored news item.
// Articles are immutable once a cycle completes; a refresh replaces the
// whole collection rather than mutating it.
type Article struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Publisher   string    `json:"publisher"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url"`

	// ClickbaitRate and Accuracy are percentages in [0,100].
	ClickbaitRate int `json:"clickbait_rate"`
	Accuracy      int `json:"accuracy"`

	// Scored reports whether the scoring service actually produced the two
	// values above. When false both are zero, which is NOT the same thing as
	// a genuinely neutral article; aggregation treats the two cases
	// differently unless compat mode is on.
	Scored bool `json:"scored"`
}

// RiskValue is the shared risk formula: max(clickbaitRate, 100-accuracy).
// Every statistic and filter must derive risk from this and nothing else.
func (a Article) RiskValue() int {
	if inverse := 100 - a.Accuracy; inverse > a.ClickbaitRate {
		return inverse
	}
	return a.ClickbaitRate
}

// RiskLevel classifies an article into the three risk buckets.
func (a Article) RiskLevel() RiskLevel {
	return RiskLevelForValue(a.RiskValue())
}
