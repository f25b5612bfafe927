package models

// OverallStats is the dashboard-wide rollup over an article collection.
// Averages stay unrounded; presentation rounds them.
type OverallStats struct {
	TotalNews            int     `json:"total_news"`
	AverageClickbaitRate float64 `json:"average_clickbait_rate"`
	AverageAccuracy      float64 `json:"average_accuracy"`
	HighRiskNews         int     `json:"high_risk_news"`
	MediumRiskNews       int     `json:"medium_risk_news"`
	LowRiskNews          int     `json:"low_risk_news"`

	// UnscoredNews counts articles the scoring service failed on. With
	// compat mode off, high+medium+low+unscored == total; with it on,
	// unscored is always zero and high+medium+low == total.
	UnscoredNews int `json:"unscored_news"`
}

// GroupStat is one row of a publisher or author leaderboard. ClickbaitRate
// and Accuracy are per-group means rounded to the nearest integer.
type GroupStat struct {
	Name          string `json:"name"`
	Count         int    `json:"count"`
	ClickbaitRate int    `json:"clickbait_rate"`
	Accuracy      int    `json:"accuracy"`
}

// FeedDescriptor names one configured RSS source: a display name, the feed
// URL, and the publisher attribution code carried through from the source
// configuration.
type FeedDescriptor struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Code string `json:"code"`
}
