package models

// RiskLevel is the derived three-way classification of an article.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

const (
	// Risk values below mediumRiskThreshold are low, values at or above
	// highRiskThreshold are high, everything in between is medium.
	mediumRiskThreshold = 30
	highRiskThreshold   = 60
)

// RiskLevelForValue buckets a risk value (0-100) into low/medium/high.
func RiskLevelForValue(value int) RiskLevel {
	switch {
	case value >= highRiskThreshold:
		return RiskHigh
	case value >= mediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ParseRiskLevel validates a risk level string from the API. The empty
// string and "all" mean no restriction and return ok=false.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), true
	default:
		return "", false
	}
}
