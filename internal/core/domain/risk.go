package domain

// RiskLevel is one of the four fixed risk bands.
type RiskLevel string

const (
	// RiskLow covers scores below 25.
	RiskLow RiskLevel = "low"

	// RiskMedium covers scores in [25,50).
	RiskMedium RiskLevel = "medium"

	// RiskHigh covers scores in [50,75).
	RiskHigh RiskLevel = "high"

	// RiskCritical covers scores of 75 and above.
	RiskCritical RiskLevel = "critical"
)

// riskRank orders the bands LOW < MEDIUM < HIGH < CRITICAL.
var riskRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// Rank returns the ordinal position of the level. Unknown levels rank
// lowest so a malformed stored value can never trigger an alert.
func (l RiskLevel) Rank() int {
	return riskRank[l]
}

// AtLeast reports whether the level meets or exceeds the threshold.
func (l RiskLevel) AtLeast(threshold RiskLevel) bool {
	return l.Rank() >= threshold.Rank()
}

// ParseRiskLevel validates a risk level string.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return RiskLevel(s), nil
	}
	return "", ErrInvalidInput
}
