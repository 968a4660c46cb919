package services

import (
	"context"
	"fmt"
	"math"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
	"github.com/gautamkumar30/kontract.ai/internal/core/ports/driven"
	"github.com/gautamkumar30/kontract.ai/internal/logger"
)

// unclassifiedWeight is the category weight for clauses that matched no
// taxonomy category.
const unclassifiedWeight = 2

// categoryRiskWeights scores how sensitive each taxonomy category is.
var categoryRiskWeights = map[domain.Category]float64{
	domain.CategoryLiability:            10,
	domain.CategoryDataUsage:            10,
	domain.CategoryIntellectualProperty: 8,
	domain.CategoryTermination:          7,
	domain.CategoryPayment:              7,
	domain.CategoryJurisdiction:         6,
	domain.CategoryServiceLevel:         5,
	domain.CategoryMarketing:            3,
}

// changeKindWeights scores how alarming each kind of change is.
var changeKindWeights = map[domain.ChangeKind]float64{
	domain.ChangeRemoved:   1.5,
	domain.ChangeRewritten: 1.3,
	domain.ChangeModified:  1.0,
	domain.ChangeAdded:     0.8,
}

// categoryImpacts are the per-category phrases of the rule-based
// explanation fallback.
var categoryImpacts = map[domain.Category]string{
	domain.CategoryLiability:            "This affects your legal liability and potential damages.",
	domain.CategoryDataUsage:            "This impacts how your data is collected, used, or shared.",
	domain.CategoryTermination:          "This changes the terms for ending the contract.",
	domain.CategoryJurisdiction:         "This affects which laws apply and where disputes are resolved.",
	domain.CategoryPayment:              "This impacts pricing, billing, or refund terms.",
	domain.CategoryIntellectualProperty: "This affects ownership and usage rights.",
	domain.CategoryServiceLevel:         "This changes service guarantees and uptime commitments.",
	domain.CategoryMarketing:            "This affects marketing communications and promotional usage.",
}

// changeDescriptions are the per-kind phrases of the fallback.
var changeDescriptions = map[domain.ChangeKind]string{
	domain.ChangeAdded:     "A new clause was added",
	domain.ChangeRemoved:   "An existing clause was removed",
	domain.ChangeModified:  "A clause was modified",
	domain.ChangeRewritten: "A clause was significantly rewritten",
}

// RiskAssessment is the classifier's verdict on one change.
type RiskAssessment struct {
	// Level is the risk band.
	Level domain.RiskLevel

	// Score is the integer risk score in [0,100].
	Score int

	// Explanation tells the reader why the change matters. Never empty.
	Explanation string
}

// RiskClassifier scores detected changes and explains them. The
// assistant is optional; the deterministic template fallback guarantees
// a non-empty explanation either way.
type RiskClassifier struct {
	assistant driven.Assistant
}

// NewRiskClassifier creates a risk classifier. assistant may be nil.
func NewRiskClassifier(assistant driven.Assistant) *RiskClassifier {
	return &RiskClassifier{assistant: assistant}
}

// Classify assesses one change in the context of the clause it touches
// (the new clause when present, otherwise the removed one).
func (c *RiskClassifier) Classify(ctx context.Context, change *domain.Change, clause *domain.Clause) RiskAssessment {
	var category domain.Category
	var clauseText string
	if clause != nil {
		category = clause.Category
		clauseText = clause.Text
	}

	score := RiskScore(category, change.Kind, change.Similarity)
	level := ScoreToLevel(score)

	return RiskAssessment{
		Level:       level,
		Score:       score,
		Explanation: c.explain(ctx, change, category, clauseText, level),
	}
}

// RiskScore computes the integer risk score in [0,100]:
// categoryWeight x kindWeight x (1 + 2 x (1 - similarity)), scaled by 3
// and capped at 100. Lower similarity means a bigger change and a higher
// score.
func RiskScore(category domain.Category, kind domain.ChangeKind, similarity float64) int {
	categoryWeight, ok := categoryRiskWeights[category]
	if !ok {
		categoryWeight = unclassifiedWeight
	}
	kindWeight, ok := changeKindWeights[kind]
	if !ok {
		kindWeight = 1.0
	}

	magnitude := 1.0 - similarity
	score := categoryWeight * kindWeight * (1 + 2*magnitude)

	final := int(math.Round(score * 3))
	if final > 100 {
		final = 100
	}
	return final
}

// ScoreToLevel maps a score to its risk band. Bands are fixed half-open
// integer intervals: >=75 critical, >=50 high, >=25 medium, else low.
func ScoreToLevel(score int) domain.RiskLevel {
	switch {
	case score >= 75:
		return domain.RiskCritical
	case score >= 50:
		return domain.RiskHigh
	case score >= 25:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// explain tries the assistant first and falls back to the rule-based
// template. The fallback always produces a non-empty sentence.
func (c *RiskClassifier) explain(ctx context.Context, change *domain.Change, category domain.Category, clauseText string, level domain.RiskLevel) string {
	if c.assistant != nil {
		if explanation, ok := c.assistant.ExplainRisk(ctx, clauseText, category, change.Summary); ok && explanation != "" {
			return explanation
		}
		logger.Debug("assistant explanation unavailable, using rule-based fallback")
	}
	return RuleBasedExplanation(change.Kind, category, level)
}

// RuleBasedExplanation composes the deterministic fallback explanation
// from the per-category impact, per-kind description, and per-level
// urgency phrases.
func RuleBasedExplanation(kind domain.ChangeKind, category domain.Category, level domain.RiskLevel) string {
	impact, ok := categoryImpacts[category]
	if !ok {
		impact = "This may affect your contract terms."
	}
	description, ok := changeDescriptions[kind]
	if !ok {
		description = "A change was detected"
	}

	var urgency string
	switch {
	case level.AtLeast(domain.RiskHigh):
		urgency = "Review this change carefully before accepting."
	case level == domain.RiskMedium:
		urgency = "Consider reviewing this change."
	default:
		urgency = "This is a minor change."
	}

	section := string(category)
	if section == "" {
		section = "contract"
	}
	return fmt.Sprintf("%s in the %s section. %s %s", description, section, impact, urgency)
}

// ShouldAlert reports whether a change at the given risk level warrants
// an alert against the configured threshold.
func ShouldAlert(level, threshold domain.RiskLevel) bool {
	return level.AtLeast(threshold)
}
