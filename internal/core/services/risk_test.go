package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
)

func TestRiskScore_ModifiedLiabilityClause(t *testing.T) {
	// 10 x 1.0 x (1 + 2 x 0.5) = 20, scaled x3 = 60.
	score := RiskScore(domain.CategoryLiability, domain.ChangeModified, 0.5)
	assert.Equal(t, 60, score)
	assert.Equal(t, domain.RiskHigh, ScoreToLevel(score))
}

func TestRiskScore_AddedMarketingClause(t *testing.T) {
	// 3 x 0.8 x (1 + 2 x 0.1) = 2.88, scaled x3 = 9 (rounded).
	score := RiskScore(domain.CategoryMarketing, domain.ChangeAdded, 0.9)
	assert.Equal(t, 9, score)
	assert.Equal(t, domain.RiskLow, ScoreToLevel(score))
}

func TestRiskScore_RemovedLiabilityClauseHitsCap(t *testing.T) {
	// 10 x 1.5 x 3 = 45, scaled x3 = 135, capped at 100.
	score := RiskScore(domain.CategoryLiability, domain.ChangeRemoved, 0)
	assert.Equal(t, 100, score)
	assert.Equal(t, domain.RiskCritical, ScoreToLevel(score))
}

func TestRiskScore_UnclassifiedCategory(t *testing.T) {
	// 2 x 1.0 x (1 + 2 x 0.5) = 4, scaled x3 = 12.
	score := RiskScore(domain.Category(""), domain.ChangeModified, 0.5)
	assert.Equal(t, 12, score)
}

func TestRiskScore_LowerSimilarityScoresHigher(t *testing.T) {
	high := RiskScore(domain.CategoryPayment, domain.ChangeModified, 0.3)
	low := RiskScore(domain.CategoryPayment, domain.ChangeModified, 0.9)
	assert.Greater(t, high, low)
}

func TestRiskScore_KindOrdering(t *testing.T) {
	// At equal category and similarity, removal outranks rewrite
	// outranks modification outranks addition.
	const sim = 0.5
	removed := RiskScore(domain.CategoryTermination, domain.ChangeRemoved, sim)
	rewritten := RiskScore(domain.CategoryTermination, domain.ChangeRewritten, sim)
	modified := RiskScore(domain.CategoryTermination, domain.ChangeModified, sim)
	added := RiskScore(domain.CategoryTermination, domain.ChangeAdded, sim)

	assert.Greater(t, removed, rewritten)
	assert.Greater(t, rewritten, modified)
	assert.Greater(t, modified, added)
}

func TestScoreToLevel_Boundaries(t *testing.T) {
	assert.Equal(t, domain.RiskLow, ScoreToLevel(0))
	assert.Equal(t, domain.RiskLow, ScoreToLevel(24))
	assert.Equal(t, domain.RiskMedium, ScoreToLevel(25))
	assert.Equal(t, domain.RiskMedium, ScoreToLevel(49))
	assert.Equal(t, domain.RiskHigh, ScoreToLevel(50))
	assert.Equal(t, domain.RiskHigh, ScoreToLevel(74))
	assert.Equal(t, domain.RiskCritical, ScoreToLevel(75))
	assert.Equal(t, domain.RiskCritical, ScoreToLevel(100))
}

func TestClassify_RuleBasedFallback(t *testing.T) {
	classifier := NewRiskClassifier(nil)

	change := &domain.Change{Kind: domain.ChangeModified, Similarity: 0.5}
	clause := &domain.Clause{Category: domain.CategoryLiability, Text: "liability cap clause"}

	assessment := classifier.Classify(context.Background(), change, clause)
	assert.Equal(t, domain.RiskHigh, assessment.Level)
	assert.Equal(t, 60, assessment.Score)
	assert.Equal(t,
		"A clause was modified in the liability section. This affects your legal liability and potential damages. Review this change carefully before accepting.",
		assessment.Explanation)
}

func TestClassify_NilClause(t *testing.T) {
	classifier := NewRiskClassifier(nil)

	change := &domain.Change{Kind: domain.ChangeRemoved}
	assessment := classifier.Classify(context.Background(), change, nil)

	assert.NotEmpty(t, assessment.Explanation)
	assert.Contains(t, assessment.Explanation, "in the contract section")
}

func TestClassify_AssistantExplanationPreferred(t *testing.T) {
	assistant := &stubAssistant{explanation: "this halves the damages cap"}
	classifier := NewRiskClassifier(assistant)

	change := &domain.Change{Kind: domain.ChangeModified, Similarity: 0.5}
	clause := &domain.Clause{Category: domain.CategoryLiability}

	assessment := classifier.Classify(context.Background(), change, clause)
	assert.Equal(t, "this halves the damages cap", assessment.Explanation)
}

func TestClassify_AssistantFailureFallsBack(t *testing.T) {
	assistant := &stubAssistant{unavailable: true}
	classifier := NewRiskClassifier(assistant)

	change := &domain.Change{Kind: domain.ChangeAdded}
	clause := &domain.Clause{Category: domain.CategoryMarketing}

	assessment := classifier.Classify(context.Background(), change, clause)
	assert.Contains(t, assessment.Explanation, "A new clause was added")
	assert.Contains(t, assessment.Explanation, "marketing")
}

func TestRuleBasedExplanation(t *testing.T) {
	got := RuleBasedExplanation(domain.ChangeRemoved, domain.CategoryDataUsage, domain.RiskCritical)
	assert.Equal(t,
		"An existing clause was removed in the data_usage section. This impacts how your data is collected, used, or shared. Review this change carefully before accepting.",
		got)

	got = RuleBasedExplanation(domain.ChangeAdded, domain.CategoryMarketing, domain.RiskLow)
	assert.Contains(t, got, "This is a minor change.")

	got = RuleBasedExplanation(domain.ChangeModified, domain.CategoryPayment, domain.RiskMedium)
	assert.Contains(t, got, "Consider reviewing this change.")
}

func TestShouldAlert(t *testing.T) {
	require.True(t, ShouldAlert(domain.RiskCritical, domain.RiskHigh))
	require.True(t, ShouldAlert(domain.RiskHigh, domain.RiskHigh))
	require.False(t, ShouldAlert(domain.RiskMedium, domain.RiskHigh))
	require.True(t, ShouldAlert(domain.RiskMedium, domain.RiskLow))
}
