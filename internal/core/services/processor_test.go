package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gautamkumar30/kontract.ai/internal/adapters/driven/storage/memory"
	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
	"github.com/gautamkumar30/kontract.ai/internal/core/ports/driven"
)

// stubAssistant is a canned driven.Assistant for pipeline tests.
type stubAssistant struct {
	similarity  float64
	summary     string
	explanation string
	unavailable bool
}

var _ driven.Assistant = (*stubAssistant)(nil)

func (s *stubAssistant) Similarity(_ context.Context, _, _ string) (float64, bool) {
	if s.unavailable {
		return 0, false
	}
	return s.similarity, true
}

func (s *stubAssistant) SummariseChange(_ context.Context, _, _ string, _ domain.ChangeKind) (string, bool) {
	if s.unavailable {
		return "", false
	}
	return s.summary, true
}

func (s *stubAssistant) ExplainRisk(_ context.Context, _ string, _ domain.Category, _ string) (string, bool) {
	if s.unavailable {
		return "", false
	}
	return s.explanation, true
}

const liabilityV1 = `1. Limitation of Liability. The provider's total aggregate liability for any and all claims arising under this agreement shall not exceed the total fees paid by the customer during the twelve months preceding the claim.

2. Payment Terms. The customer shall pay a monthly subscription fee of 100 dollars payable in advance on the first day of each calendar month under the agreed billing schedule.`

const liabilityV2 = `1. Limitation of Liability. The provider's total aggregate liability for any and all claims arising under this agreement shall not exceed the total fees paid by the customer during the twelve months preceding the claim.

2. Payment Terms. The customer shall pay a monthly subscription fee of 150 dollars payable in advance on the first day of each calendar month under the revised billing schedule.`

func TestCompareTexts_IdenticalDocuments(t *testing.T) {
	processor := NewProcessor(nil, nil)

	changes, err := processor.CompareTexts(context.Background(), liabilityV1, liabilityV1)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestCompareTexts_ModifiedPaymentClause(t *testing.T) {
	processor := NewProcessor(nil, nil)

	changes, err := processor.CompareTexts(context.Background(), liabilityV1, liabilityV2)
	require.NoError(t, err)
	require.Len(t, changes, 1)

	change := changes[0]
	assert.Equal(t, domain.ChangeModified, change.Kind)
	assert.GreaterOrEqual(t, change.Similarity, ModifiedThreshold)
	assert.Less(t, change.Similarity, IdenticalThreshold)
	require.NotNil(t, change.Diff)
	assert.Contains(t, change.Diff.AddedWords, "150")
	assert.Contains(t, change.Diff.RemovedWords, "100")
	assert.NotEmpty(t, change.Explanation)
	assert.Greater(t, change.RiskScore, 0)
}

func TestCompareTexts_EmptyBothSides(t *testing.T) {
	processor := NewProcessor(nil, nil)

	_, err := processor.CompareTexts(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrNoText)
}

func TestCompareTexts_EmptyOldSide(t *testing.T) {
	processor := NewProcessor(nil, nil)

	changes, err := processor.CompareTexts(context.Background(), "", liabilityV1)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	for _, change := range changes {
		assert.Equal(t, domain.ChangeAdded, change.Kind)
	}
}

func TestCompare_SectionHintsDriveSegmentation(t *testing.T) {
	processor := NewProcessor(nil, nil)

	oldDoc := driven.ExtractResult{
		Text: "full text",
		Sections: []domain.Section{
			{Heading: "Liability", Body: "The provider's aggregate liability for damages is capped at the total fees paid by the customer during the preceding year of service."},
		},
	}
	newDoc := driven.ExtractResult{
		Text: "full text",
		Sections: []domain.Section{
			{Heading: "Liability", Body: "The provider's aggregate liability for damages is capped at the total fees paid by the customer during the preceding year of service."},
			{Heading: "Marketing", Body: "The provider may send promotional newsletter email communications about new advertising features unless the customer opts out of receiving all marketing materials."},
		},
	}

	changes, err := processor.Compare(context.Background(), oldDoc, newDoc)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.ChangeAdded, changes[0].Kind)
	assert.Equal(t, domain.RiskLow, changes[0].RiskLevel)
}

func TestProcessVersion_FirstVersionSkipsDetection(t *testing.T) {
	store := memory.NewContractStore()
	processor := NewProcessor(store, nil)
	ctx := context.Background()

	require.NoError(t, store.SaveVersion(ctx, &domain.Version{
		ID: "v1", ContractID: "c1", Number: 1, RawText: liabilityV1, CreatedAt: time.Now(),
	}))

	stats, err := processor.ProcessVersion(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Clauses)
	assert.Equal(t, 0, stats.Changes)
	assert.Equal(t, 0, stats.Alerts)

	clauses, err := store.GetClauses(ctx, "v1")
	require.NoError(t, err)
	assert.Len(t, clauses, 2)
}

func TestProcessVersion_DetectsDriftAgainstPrevious(t *testing.T) {
	store := memory.NewContractStore()
	processor := NewProcessor(store, nil, WithAlertThreshold(domain.RiskLow))
	ctx := context.Background()

	require.NoError(t, store.SaveVersion(ctx, &domain.Version{
		ID: "v1", ContractID: "c1", Number: 1, RawText: liabilityV1,
	}))
	_, err := processor.ProcessVersion(ctx, "v1")
	require.NoError(t, err)

	require.NoError(t, store.SaveVersion(ctx, &domain.Version{
		ID: "v2", ContractID: "c1", Number: 2, RawText: liabilityV2,
	}))
	stats, err := processor.ProcessVersion(ctx, "v2")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Clauses)
	assert.Equal(t, 1, stats.Changes)
	assert.Equal(t, 1, stats.Alerts)

	changes, err := store.GetChanges(ctx, "v1", "v2")
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.ChangeModified, changes[0].Kind)

	alerts, err := store.GetAlerts(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertPending, alerts[0].Status)
	assert.Equal(t, changes[0].ID, alerts[0].ChangeID)
}

func TestProcessVersion_DefaultThresholdSuppressesLowRiskAlerts(t *testing.T) {
	store := memory.NewContractStore()
	processor := NewProcessor(store, nil)
	ctx := context.Background()

	require.NoError(t, store.SaveVersion(ctx, &domain.Version{
		ID: "v1", ContractID: "c1", Number: 1, RawText: liabilityV1,
	}))
	_, err := processor.ProcessVersion(ctx, "v1")
	require.NoError(t, err)

	require.NoError(t, store.SaveVersion(ctx, &domain.Version{
		ID: "v2", ContractID: "c1", Number: 2, RawText: liabilityV2,
	}))
	stats, err := processor.ProcessVersion(ctx, "v2")
	require.NoError(t, err)

	// A modified payment clause scores below HIGH, so the default
	// threshold records the change without raising an alert.
	assert.Equal(t, 1, stats.Changes)
	assert.Equal(t, 0, stats.HighRisk)
	assert.Equal(t, 0, stats.Alerts)
}

func TestProcessVersion_MissingVersion(t *testing.T) {
	processor := NewProcessor(memory.NewContractStore(), nil)

	_, err := processor.ProcessVersion(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProcessVersion_NoText(t *testing.T) {
	store := memory.NewContractStore()
	processor := NewProcessor(store, nil)
	ctx := context.Background()

	require.NoError(t, store.SaveVersion(ctx, &domain.Version{ID: "v1", ContractID: "c1", Number: 1}))

	_, err := processor.ProcessVersion(ctx, "v1")
	assert.ErrorIs(t, err, domain.ErrNoText)
}

func TestProcessVersion_NilStore(t *testing.T) {
	processor := NewProcessor(nil, nil)

	_, err := processor.ProcessVersion(context.Background(), "v1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestProcessVersion_AssistantEnrichesChanges(t *testing.T) {
	store := memory.NewContractStore()
	assistant := &stubAssistant{summary: "fee halved", explanation: "monthly cost drops by half"}
	processor := NewProcessor(store, assistant)
	ctx := context.Background()

	require.NoError(t, store.SaveVersion(ctx, &domain.Version{
		ID: "v1", ContractID: "c1", Number: 1, RawText: liabilityV1,
	}))
	_, err := processor.ProcessVersion(ctx, "v1")
	require.NoError(t, err)

	require.NoError(t, store.SaveVersion(ctx, &domain.Version{
		ID: "v2", ContractID: "c1", Number: 2, RawText: liabilityV2,
	}))
	_, err = processor.ProcessVersion(ctx, "v2")
	require.NoError(t, err)

	changes, err := store.GetChanges(ctx, "v1", "v2")
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "fee halved", changes[0].Summary)
	assert.Equal(t, "monthly cost drops by half", changes[0].Explanation)
}
