package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
	"github.com/gautamkumar30/kontract.ai/internal/core/ports/driven"
	"github.com/gautamkumar30/kontract.ai/internal/logger"
)

// Similarity thresholds for classifying an aligned clause pair.
const (
	// IdenticalThreshold and above means no meaningful change.
	IdenticalThreshold = 0.95

	// ModifiedThreshold and above (below identical) means MODIFIED.
	ModifiedThreshold = 0.6

	// RewrittenThreshold and above (below modified) means REWRITTEN.
	// Below this the pair is not considered a match at all.
	RewrittenThreshold = 0.3
)

// DriftDetector aligns the clause sets of two contract versions and
// classifies each divergence. The assistant is optional: when nil or
// failing, changes simply carry no AI summary.
type DriftDetector struct {
	engine    *FingerprintEngine
	assistant driven.Assistant
}

// NewDriftDetector creates a drift detector. assistant may be nil.
func NewDriftDetector(engine *FingerprintEngine, assistant driven.Assistant) *DriftDetector {
	return &DriftDetector{engine: engine, assistant: assistant}
}

// Detect compares the fingerprinted clause sets of two versions, old
// chronologically preceding new, and returns the detected changes.
//
// Matching is a greedy single pass over the new clauses in input order:
// each new clause takes the highest-similarity unconsumed old clause
// (ties to the lowest old index). Pairs at or above IdenticalThreshold
// consume both sides silently; pairs below RewrittenThreshold leave the
// old clause eligible for later new clauses and emit ADDED. Old clauses
// never consumed are emitted as REMOVED.
func (d *DriftDetector) Detect(ctx context.Context, oldClauses, newClauses []domain.Clause) []domain.Change {
	var changes []domain.Change
	consumedOld := make(map[int]bool, len(oldClauses))

	for n := range newClauses {
		newClause := &newClauses[n]

		bestIdx := -1
		bestSimilarity := 0.0
		for o := range oldClauses {
			if consumedOld[o] {
				continue
			}
			similarity := d.engine.Similarity(oldClauses[o].Fingerprint, newClause.Fingerprint)
			if similarity > bestSimilarity {
				bestSimilarity = similarity
				bestIdx = o
			}
		}

		switch {
		case bestIdx >= 0 && bestSimilarity >= IdenticalThreshold:
			consumedOld[bestIdx] = true

		case bestIdx >= 0 && bestSimilarity >= ModifiedThreshold:
			consumedOld[bestIdx] = true
			changes = append(changes, d.newChange(ctx, domain.ChangeModified, &oldClauses[bestIdx], newClause, bestSimilarity))

		case bestIdx >= 0 && bestSimilarity >= RewrittenThreshold:
			consumedOld[bestIdx] = true
			changes = append(changes, d.newChange(ctx, domain.ChangeRewritten, &oldClauses[bestIdx], newClause, bestSimilarity))

		default:
			// No old clause resembles this one: it is an addition, and
			// the best candidate stays available for later new clauses.
			changes = append(changes, d.newChange(ctx, domain.ChangeAdded, nil, newClause, 0))
		}
	}

	for o := range oldClauses {
		if !consumedOld[o] {
			changes = append(changes, d.newChange(ctx, domain.ChangeRemoved, &oldClauses[o], nil, 0))
		}
	}

	return changes
}

// newChange builds a change record and asks the assistant for a summary.
// The summary is best-effort: assistant absence or failure leaves it
// empty and never aborts detection.
func (d *DriftDetector) newChange(ctx context.Context, kind domain.ChangeKind, oldClause, newClause *domain.Clause, similarity float64) domain.Change {
	change := domain.Change{
		ID:         uuid.New().String(),
		Kind:       kind,
		Similarity: similarity,
	}

	var oldText, newText string
	if oldClause != nil {
		change.OldClauseID = oldClause.ID
		oldText = oldClause.Text
	}
	if newClause != nil {
		change.NewClauseID = newClause.ID
		newText = newClause.Text
	}

	if kind == domain.ChangeModified || kind == domain.ChangeRewritten {
		change.Magnitude = ChangeMagnitude(similarity)
		change.Diff = WordLevelDiff(oldText, newText)
	}

	if d.assistant != nil {
		if summary, ok := d.assistant.SummariseChange(ctx, oldText, newText, kind); ok {
			change.Summary = summary
		} else {
			logger.Debug("assistant summary unavailable for %s change", kind)
		}
	}

	return change
}

// ChangeMagnitude labels the size of a change from its similarity.
func ChangeMagnitude(similarity float64) string {
	switch {
	case similarity >= 0.8:
		return "minor"
	case similarity >= 0.5:
		return "moderate"
	default:
		return "major"
	}
}

// WordLevelDiff computes the set difference of words between two texts
// along with the word-count delta.
func WordLevelDiff(oldText, newText string) *domain.WordDiff {
	oldFields := strings.Fields(oldText)
	newFields := strings.Fields(newText)

	oldWords := make(map[string]bool, len(oldFields))
	for _, w := range oldFields {
		oldWords[w] = true
	}
	newWords := make(map[string]bool, len(newFields))
	for _, w := range newFields {
		newWords[w] = true
	}

	diff := &domain.WordDiff{
		WordCountDelta: len(newFields) - len(oldFields),
	}
	for w := range newWords {
		if !oldWords[w] {
			diff.AddedWords = append(diff.AddedWords, w)
		}
	}
	for w := range oldWords {
		if !newWords[w] {
			diff.RemovedWords = append(diff.RemovedWords, w)
		}
	}
	sort.Strings(diff.AddedWords)
	sort.Strings(diff.RemovedWords)
	return diff
}
