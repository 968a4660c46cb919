// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
)

// Assistant provides optional AI-powered analysis of clause changes.
// This is an optional service - when nil, the pipeline falls back to
// rule-based summaries and explanations.
//
// Every method returns a present-or-absent result: the boolean is false
// when the assistant is unavailable, timed out, over quota, or returned
// a malformed response. Implementations must never panic or surface
// transport errors to the caller; detection and classification proceed
// without the assistant's contribution.
type Assistant interface {
	// Similarity rates the semantic similarity of two clause texts in [0,1].
	Similarity(ctx context.Context, oldText, newText string) (float64, bool)

	// SummariseChange produces a short natural-language summary of what
	// changed between two clause versions.
	SummariseChange(ctx context.Context, oldText, newText string, kind domain.ChangeKind) (string, bool)

	// ExplainRisk explains why a change matters to a business user.
	ExplainRisk(ctx context.Context, clauseText string, category domain.Category, changeSummary string) (string, bool)
}
