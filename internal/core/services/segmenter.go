// Package services implements the contract drift pipeline: clause
// segmentation, fingerprinting, drift detection, and risk classification.
package services

import (
	"regexp"
	"strings"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
)

// MinParagraphWords is the noise floor for the paragraph-splitting
// fallback: fragments with this many words or fewer are discarded.
const MinParagraphWords = 10

// DefaultMergeMinWords is the default minimum clause size for
// MergeShortClauses.
const DefaultMergeMinWords = 20

// paragraphBoundary splits on blank lines. Single newlines before a
// numbered heading ("3." style) are promoted to blank lines first by
// headingBreak, since RE2 has no lookahead.
var (
	paragraphBoundary = regexp.MustCompile(`\n\n+`)
	headingBreak      = regexp.MustCompile(`\n(\d+\.)`)
)

// categoryKeywords pairs each taxonomy category with its scoring keywords.
// Slice order matches domain.Categories so ties resolve by declaration order.
var categoryKeywords = []struct {
	category domain.Category
	keywords []string
}{
	{domain.CategoryLiability, []string{
		"liability", "indemnification", "damages", "limitation of liability",
		"warranty", "warranties", "disclaimer", "limitation", "cap",
	}},
	{domain.CategoryDataUsage, []string{
		"data", "privacy", "personal information", "data processing",
		"data protection", "gdpr", "ccpa", "confidential", "confidentiality",
	}},
	{domain.CategoryTermination, []string{
		"termination", "terminate", "cancellation", "cancel", "end",
		"expiration", "expire", "renewal", "term",
	}},
	{domain.CategoryJurisdiction, []string{
		"jurisdiction", "governing law", "venue", "arbitration",
		"dispute resolution", "legal", "court", "forum",
	}},
	{domain.CategoryPayment, []string{
		"payment", "fees", "pricing", "billing", "subscription",
		"refund", "charge", "cost", "price",
	}},
	{domain.CategoryIntellectualProperty, []string{
		"intellectual property", "copyright", "trademark", "patent",
		"ip", "proprietary", "ownership", "license",
	}},
	{domain.CategoryServiceLevel, []string{
		"sla", "service level", "uptime", "availability", "performance",
		"guarantee", "commitment",
	}},
	{domain.CategoryMarketing, []string{
		"marketing", "promotional", "communication", "newsletter",
		"advertising", "email",
	}},
}

// Segmenter splits contract text into ordered clause candidates.
// It is a pure function of its inputs and holds no state.
type Segmenter struct{}

// NewSegmenter creates a new segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment splits the document text into clauses. When section hints are
// supplied, each hint becomes one clause; otherwise the text is split on
// blank-line and numbered-heading boundaries and fragments below the
// noise floor are discarded. Clauses are numbered 1..n in input order.
func (s *Segmenter) Segment(text string, sections []domain.Section) []domain.Clause {
	if len(sections) > 0 {
		return s.segmentSections(sections)
	}
	return s.segmentParagraphs(text)
}

func (s *Segmenter) segmentSections(sections []domain.Section) []domain.Clause {
	clauses := make([]domain.Clause, 0, len(sections))
	offset := 0
	for i, section := range sections {
		body := strings.TrimSpace(section.Body)
		clause := newClause(i+1, section.Heading, body, offset, offset+len(body))
		clauses = append(clauses, clause)
		offset += len(body)
	}
	return clauses
}

func (s *Segmenter) segmentParagraphs(text string) []domain.Clause {
	var clauses []domain.Clause
	offset := 0
	number := 1
	split := headingBreak.ReplaceAllString(text, "\n\n$1")
	for _, para := range paragraphBoundary.Split(split, -1) {
		trimmed := strings.TrimSpace(para)
		if trimmed == "" || len(strings.Fields(trimmed)) <= MinParagraphWords {
			continue
		}
		start := strings.Index(text[offset:], trimmed)
		if start < 0 {
			start = 0
		}
		start += offset
		end := start + len(trimmed)
		clauses = append(clauses, newClause(number, "", trimmed, start, end))
		offset = end
		number++
	}
	return clauses
}

// newClause builds a clause candidate and classifies its category.
func newClause(number int, heading, text string, start, end int) domain.Clause {
	return domain.Clause{
		Number:    number,
		Heading:   heading,
		Category:  ClassifyCategory(text, heading),
		Text:      text,
		SpanStart: start,
		SpanEnd:   end,
		WordCount: len(strings.Fields(text)),
	}
}

// ClassifyCategory scores the clause text and heading against the fixed
// taxonomy and returns the best-scoring category. Ties resolve to the
// earliest declared category; no keyword hits yields the empty category.
func ClassifyCategory(text, heading string) domain.Category {
	combined := strings.ToLower(heading + " " + text)

	var best domain.Category
	bestScore := 0
	for _, entry := range categoryKeywords {
		score := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(combined, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = entry.category
		}
	}
	return best
}

// MergeShortClauses concatenates any clause under minWords into the
// following clause in a single left-to-right pass: text is appended, the
// span extended, and the heading inherited when the absorbing clause had
// none. Surviving clauses are renumbered sequentially.
func MergeShortClauses(clauses []domain.Clause, minWords int) []domain.Clause {
	if len(clauses) == 0 {
		return nil
	}

	var merged []domain.Clause
	current := clauses[0]
	for _, clause := range clauses[1:] {
		if current.WordCount < minWords {
			current.Text += " " + clause.Text
			current.WordCount += clause.WordCount
			current.SpanEnd = clause.SpanEnd
			if current.Heading == "" && clause.Heading != "" {
				current.Heading = clause.Heading
			}
		} else {
			merged = append(merged, current)
			current = clause
		}
	}
	merged = append(merged, current)

	// A short trailing clause has no following clause to join, so it is
	// folded backwards into its predecessor instead.
	if last := len(merged) - 1; last > 0 && merged[last].WordCount < minWords {
		prev := &merged[last-1]
		prev.Text += " " + merged[last].Text
		prev.WordCount += merged[last].WordCount
		prev.SpanEnd = merged[last].SpanEnd
		if prev.Heading == "" {
			prev.Heading = merged[last].Heading
		}
		merged = merged[:last]
	}

	for i := range merged {
		merged[i].Number = i + 1
	}
	return merged
}
