// Package plaintext provides text extraction for plain-text contract
// documents, including numbered-heading section detection.
package plaintext

import (
	"context"
	"regexp"
	"strings"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
	"github.com/gautamkumar30/kontract.ai/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// headingLine matches a numbered heading line such as "3. Termination"
// or "12.1 Fees and Billing".
var headingLine = regexp.MustCompile(`^\s*\d+(\.\d+)*\.?\s+\S.{0,79}$`)

// minSections is the number of headings required before the extractor
// trusts its section detection; below this the segmenter's paragraph
// fallback does a better job.
const minSections = 2

// Extractor handles plain text documents. PDF and HTML extraction live
// behind other implementations of the same port.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
	}
}

// Extract returns the text unchanged plus section hints when the
// document carries enough numbered headings to be worth trusting.
func (e *Extractor) Extract(_ context.Context, raw []byte) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	sections := detectSections(text)
	if len(sections) < minSections {
		sections = nil
	}

	return &driven.ExtractResult{
		Text:     text,
		Sections: sections,
	}, nil
}

// detectSections walks the document line by line, treating numbered
// heading lines as section boundaries.
func detectSections(text string) []domain.Section {
	var sections []domain.Section
	var current *domain.Section

	for _, line := range strings.Split(text, "\n") {
		if headingLine.MatchString(line) && !endsWithSentence(line) {
			if current != nil {
				current.Body = strings.TrimSpace(current.Body)
				sections = append(sections, *current)
			}
			current = &domain.Section{Heading: strings.TrimSpace(line)}
			continue
		}
		if current != nil {
			current.Body += line + "\n"
		}
	}
	if current != nil {
		current.Body = strings.TrimSpace(current.Body)
		sections = append(sections, *current)
	}

	// Drop empty-bodied stubs, headings with nothing under them.
	kept := sections[:0]
	for _, s := range sections {
		if s.Body != "" {
			kept = append(kept, s)
		}
	}
	return kept
}

// endsWithSentence filters out body lines that merely start with a
// number, like "30 days notice is required."
func endsWithSentence(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasSuffix(trimmed, ".") && len(strings.Fields(trimmed)) > 8
}
