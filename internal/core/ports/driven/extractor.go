package driven

import (
	"context"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
)

// ExtractResult is the output of text extraction.
type ExtractResult struct {
	// Text is the full plain text of the document.
	Text string

	// Sections are pre-detected (heading, body) hints for the segmenter.
	// May be nil when the extractor found no recognisable structure.
	Sections []domain.Section
}

// Extractor converts raw document bytes into plain text plus optional
// section hints. PDF and HTML extraction live behind this port; the core
// pipeline only ever sees extracted text.
type Extractor interface {
	// Extract converts raw bytes to text and section hints.
	Extract(ctx context.Context, raw []byte) (*ExtractResult, error)

	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string
}
