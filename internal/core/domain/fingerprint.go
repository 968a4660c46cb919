package domain

// SimHashBits is the width of the edit-tolerant hash.
const SimHashBits = 64

// Fingerprint is the multi-signal compact representation of one clause.
// It is computed once, immediately after segmentation, and never mutated.
type Fingerprint struct {
	// TextHash is the SHA-256 hex digest of the normalised clause text.
	// Equal hashes mean exact duplicates.
	TextHash string

	// SimHash is the 64-bit edit-tolerant hash. Small edits to the text
	// flip only a few bits, so near-duplicates sit at a small Hamming
	// distance.
	SimHash uint64

	// Vector is the term-weight vector fitted over one batch of clauses.
	// It is only comparable to vectors from the same batch; nil when the
	// fingerprint was computed outside a batch or the batch vocabulary
	// degenerated.
	Vector []float64

	// Keywords maps the top clause terms to locally normalised weights.
	Keywords map[string]float64
}
