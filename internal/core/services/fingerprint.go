package services

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"
	"math"
	"math/bits"
	"regexp"
	"sort"
	"strings"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
)

// Fixed weights for combining the similarity components.
const (
	simHashWeight = 0.3
	vectorWeight  = 0.5
	keywordWeight = 0.2
)

// TopKeywords is the number of keywords extracted per clause.
const TopKeywords = 10

// MaxVocabulary bounds the batch vectoriser's vocabulary size.
const MaxVocabulary = 100

// keywordPattern matches candidate keyword terms: lowercase words of at
// least four letters.
var keywordPattern = regexp.MustCompile(`\b[a-z]{4,}\b`)

// nonAlphanumeric matches everything stripped during normalisation.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)

// whitespaceRun collapses whitespace runs to a single space.
var whitespaceRun = regexp.MustCompile(`\s+`)

// stopwords are excluded from the batch vectoriser's vocabulary.
var stopwords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(
		"a about above after again against all am an and any are as at be " +
			"because been before being below between both but by can did do " +
			"does doing down during each few for from further had has have " +
			"having he her here hers herself him himself his how i if in into " +
			"is it its itself just me more most my myself no nor not now of " +
			"off on once only or other our ours ourselves out over own s same " +
			"she should so some such t than that the their theirs them " +
			"themselves then there these they this those through to too under " +
			"until up very was we were what when where which while who whom " +
			"why will with you your yours yourself yourselves") {
		stopwords[w] = true
	}
}

// FingerprintEngine computes clause fingerprints and the similarity
// function over them. The engine itself is stateless; batch term-weight
// vectors are fitted in a vocabulary session local to one
// FingerprintBatch call, so vectors from different batches never share a
// vector space.
type FingerprintEngine struct{}

// NewFingerprintEngine creates a new fingerprint engine.
func NewFingerprintEngine() *FingerprintEngine {
	return &FingerprintEngine{}
}

// Fingerprint computes a fingerprint for a single clause text. The
// term-weight vector is left nil: it is only meaningful relative to the
// batch it was fitted with (see FingerprintBatch).
func (e *FingerprintEngine) Fingerprint(text string) *domain.Fingerprint {
	normalised := NormaliseText(text)
	return &domain.Fingerprint{
		TextHash: contentHash(normalised),
		SimHash:  simHash(normalised),
		Keywords: extractKeywords(text, TopKeywords),
	}
}

// FingerprintBatch computes fingerprints for all clauses of one document
// version in a single call, fitting the term-weight vocabulary jointly
// over the whole batch. A degenerate batch (empty vocabulary) yields nil
// vectors and the pipeline proceeds without the vector signal.
func (e *FingerprintEngine) FingerprintBatch(texts []string) []*domain.Fingerprint {
	normalised := make([]string, len(texts))
	for i, t := range texts {
		normalised[i] = NormaliseText(t)
	}

	vectors := fitVectors(normalised)

	fingerprints := make([]*domain.Fingerprint, len(texts))
	for i, t := range texts {
		fingerprints[i] = &domain.Fingerprint{
			TextHash: contentHash(normalised[i]),
			SimHash:  simHash(normalised[i]),
			Vector:   vectors[i],
			Keywords: extractKeywords(t, TopKeywords),
		}
	}
	return fingerprints
}

// Similarity scores two fingerprints in [0,1]. Equal content hashes
// short-circuit to 1.0; otherwise the SimHash, term-vector, and keyword
// signals are combined with fixed weights. The function is commutative.
func (e *FingerprintEngine) Similarity(a, b *domain.Fingerprint) float64 {
	if a == nil || b == nil {
		return 0
	}
	if a.TextHash == b.TextHash {
		return 1.0
	}

	score := simHashWeight*simHashSimilarity(a.SimHash, b.SimHash) +
		vectorWeight*cosineSimilarity(a.Vector, b.Vector) +
		keywordWeight*keywordSimilarity(a.Keywords, b.Keywords)

	return math.Min(1.0, math.Max(0.0, score))
}

// NormaliseText produces the canonical form that feeds hashing:
// lowercase, single-spaced, alphanumeric characters only.
func NormaliseText(text string) string {
	text = strings.ToLower(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = nonAlphanumeric.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// contentHash is the SHA-256 hex digest of the normalised text.
func contentHash(normalised string) string {
	sum := sha256.Sum256([]byte(normalised))
	return hex.EncodeToString(sum[:])
}

// simHash computes the 64-bit edit-tolerant hash: one signed counter per
// bit position, incremented or decremented by each token's wide hash.
func simHash(normalised string) uint64 {
	var counters [domain.SimHashBits]int

	for _, token := range strings.Fields(normalised) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(token))
		tokenHash := h.Sum64()

		for i := 0; i < domain.SimHashBits; i++ {
			if tokenHash&(1<<uint(i)) != 0 {
				counters[i]++
			} else {
				counters[i]--
			}
		}
	}

	var fingerprint uint64
	for i := 0; i < domain.SimHashBits; i++ {
		if counters[i] > 0 {
			fingerprint |= 1 << uint(i)
		}
	}
	return fingerprint
}

// simHashSimilarity converts the Hamming distance between two hashes to
// a [0,1] similarity.
func simHashSimilarity(a, b uint64) float64 {
	hamming := bits.OnesCount64(a ^ b)
	return 1.0 - float64(hamming)/float64(domain.SimHashBits)
}

// extractKeywords returns the topN most frequent words of length >= 4,
// with weights normalised over the selected terms. The weighting is
// local to the clause and independent of the batch vectoriser.
func extractKeywords(text string, topN int) map[string]float64 {
	words := keywordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return map[string]float64{}
	}

	freq := make(map[string]int)
	for _, w := range words {
		freq[w]++
	}

	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}
	// Frequency descending, then alphabetical so equal-frequency picks
	// are deterministic.
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > topN {
		terms = terms[:topN]
	}

	total := 0
	for _, term := range terms {
		total += freq[term]
	}
	if total == 0 {
		return map[string]float64{}
	}

	keywords := make(map[string]float64, len(terms))
	for _, term := range terms {
		keywords[term] = float64(freq[term]) / float64(total)
	}
	return keywords
}

// keywordSimilarity scores two keyword sets as sum-of-minimum weights
// over shared terms divided by sum-of-maximum weights over the union.
func keywordSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	overlap := 0.0
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			overlap += math.Min(wa, wb)
		}
	}

	total := 0.0
	for term, wa := range a {
		total += math.Max(wa, b[term])
	}
	for term, wb := range b {
		if _, ok := a[term]; !ok {
			total += wb
		}
	}

	if total == 0 {
		return 0
	}
	return overlap / total
}

// cosineSimilarity computes the cosine of two term-weight vectors.
// Vectors from different vocabulary sessions have mismatched dimensions
// and score 0 rather than comparing unrelated spaces.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// fitVectors fits a term-frequency / inverse-document-frequency model
// over the batch and emits one l2-normalised vector per text. The
// vocabulary keeps the MaxVocabulary most frequent unigrams and bigrams
// after stopword removal.
func fitVectors(normalised []string) [][]float64 {
	vectors := make([][]float64, len(normalised))
	if len(normalised) == 0 {
		return vectors
	}

	// Tokenise each text into unigrams and bigrams over non-stopword tokens.
	docTerms := make([]map[string]int, len(normalised))
	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for i, text := range normalised {
		tokens := make([]string, 0)
		for _, tok := range strings.Fields(text) {
			if !stopwords[tok] {
				tokens = append(tokens, tok)
			}
		}

		terms := make(map[string]int)
		for j, tok := range tokens {
			terms[tok]++
			if j+1 < len(tokens) {
				terms[tok+" "+tokens[j+1]]++
			}
		}
		docTerms[i] = terms

		for term, count := range terms {
			corpusFreq[term] += count
			docFreq[term]++
		}
	}

	if len(corpusFreq) == 0 {
		return vectors
	}

	// Keep the most frequent terms, ties alphabetical for determinism.
	vocab := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		vocab = append(vocab, term)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if corpusFreq[vocab[i]] != corpusFreq[vocab[j]] {
			return corpusFreq[vocab[i]] > corpusFreq[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > MaxVocabulary {
		vocab = vocab[:MaxVocabulary]
	}
	sort.Strings(vocab)

	docs := float64(len(normalised))
	idf := make([]float64, len(vocab))
	for i, term := range vocab {
		// Smoothed inverse document frequency.
		idf[i] = math.Log((1+docs)/(1+float64(docFreq[term]))) + 1
	}

	for d, terms := range docTerms {
		vec := make([]float64, len(vocab))
		var norm float64
		for i, term := range vocab {
			vec[i] = float64(terms[term]) * idf[i]
			norm += vec[i] * vec[i]
		}
		if norm == 0 {
			// Nothing from this text survived the vocabulary cut.
			continue
		}
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
		vectors[d] = vec
	}
	return vectors
}
