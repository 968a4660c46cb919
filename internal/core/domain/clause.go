package domain

// Category classifies a clause against the fixed legal taxonomy.
// An empty Category means the clause matched no taxonomy keywords.
type Category string

// The taxonomy is fixed; declaration order here is the tie-break order
// used when a clause scores equally against several categories.
const (
	CategoryLiability            Category = "liability"
	CategoryDataUsage            Category = "data_usage"
	CategoryTermination          Category = "termination"
	CategoryJurisdiction         Category = "jurisdiction"
	CategoryPayment              Category = "payment"
	CategoryIntellectualProperty Category = "intellectual_property"
	CategoryServiceLevel         Category = "service_level"
	CategoryMarketing            Category = "marketing"
)

// Categories returns the taxonomy in declaration order.
func Categories() []Category {
	return []Category{
		CategoryLiability,
		CategoryDataUsage,
		CategoryTermination,
		CategoryJurisdiction,
		CategoryPayment,
		CategoryIntellectualProperty,
		CategoryServiceLevel,
		CategoryMarketing,
	}
}

// Section is a pre-detected (heading, body) hint handed to the segmenter
// by an extraction collaborator. Hints take precedence over the
// paragraph-splitting fallback.
type Section struct {
	// Heading is the detected section heading, may be empty.
	Heading string

	// Body is the section body text.
	Body string
}

// Clause is the atomic comparison unit: a contiguous span of contract
// text produced once by the segmenter for one document version and
// immutable thereafter. Identity is (VersionID, Number).
type Clause struct {
	// ID is the unique identifier for the clause.
	ID string

	// VersionID links to the contract version this clause belongs to.
	VersionID string

	// Number is the 1-based sequential position within the version.
	Number int

	// Heading is the clause heading, if one was detected.
	Heading string

	// Category is the taxonomy category, empty when unclassified.
	Category Category

	// Text is the clause text.
	Text string

	// SpanStart is the starting character offset in the document, inclusive.
	SpanStart int

	// SpanEnd is the ending character offset in the document, exclusive.
	SpanEnd int

	// WordCount is the number of whitespace-separated words in Text.
	WordCount int

	// Fingerprint is the similarity fingerprint, set once after segmentation.
	Fingerprint *Fingerprint
}
