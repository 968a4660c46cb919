package domain

// ChangeKind identifies how a clause diverged between two versions.
type ChangeKind string

const (
	// ChangeAdded means the clause exists only in the new version.
	ChangeAdded ChangeKind = "added"

	// ChangeRemoved means the clause exists only in the old version.
	ChangeRemoved ChangeKind = "removed"

	// ChangeModified means the clause was edited but remains recognisable.
	ChangeModified ChangeKind = "modified"

	// ChangeRewritten means the clause was substantially rewritten.
	ChangeRewritten ChangeKind = "rewritten"
)

// WordDiff summarises the word-level difference between two clause texts.
type WordDiff struct {
	// AddedWords are words present only in the new text.
	AddedWords []string `json:"added_words"`

	// RemovedWords are words present only in the old text.
	RemovedWords []string `json:"removed_words"`

	// WordCountDelta is new word count minus old word count.
	WordCountDelta int `json:"word_count_delta"`
}

// Change relates an old clause and a new clause across one version pair.
// OldClauseID is empty only for ChangeAdded; NewClauseID is empty only for
// ChangeRemoved. Produced once by the drift detector and risk classifier,
// immutable afterwards.
type Change struct {
	// ID is the unique identifier for the change.
	ID string `json:"id"`

	// Kind is the change classification.
	Kind ChangeKind `json:"kind"`

	// OldClauseID identifies the matched clause in the old version.
	OldClauseID string `json:"old_clause_id,omitempty"`

	// NewClauseID identifies the matched clause in the new version.
	NewClauseID string `json:"new_clause_id,omitempty"`

	// Similarity is the fingerprint similarity in [0,1]. Zero for
	// added and removed clauses.
	Similarity float64 `json:"similarity"`

	// Magnitude labels the size of the change (minor/moderate/major).
	Magnitude string `json:"magnitude,omitempty"`

	// Diff carries the word-level diff for modified and rewritten clauses.
	Diff *WordDiff `json:"diff,omitempty"`

	// Summary is the AI-generated change summary, empty when the
	// assistant is absent or failed.
	Summary string `json:"summary,omitempty"`

	// RiskLevel is the classified risk band.
	RiskLevel RiskLevel `json:"risk_level,omitempty"`

	// RiskScore is the integer risk score in [0,100].
	RiskScore int `json:"risk_score"`

	// Explanation tells the reader why the change matters. Always
	// non-empty once the change has been classified.
	Explanation string `json:"explanation,omitempty"`
}
