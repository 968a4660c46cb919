package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
	"github.com/gautamkumar30/kontract.ai/internal/core/ports/driven"
	"github.com/gautamkumar30/kontract.ai/internal/logger"
)

// DefaultAlertThreshold is the minimum risk band that creates an alert.
const DefaultAlertThreshold = domain.RiskHigh

// RunStats summarises one pipeline run.
type RunStats struct {
	// Clauses is the number of clauses segmented from the version.
	Clauses int

	// Changes is the number of changes detected against the previous version.
	Changes int

	// HighRisk is the number of changes at HIGH or CRITICAL.
	HighRisk int

	// Alerts is the number of alerts created.
	Alerts int
}

// Processor orchestrates the full pipeline for one contract version:
// segment, merge, fingerprint, detect drift against the previous
// version, classify risk, persist, and record alerts. The four stages
// run strictly sequentially; distinct version comparisons are
// independent and may run concurrently, sharing nothing but the
// process-wide assistant gate.
type Processor struct {
	store          driven.ContractStore
	segmenter      *Segmenter
	engine         *FingerprintEngine
	detector       *DriftDetector
	classifier     *RiskClassifier
	mergeMinWords  int
	alertThreshold domain.RiskLevel
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithMergeMinWords sets the short-clause merge threshold.
func WithMergeMinWords(minWords int) ProcessorOption {
	return func(p *Processor) {
		if minWords > 0 {
			p.mergeMinWords = minWords
		}
	}
}

// WithAlertThreshold sets the minimum risk band that creates an alert.
func WithAlertThreshold(threshold domain.RiskLevel) ProcessorOption {
	return func(p *Processor) {
		p.alertThreshold = threshold
	}
}

// NewProcessor creates a processor. store may be nil when only
// CompareTexts is used; assistant may be nil for rule-based operation.
func NewProcessor(store driven.ContractStore, assistant driven.Assistant, opts ...ProcessorOption) *Processor {
	engine := NewFingerprintEngine()
	p := &Processor{
		store:          store,
		segmenter:      NewSegmenter(),
		engine:         engine,
		detector:       NewDriftDetector(engine, assistant),
		classifier:     NewRiskClassifier(assistant),
		mergeMinWords:  DefaultMergeMinWords,
		alertThreshold: DefaultAlertThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessVersion runs the pipeline for a stored contract version.
// A missing version or a version with no extracted text is the single
// fatal error path; everything downstream degrades rather than fails.
func (p *Processor) ProcessVersion(ctx context.Context, versionID string) (*RunStats, error) {
	if p.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	version, err := p.store.GetVersion(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("loading version %s: %w", versionID, err)
	}
	if version.RawText == "" {
		return nil, fmt.Errorf("version %s: %w", versionID, domain.ErrNoText)
	}

	logger.Info("processing version %d of contract %s", version.Number, version.ContractID)

	clauses := p.prepareClauses(version.ID, version.RawText, nil)
	if err := p.store.SaveClauses(ctx, clauses); err != nil {
		return nil, fmt.Errorf("saving clauses: %w", err)
	}
	logger.Debug("segmented %d clauses", len(clauses))

	stats := &RunStats{Clauses: len(clauses)}

	previous, err := p.store.PreviousVersion(ctx, version)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info("no previous version, skipping drift detection")
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading previous version: %w", err)
	}

	oldClauses, err := p.store.GetClauses(ctx, previous.ID)
	if err != nil {
		return nil, fmt.Errorf("loading previous clauses: %w", err)
	}

	changes := p.detectAndClassify(ctx, oldClauses, clauses)
	if err := p.store.SaveChanges(ctx, previous.ID, version.ID, changes); err != nil {
		return nil, fmt.Errorf("saving changes: %w", err)
	}
	stats.Changes = len(changes)

	for i := range changes {
		if changes[i].RiskLevel.AtLeast(domain.RiskHigh) {
			stats.HighRisk++
		}
		if !ShouldAlert(changes[i].RiskLevel, p.alertThreshold) {
			continue
		}
		alert := &domain.Alert{
			ID:         uuid.New().String(),
			ContractID: version.ContractID,
			ChangeID:   changes[i].ID,
			RiskLevel:  changes[i].RiskLevel,
			Status:     domain.AlertPending,
			CreatedAt:  time.Now().UTC(),
		}
		if err := p.store.SaveAlert(ctx, alert); err != nil {
			return nil, fmt.Errorf("saving alert: %w", err)
		}
		stats.Alerts++
	}

	logger.Info("version %s processed: %d clauses, %d changes, %d alerts",
		version.ID, stats.Clauses, stats.Changes, stats.Alerts)
	return stats, nil
}

// Compare runs the pipeline over two extracted documents without
// touching any store. It powers ad-hoc comparisons such as the CLI
// compare command.
func (p *Processor) Compare(ctx context.Context, oldDoc, newDoc driven.ExtractResult) ([]domain.Change, error) {
	if oldDoc.Text == "" && newDoc.Text == "" {
		return nil, domain.ErrNoText
	}

	oldClauses := p.prepareClauses("old", oldDoc.Text, oldDoc.Sections)
	newClauses := p.prepareClauses("new", newDoc.Text, newDoc.Sections)
	return p.detectAndClassify(ctx, oldClauses, newClauses), nil
}

// CompareTexts is Compare without section hints.
func (p *Processor) CompareTexts(ctx context.Context, oldText, newText string) ([]domain.Change, error) {
	return p.Compare(ctx, driven.ExtractResult{Text: oldText}, driven.ExtractResult{Text: newText})
}

// prepareClauses segments, merges, fingerprints, and assigns identities
// to the clauses of one version.
func (p *Processor) prepareClauses(versionID, text string, sections []domain.Section) []domain.Clause {
	clauses := p.segmenter.Segment(text, sections)
	clauses = MergeShortClauses(clauses, p.mergeMinWords)

	texts := make([]string, len(clauses))
	for i := range clauses {
		texts[i] = clauses[i].Text
	}
	fingerprints := p.engine.FingerprintBatch(texts)

	for i := range clauses {
		clauses[i].ID = uuid.New().String()
		clauses[i].VersionID = versionID
		clauses[i].Fingerprint = fingerprints[i]
	}
	return clauses
}

// detectAndClassify runs drift detection and augments every change with
// its risk assessment.
func (p *Processor) detectAndClassify(ctx context.Context, oldClauses, newClauses []domain.Clause) []domain.Change {
	changes := p.detector.Detect(ctx, oldClauses, newClauses)

	byID := make(map[string]*domain.Clause, len(oldClauses)+len(newClauses))
	for i := range oldClauses {
		byID[oldClauses[i].ID] = &oldClauses[i]
	}
	for i := range newClauses {
		byID[newClauses[i].ID] = &newClauses[i]
	}

	for i := range changes {
		clause := byID[changes[i].NewClauseID]
		if clause == nil {
			clause = byID[changes[i].OldClauseID]
		}
		assessment := p.classifier.Classify(ctx, &changes[i], clause)
		changes[i].RiskLevel = assessment.Level
		changes[i].RiskScore = assessment.Score
		changes[i].Explanation = assessment.Explanation
	}
	return changes
}
