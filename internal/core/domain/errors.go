package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoText indicates a version has no extracted text to segment.
	ErrNoText = errors.New("no text to process")

	// ErrAssistantUnavailable indicates the AI assistant is not configured.
	// The pipeline degrades to rule-based summaries and explanations.
	ErrAssistantUnavailable = errors.New("assistant unavailable")

	// ErrStoreUnavailable indicates no contract store is configured.
	ErrStoreUnavailable = errors.New("contract store unavailable")
)
