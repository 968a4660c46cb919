// Package gemini provides an AI assistant adapter using the Google
// Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gautamkumar30/kontract.ai/internal/adapters/driven/ai"
	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
	"github.com/gautamkumar30/kontract.ai/internal/core/ports/driven"
	"github.com/gautamkumar30/kontract.ai/internal/logger"
)

// Ensure Assistant implements the interface.
var _ driven.Assistant = (*Assistant)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the Gemini assistant.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://generativelanguage.googleapis.com).
	BaseURL string

	// Model is the generative model to use (default: gemini-1.5-flash).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Assistant provides clause analysis using the Gemini generateContent
// API. All transport and API failures are swallowed and reported as
// absence, per the Assistant contract; calls are spaced through the
// process-wide gate in the ai package.
type Assistant struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// generateRequest is the Gemini generateContent request format.
type generateRequest struct {
	Contents []content `json:"contents"`
}

// content is one message in the request.
type content struct {
	Parts []part `json:"parts"`
}

// part is a single text segment.
type part struct {
	Text string `json:"text"`
}

// generateResponse is the Gemini generateContent response format.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAssistant creates a new Gemini assistant.
func NewAssistant(cfg Config) (*Assistant, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Assistant{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Similarity rates the semantic similarity of two clause texts in [0,1].
func (a *Assistant) Similarity(ctx context.Context, oldText, newText string) (float64, bool) {
	prompt := fmt.Sprintf(`Compare these two contract clauses and rate their semantic similarity on a scale of 0 to 1, where:
- 1.0 = Identical meaning, even if worded differently
- 0.7-0.9 = Very similar meaning with minor differences
- 0.4-0.6 = Somewhat similar, but with notable differences
- 0.1-0.3 = Different meanings
- 0.0 = Completely unrelated

Clause 1:
%s

Clause 2:
%s

Respond with ONLY a number between 0 and 1, nothing else.`, oldText, newText)

	text, ok := a.generate(ctx, prompt)
	if !ok {
		return 0, false
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		logger.Warn("gemini: unparseable similarity response %q", text)
		return 0, false
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, true
}

// SummariseChange produces a short summary of what changed between two
// clause versions.
func (a *Assistant) SummariseChange(ctx context.Context, oldText, newText string, kind domain.ChangeKind) (string, bool) {
	var prompt string
	switch kind {
	case domain.ChangeAdded:
		prompt = fmt.Sprintf("This clause was newly added to a contract. Summarize what it means in 1-2 sentences:\n\n%s", newText)
	case domain.ChangeRemoved:
		prompt = fmt.Sprintf("This clause was removed from a contract. Summarize what was removed in 1-2 sentences:\n\n%s", oldText)
	default:
		prompt = fmt.Sprintf("These two versions of a contract clause show a change. Summarize what changed in 1-2 sentences:\n\nOriginal:\n%s\n\nNew:\n%s", oldText, newText)
	}

	return a.generate(ctx, prompt)
}

// ExplainRisk explains why a change matters to a business user.
func (a *Assistant) ExplainRisk(ctx context.Context, clauseText string, category domain.Category, changeSummary string) (string, bool) {
	categoryName := string(category)
	if categoryName == "" {
		categoryName = "other"
	}

	prompt := fmt.Sprintf(`A contract clause in the "%s" category has changed. Explain why this matters to a business user in 2-3 sentences. Focus on practical implications.

Clause:
%s

Change:
%s

Explain why this matters:`, categoryName, clauseText, changeSummary)

	return a.generate(ctx, prompt)
}

// generate performs one gated generateContent call. Any failure logs
// and reports absence.
func (a *Assistant) generate(ctx context.Context, prompt string) (string, bool) {
	if err := ai.Wait(ctx); err != nil {
		logger.Warn("gemini: gate wait interrupted: %v", err)
		return "", false
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		logger.Warn("gemini: marshalling request: %v", err)
		return "", false
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", a.baseURL, a.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		logger.Warn("gemini: building request: %v", err)
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		logger.Warn("gemini: request failed: %v", err)
		return "", false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("gemini: reading response: %v", err)
		return "", false
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		logger.Warn("gemini: decoding response: %v", err)
		return "", false
	}
	if parsed.Error != nil {
		logger.Warn("gemini: API error %d: %s", parsed.Error.Code, parsed.Error.Message)
		return "", false
	}
	if resp.StatusCode != http.StatusOK {
		logger.Warn("gemini: unexpected status %d", resp.StatusCode)
		return "", false
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		logger.Warn("gemini: empty response")
		return "", false
	}

	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), true
}
