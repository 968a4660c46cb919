package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/gautamkumar30/kontract.ai/internal/adapters/driven/ai"
	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
)

func init() {
	// Tests must not pace themselves through the production call gate.
	ai.Gate().SetLimit(rate.Inf)
}

// geminiResponse builds a minimal generateContent success payload.
func geminiResponse(text string) string {
	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func newTestAssistant(t *testing.T, handler http.HandlerFunc) *Assistant {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	assistant, err := NewAssistant(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return assistant
}

func TestNewAssistant_RequiresAPIKey(t *testing.T) {
	_, err := NewAssistant(Config{})
	assert.Error(t, err)
}

func TestNewAssistant_Defaults(t *testing.T) {
	assistant, err := NewAssistant(Config{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, assistant.baseURL)
	assert.Equal(t, DefaultModel, assistant.model)
}

func TestSimilarity(t *testing.T) {
	assistant := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/"+DefaultModel+":generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "semantic similarity")

		_, _ = w.Write([]byte(geminiResponse("0.85")))
	})

	score, ok := assistant.Similarity(context.Background(), "old clause", "new clause")
	require.True(t, ok)
	assert.InDelta(t, 0.85, score, 1e-9)
}

func TestSimilarity_ClampsOutOfRange(t *testing.T) {
	assistant := newTestAssistant(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(geminiResponse("1.7")))
	})

	score, ok := assistant.Similarity(context.Background(), "a", "b")
	require.True(t, ok)
	assert.Equal(t, 1.0, score)
}

func TestSimilarity_UnparseableResponse(t *testing.T) {
	assistant := newTestAssistant(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(geminiResponse("pretty similar I think")))
	})

	_, ok := assistant.Similarity(context.Background(), "a", "b")
	assert.False(t, ok)
}

func TestSummariseChange_PromptPerKind(t *testing.T) {
	var prompts []string
	assistant := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompts = append(prompts, req.Contents[0].Parts[0].Text)
		_, _ = w.Write([]byte(geminiResponse("a summary")))
	})

	ctx := context.Background()
	summary, ok := assistant.SummariseChange(ctx, "", "new text", domain.ChangeAdded)
	require.True(t, ok)
	assert.Equal(t, "a summary", summary)

	_, ok = assistant.SummariseChange(ctx, "old text", "", domain.ChangeRemoved)
	require.True(t, ok)

	_, ok = assistant.SummariseChange(ctx, "old text", "new text", domain.ChangeModified)
	require.True(t, ok)

	require.Len(t, prompts, 3)
	assert.Contains(t, prompts[0], "newly added")
	assert.Contains(t, prompts[0], "new text")
	assert.Contains(t, prompts[1], "was removed")
	assert.Contains(t, prompts[1], "old text")
	assert.Contains(t, prompts[2], "Original:")
	assert.Contains(t, prompts[2], "New:")
}

func TestExplainRisk(t *testing.T) {
	assistant := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Contents[0].Parts[0].Text, `"liability" category`)
		_, _ = w.Write([]byte(geminiResponse("  this matters because damages are uncapped  ")))
	})

	explanation, ok := assistant.ExplainRisk(context.Background(), "clause text", domain.CategoryLiability, "cap removed")
	require.True(t, ok)
	assert.Equal(t, "this matters because damages are uncapped", explanation)
}

func TestExplainRisk_EmptyCategoryFallsBackToOther(t *testing.T) {
	assistant := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Contents[0].Parts[0].Text, `"other" category`)
		_, _ = w.Write([]byte(geminiResponse("ok")))
	})

	_, ok := assistant.ExplainRisk(context.Background(), "clause", domain.Category(""), "summary")
	assert.True(t, ok)
}

func TestGenerate_APIError(t *testing.T) {
	assistant := newTestAssistant(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	})

	_, ok := assistant.SummariseChange(context.Background(), "a", "b", domain.ChangeModified)
	assert.False(t, ok)
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	assistant := newTestAssistant(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, ok := assistant.SummariseChange(context.Background(), "a", "b", domain.ChangeModified)
	assert.False(t, ok)
}

func TestGenerate_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	assistant, err := NewAssistant(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, ok := assistant.SummariseChange(context.Background(), "a", "b", domain.ChangeModified)
	assert.False(t, ok)
}
