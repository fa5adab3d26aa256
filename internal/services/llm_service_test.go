package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Structured output parsing
// ============================================================================

func TestParseStructuredOutputDirectJSON(t *testing.T) {
	result, err := ParseStructuredOutput(`{"sentiment": "positive", "sentiment_score": 0.9}`)

	assert.NoError(t, err)
	assert.Equal(t, "positive", result["sentiment"])
	assert.Equal(t, 0.9, result["sentiment_score"])
}

func TestParseStructuredOutputJSONFence(t *testing.T) {
	raw := "Here is the analysis:\n```json\n{\"requires_attention\": true}\n```\nHope that helps!"

	result, err := ParseStructuredOutput(raw)

	assert.NoError(t, err)
	assert.Equal(t, true, result["requires_attention"])
}

func TestParseStructuredOutputBareFence(t *testing.T) {
	raw := "```\n{\"key_themes\": [\"portion size\"]}\n```"

	result, err := ParseStructuredOutput(raw)

	assert.NoError(t, err)
	themes, ok := result["key_themes"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, themes, 1)
}

func TestParseStructuredOutputLeadingWhitespace(t *testing.T) {
	result, err := ParseStructuredOutput("  \n\t{\"a\": 1}\n  ")

	assert.NoError(t, err)
	assert.Equal(t, float64(1), result["a"])
}

func TestParseStructuredOutputMalformed(t *testing.T) {
	_, err := ParseStructuredOutput("not json at all")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedOutput))
}

func TestParseStructuredOutputFenceWithBrokenJSON(t *testing.T) {
	_, err := ParseStructuredOutput("```json\n{broken\n```")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedOutput))
}

// ============================================================================
// Ollama HTTP client
// ============================================================================

func newFakeOllama(t *testing.T, chatContent string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"models": []}`))
		case "/api/chat":
			var req ollamaChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("Bad chat request: %v", err)
			}
			json.NewEncoder(w).Encode(ollamaChatResponse{
				Message: ollamaChatMessage{Role: "assistant", Content: chatContent},
				Done:    true,
			})
		case "/api/embeddings":
			json.NewEncoder(w).Encode(ollamaEmbeddingResponse{
				Embedding: []float32{0.1, 0.2, 0.3},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestCompleteReturnsModelReply(t *testing.T) {
	server := newFakeOllama(t, "Sounds great, I noted your preferences!")
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL, Model: "test-model"}, nil)

	reply, err := svc.Complete(context.Background(), CompletionRequest{
		Prompt:      "I'm vegetarian",
		Temperature: 0.8,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Sounds great, I noted your preferences!", reply)
}

func TestCompleteServiceUnavailable(t *testing.T) {
	svc := NewOllamaService(&OllamaConfig{BaseURL: "http://localhost:1", Model: "test-model"}, nil)

	_, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "hello"})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
}

func TestCompleteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL, Model: "test-model"}, nil)

	_, err := svc.Complete(context.Background(), CompletionRequest{Prompt: "hello"})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestCompleteStructuredParsesFencedReply(t *testing.T) {
	server := newFakeOllama(t, "```json\n{\"sentiment\": \"negative\"}\n```")
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL, Model: "test-model"}, nil)

	result, err := svc.CompleteStructured(context.Background(), StructuredRequest{
		Prompt: "Analyze this",
		Schema: map[string]string{"sentiment": "positive, neutral, or negative"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "negative", result["sentiment"])
}

func TestCompleteStructuredReinforcesSystemPrompt(t *testing.T) {
	var captured ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/chat":
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Errorf("Bad chat request: %v", err)
			}
			json.NewEncoder(w).Encode(ollamaChatResponse{
				Message: ollamaChatMessage{Role: "assistant", Content: `{"ok": true}`},
				Done:    true,
			})
		}
	}))
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL, Model: "test-model"}, nil)

	_, err := svc.CompleteStructured(context.Background(), StructuredRequest{
		Prompt:       "Analyze this feedback",
		SystemPrompt: "You are an analyst.",
		Schema:       map[string]string{"sentiment": "string"},
	})

	assert.NoError(t, err)
	require.Len(t, captured.Messages, 2)

	system := captured.Messages[0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "You are an analyst.")
	assert.Contains(t, system.Content, "ONLY valid JSON")
	assert.Contains(t, system.Content, "Expected schema:")

	user := captured.Messages[1]
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "Analyze this feedback", user.Content)
}

func TestCompleteStructuredMalformedReply(t *testing.T) {
	server := newFakeOllama(t, "I think the sentiment is positive.")
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL, Model: "test-model"}, nil)

	_, err := svc.CompleteStructured(context.Background(), StructuredRequest{Prompt: "Analyze"})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedOutput))
}

func TestEmbedReturnsVector(t *testing.T) {
	server := newFakeOllama(t, "")
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL, Model: "test-model"}, nil)

	embedding, err := svc.Embed(context.Background(), "Grilled Chicken Quinoa Bowl")

	assert.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding)
}

func TestEmbedServiceUnavailableWhenUnhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(ollamaEmbeddingResponse{
			Embedding: []float32{0.1, 0.2, 0.3},
		})
	}))
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL, Model: "test-model"}, nil)

	_, err := svc.Embed(context.Background(), "Grilled Chicken Quinoa Bowl")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
}
