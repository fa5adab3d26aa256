package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrServiceUnavailable indicates the LLM endpoint cannot be reached
	ErrServiceUnavailable = errors.New("llm service unavailable")

	// ErrUpstream indicates the LLM endpoint returned a failure response
	ErrUpstream = errors.New("llm upstream error")

	// ErrMalformedOutput indicates the model produced output that could
	// not be parsed into the requested structure
	ErrMalformedOutput = errors.New("llm produced malformed output")
)

// CompletionRequest is a single prompt for the LLM
type CompletionRequest struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// StructuredRequest asks the LLM for a JSON object matching a schema hint
type StructuredRequest struct {
	Prompt       string
	SystemPrompt string
	Schema       map[string]string
}

// CompletionClient is the LLM surface the agents depend on
type CompletionClient interface {
	Health(ctx context.Context) error
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	CompleteStream(ctx context.Context, req CompletionRequest) (<-chan string, error)
	CompleteStructured(ctx context.Context, req StructuredRequest) (map[string]interface{}, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OllamaConfig holds Ollama connection settings
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultOllamaConfig returns sensible local defaults
func DefaultOllamaConfig() *OllamaConfig {
	return &OllamaConfig{
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1:8b",
		Timeout: 120 * time.Second,
	}
}

// OllamaService talks to a local Ollama instance over its HTTP API
type OllamaService struct {
	config     *OllamaConfig
	httpClient *http.Client
	logger     *log.Logger
}

// NewOllamaService creates an Ollama-backed completion client
func NewOllamaService(config *OllamaConfig, logger *log.Logger) *OllamaService {
	if config == nil {
		config = DefaultOllamaConfig()
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[LLM] ", log.LstdFlags)
	}

	return &OllamaService{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ollamaChatMessage    `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Health checks that Ollama is reachable
func (s *OllamaService) Health(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(healthCtx, http.MethodGet, s.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", ErrServiceUnavailable, resp.StatusCode)
	}

	return nil
}

func (s *OllamaService) buildMessages(req CompletionRequest) []ollamaChatMessage {
	messages := make([]ollamaChatMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, ollamaChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, ollamaChatMessage{Role: "user", Content: req.Prompt})
	return messages
}

func (s *OllamaService) buildOptions(req CompletionRequest) map[string]interface{} {
	options := map[string]interface{}{}
	if req.Temperature > 0 {
		options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	if len(options) == 0 {
		return nil
	}
	return options
}

// Complete sends a chat request and returns the full model reply
func (s *OllamaService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := s.Health(ctx); err != nil {
		return "", err
	}

	payload := ollamaChatRequest{
		Model:    s.config.Model,
		Messages: s.buildMessages(req),
		Stream:   false,
		Options:  s.buildOptions(req),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: chat returned %d", ErrUpstream, resp.StatusCode)
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return chatResp.Message.Content, nil
}

// CompleteStream sends a chat request and streams reply chunks over a
// channel. The channel is closed when the model finishes or the stream
// breaks.
func (s *OllamaService) CompleteStream(ctx context.Context, req CompletionRequest) (<-chan string, error) {
	if err := s.Health(ctx); err != nil {
		return nil, err
	}

	payload := ollamaChatRequest{
		Model:    s.config.Model,
		Messages: s.buildMessages(req),
		Stream:   true,
		Options:  s.buildOptions(req),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: chat returned %d", ErrUpstream, resp.StatusCode)
	}

	chunks := make(chan string)
	go func() {
		defer close(chunks)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var chunk ollamaChatResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				s.logger.Printf("Skipping malformed stream chunk: %v", err)
				continue
			}

			if chunk.Message.Content != "" {
				select {
				case chunks <- chunk.Message.Content:
				case <-ctx.Done():
					return
				}
			}

			if chunk.Done {
				return
			}
		}
	}()

	return chunks, nil
}

// CompleteStructured asks the model for JSON output and parses it into a
// map. The system prompt is reinforced with an explicit JSON-only
// instruction and the expected schema.
func (s *OllamaService) CompleteStructured(ctx context.Context, req StructuredRequest) (map[string]interface{}, error) {
	system := req.SystemPrompt + "\nYou must respond with ONLY valid JSON. No additional text or explanation."
	if len(req.Schema) > 0 {
		schemaJSON, err := json.Marshal(req.Schema)
		if err == nil {
			system += "\nExpected schema: " + string(schemaJSON)
		}
	}

	raw, err := s.Complete(ctx, CompletionRequest{
		Prompt:       req.Prompt,
		SystemPrompt: system,
		Temperature:  0.3,
	})
	if err != nil {
		return nil, err
	}

	return ParseStructuredOutput(raw)
}

// ParseStructuredOutput recovers a JSON object from raw model output.
// Models frequently wrap JSON in markdown fences; each recovery strategy
// is tried in turn before giving up.
func ParseStructuredOutput(raw string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(raw)

	// Direct parse
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &result); err == nil {
		return result, nil
	}

	// ```json fenced block
	if body, ok := extractFence(trimmed, "```json"); ok {
		if err := json.Unmarshal([]byte(body), &result); err == nil {
			return result, nil
		}
	}

	// Bare ``` fenced block
	if body, ok := extractFence(trimmed, "```"); ok {
		if err := json.Unmarshal([]byte(body), &result); err == nil {
			return result, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrMalformedOutput, truncateForError(trimmed))
}

func extractFence(text, opener string) (string, bool) {
	start := strings.Index(text, opener)
	if start == -1 {
		return "", false
	}
	rest := text[start+len(opener):]
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func truncateForError(text string) string {
	const max = 120
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

// Embed returns the embedding vector for a piece of text
func (s *OllamaService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.Health(ctx); err != nil {
		return nil, err
	}

	payload := ollamaEmbeddingRequest{
		Model:  s.config.Model,
		Prompt: text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: embeddings returned %d", ErrUpstream, resp.StatusCode)
	}

	var embResp ollamaEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(embResp.Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding", ErrUpstream)
	}

	return embResp.Embedding, nil
}
