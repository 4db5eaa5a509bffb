package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"LinkStash/internal/domain"
	"LinkStash/internal/ports"
)

// ChatGPTClient implements ports.ChatClient backed by OpenAI-compatible
// chat-completion APIs.
type ChatGPTClient struct {
	endpoint   string
	model      string
	keys       ports.KeyProvider
	httpClient *http.Client
}

var _ ports.ChatClient = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client; the API key is resolved per call so
// key rotation in the provider takes effect without rebuilding.
func NewChatGPTClient(endpoint, model string, keys ports.KeyProvider) *ChatGPTClient {
	return &ChatGPTClient{
		endpoint: endpoint,
		model:    model,
		keys:     keys,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// CompleteJSON posts the chat request and returns the first JSON object
// in the model output, with code fences stripped. A response carrying no
// JSON object yields domain.ErrLLMParse.
func (c *ChatGPTClient) CompleteJSON(ctx context.Context, req ports.ChatRequest) ([]byte, error) {
	if c == nil || c.endpoint == "" || c.model == "" {
		return nil, fmt.Errorf("chat client misconfigured")
	}

	apiKey, err := c.keys.APIKey()
	if err != nil {
		return nil, fmt.Errorf("resolve api key: %w", err)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 800
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.User},
		},
		"temperature": req.Temperature,
		"max_tokens":  maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("completion error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response: %w", domain.ErrLLMParse)
	}

	return ExtractJSON(completion.Choices[0].Message.Content)
}

// ExtractJSON strips markdown code-fence markers and returns the first
// balanced {...} block in the text.
func ExtractJSON(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	if start < 0 {
		return nil, fmt.Errorf("no json object in response: %w", domain.ErrLLMParse)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				candidate := []byte(text[start : i+1])
				if !json.Valid(candidate) {
					return nil, fmt.Errorf("unparseable json object: %w", domain.ErrLLMParse)
				}
				return candidate, nil
			}
		}
	}

	return nil, fmt.Errorf("unterminated json object: %w", domain.ErrLLMParse)
}
