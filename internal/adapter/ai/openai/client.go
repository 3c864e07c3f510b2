// Package openai implements the chat provider port against the OpenAI
// chat-completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/emarketbank/jimmy-agent/internal/domain"
)

// Client calls POST {base}/chat/completions with bearer auth.
type Client struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

// New constructs a Client. hc may carry an instrumented transport; timeouts
// come from the per-attempt context, not the client.
func New(apiKey, baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, hc: hc}
}

// Name implements domain.ChatProvider.
func (c *Client) Name() string { return "openai" }

// Available reports whether credentials are configured.
func (c *Client) Available() bool { return c.apiKey != "" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat sends the system instruction plus history and returns the first
// choice's content. Non-2xx statuses and empty choices are provider errors;
// response bodies are logged server-side, never propagated.
func (c *Client) Chat(ctx context.Context, model, systemPrompt string, messages []domain.ChatMessage, temperature float64, maxTokens int) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("%w: OPENAI_API_KEY missing", domain.ErrProviderUnavailable)
	}
	msgs := make([]chatMessage, 0, len(messages)+1)
	msgs = append(msgs, chatMessage{Role: "system", Content: systemPrompt})
	for _, m := range messages {
		msgs = append(msgs, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	body, err := json.Marshal(chatRequest{Model: model, Messages: msgs, Temperature: temperature, MaxTokens: maxTokens})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", domain.ErrProviderError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: openai read: %v", domain.ErrProviderError, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(raw)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		slog.Warn("openai non-2xx",
			slog.String("model", model),
			slog.Int("status", resp.StatusCode),
			slog.String("body", snippet))
		return "", fmt.Errorf("%w: openai status %d", domain.ErrProviderError, resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: openai decode: %v", domain.ErrProviderError, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", domain.ErrProviderError)
	}
	return out.Choices[0].Message.Content, nil
}
