// Package gemini implements the chat provider port against the Google
// generative-language API.
package gemini

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

// Client calls POST {base}/v1beta/models/{model}:generateContent.
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
func (c *Client) Name() string { return "gemini" }

// Available reports whether credentials are configured.
func (c *Client) Available() bool { return c.apiKey != "" }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Chat maps history to Gemini's user/model role vocabulary, sends the system
// instruction separately, and returns the first candidate's first part.
func (c *Client) Chat(ctx context.Context, model, systemPrompt string, messages []domain.ChatMessage, temperature float64, maxTokens int) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("%w: GEMINI_API_KEY missing", domain.ErrProviderUnavailable)
	}
	contents := make([]content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == domain.RoleAssistant {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}
	body, err := json.Marshal(generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		Contents:          contents,
		GenerationConfig:  generationConfig{Temperature: temperature, MaxOutputTokens: maxTokens},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", domain.ErrProviderError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: gemini read: %v", domain.ErrProviderError, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(raw)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		slog.Warn("gemini non-2xx",
			slog.String("model", model),
			slog.Int("status", resp.StatusCode),
			slog.String("body", snippet))
		return "", fmt.Errorf("%w: gemini status %d", domain.ErrProviderError, resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: gemini decode: %v", domain.ErrProviderError, err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", domain.ErrProviderError)
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
