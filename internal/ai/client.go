// Package ai talks to an OpenAI-compatible chat completions endpoint.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/oggyb/ideaji/internal/config"
)

// MaxResponseBytes caps how much of a completion response is read.
const MaxResponseBytes = 1 << 20

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("ai: api key not configured")
	// ErrResponseTooLarge is returned when the response exceeds MaxResponseBytes.
	ErrResponseTooLarge = errors.New("ai: response too large")
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Client is a minimal chat completions client.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// New builds a client from cfg.AI. Timeout defaults to 60s.
func New(cfg *config.Config) *Client {
	timeout := cfg.AI.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.AI.BaseURL, "/"),
		apiKey:     cfg.AI.APIKey,
		model:      cfg.AI.Model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Complete sends messages and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if len(respBody) > MaxResponseBytes {
		return "", ErrResponseTooLarge
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(respBody, "error.message").String()
		if msg == "" {
			msg = string(respBody)
		}
		return "", fmt.Errorf("completion failed: %s - %s", resp.Status, msg)
	}

	content := gjson.GetBytes(respBody, "choices.0.message.content")
	if !content.Exists() {
		return "", errors.New("completion response has no choices")
	}
	return content.String(), nil
}
