// Package suggest asks a chat-completions endpoint for practical tips on
// finishing a task. Failures never surface to the caller as errors; the
// client gets FallbackMessage and the cause goes to the log.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// FallbackMessage is returned verbatim whenever the upstream call fails.
const FallbackMessage = "Error generating AI response."

const (
	defaultBaseURL   = "https://api.openai.com/v1/chat/completions"
	defaultModel     = "gpt-3.5-turbo"
	defaultMaxTokens = 250
)

const systemPrompt = `You are a structured, helpful AI assistant specializing in task management and productivity.
Your primary goal is to provide concise, actionable guidance in a numbered list format.

Response formatting:
- Always provide a numbered list of practical tips.
- If relevant, include useful references (books, websites, or tools).
- Keep responses short, structured, and to the point.
- If the task involves coding, include code snippets or links.`

type Client struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	http      *http.Client
	logger    *log.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewClient(apiKey, baseURL, model string, maxTokens int, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		model:     model,
		maxTokens: maxTokens,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
	}
}

// Generate returns tips for the given task, or FallbackMessage if the
// upstream call fails for any reason. There is no retry; a failed request
// degrades to the fallback immediately.
func (c *Client) Generate(ctx context.Context, taskText, description string) string {
	out, err := c.complete(ctx, taskText, description)
	if err != nil {
		c.logger.Printf("suggest: %v", err)
		return FallbackMessage
	}
	return out
}

func (c *Client) complete(ctx context.Context, taskText, description string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("api key not configured")
	}

	userPrompt := "Task: " + taskText + "\n\n"
	if description != "" {
		userPrompt += "Existing Description: " + description + "\n\n"
	}
	userPrompt += "Provide a short, numbered list of practical tips to complete this task.\n" +
		"If possible, include useful references such as books, websites, or tools."

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr chatError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("upstream error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("upstream error (%d)", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
