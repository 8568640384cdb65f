// Package anthropic talks to the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-3-5-sonnet-20241022"
	defaultMaxTokens = 2048
	messagesURI      = "/v1/messages"
	apiVersion       = "2023-06-01"
	contentType      = "application/json"
)

// Client is a minimal Messages API client.
type Client struct {
	apiKey      string
	model       string
	temperature float32
	MaxTokens   int

	HTTPClient *http.Client
	BaseURL    string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float32   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// New creates a client. An empty model selects the default Claude model.
func New(apiKey, model string, temperature float32) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		MaxTokens:   defaultMaxTokens,
		BaseURL:     defaultBaseURL,
		HTTPClient:  &http.Client{},
	}, nil
}

// Generate sends the prompt as a single user turn and joins the text blocks of the reply.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	payload, err := json.Marshal(messagesRequest{
		Model:       c.model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.temperature,
		Messages:    []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.BaseURL, "/")+messagesURI, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("messages request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var response messagesResponse
	if err := json.Unmarshal(data, &response); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("decode messages response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if response.Error != nil && response.Error.Message != "" {
			return "", fmt.Errorf("bad status: %s: %s", resp.Status, response.Error.Message)
		}
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	if len(response.Content) == 0 {
		return "", errors.New("anthropic api returned no content")
	}

	var builder strings.Builder
	for _, block := range response.Content {
		if block.Type != "text" {
			continue
		}
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}

	return builder.String(), nil
}

func (c *Client) Model() string { return c.model }

func (c *Client) Provider() string { return "anthropic" }
