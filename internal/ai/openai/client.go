// Package openai talks to the OpenAI chat completions API.
package openai

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
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4-turbo-preview"
	completionsURI = "/v1/chat/completions"
	contentType    = "application/json"
)

// Client is a minimal chat completions client.
type Client struct {
	apiKey      string
	model       string
	temperature float32

	HTTPClient *http.Client
	BaseURL    string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// New creates a client. An empty model selects the default chat model.
func New(apiKey, model string, temperature float32) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		BaseURL:     defaultBaseURL,
		HTTPClient:  &http.Client{},
	}, nil
}

// Generate sends the prompt as a single user message.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	payload, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.BaseURL, "/")+completionsURI, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var response completionResponse
	if err := json.Unmarshal(data, &response); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("decode chat completion: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if response.Error != nil && response.Error.Message != "" {
			return "", fmt.Errorf("bad status: %s: %s", resp.Status, response.Error.Message)
		}
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	if len(response.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

func (c *Client) Model() string { return c.model }

func (c *Client) Provider() string { return "openai" }
