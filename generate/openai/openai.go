// Package openai implements the Generator contract on any OpenAI-compatible
// chat completion endpoint. Pointing BaseURL at a local llama.cpp or ollama
// server runs the pipeline fully offline against a quantized model.
package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mnemosyne-ai/mnemo/generate"
)

// Config configures the OpenAI-compatible backend.
type Config struct {
	// APIKey authenticates the endpoint. Local servers usually accept any
	// non-empty value.
	APIKey string

	// BaseURL overrides the endpoint, e.g. http://localhost:8080/v1 for a
	// local llama.cpp server. Empty means api.openai.com.
	BaseURL string

	// Model is the model name to request.
	Model string
}

// Client calls a chat completion endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// New creates an OpenAI-compatible generation client.
func New(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		return nil, errors.New("model is required")
	}
	if cfg.APIKey == "" {
		if cfg.BaseURL == "" {
			return nil, errors.New("api key is required")
		}
		cfg.APIKey = "local" // local servers ignore the key
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Generate sends the assembled prompt as a single user message.
func (c *Client) Generate(ctx context.Context, prompt string, opts generate.Options) (string, error) {
	opts = opts.Normalize()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ generate.Generator = (*Client)(nil)
