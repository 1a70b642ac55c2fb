// Package anthropic implements the Generator contract on the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mnemosyne-ai/mnemo/generate"
)

const defaultModel = "claude-sonnet-4-20250514"

// Config configures the Anthropic backend.
type Config struct {
	APIKey string
	Model  string
}

// Client calls the Anthropic Messages API.
type Client struct {
	client anthropic.Client
	model  string
}

// New creates an Anthropic generation client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}, nil
}

// Generate sends the assembled prompt as a single user message and returns
// the concatenated text blocks of the response.
func (c *Client) Generate(ctx context.Context, prompt string, opts generate.Options) (string, error) {
	opts = opts.Normalize()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}

var _ generate.Generator = (*Client)(nil)
