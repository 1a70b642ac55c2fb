package openai

import (
	"context"
	"errors"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

// Config configures the OpenAI embedder.
type Config struct {
	// APIKey authenticates against the embeddings endpoint.
	APIKey string

	// BaseURL overrides the API endpoint. Leave empty for api.openai.com;
	// point it at a local OpenAI-compatible server to stay offline.
	BaseURL string

	// Model is the embedding model name (default: text-embedding-3-small).
	Model string
}

// Embedder generates embeddings through an OpenAI-compatible API.
type Embedder struct {
	client *openai.Client
	model  string
	dim    int
}

// New creates an OpenAI embedder.
func New(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	dim := 1536 // text-embedding-3-small
	if cfg.Model == string(openai.LargeEmbedding3) {
		dim = 3072
	}

	return &Embedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		dim:    dim,
	}, nil
}

// Embed generates an embedding for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, errors.New("cannot embed empty text")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	vec := append([]float32(nil), resp.Data[0].Embedding...)
	l2normalize(vec)
	return vec, nil
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dim
}

// l2normalize scales a vector to unit length in place.
func l2normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
