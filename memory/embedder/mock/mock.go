package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder generates deterministic embeddings from a text hash. It carries
// no semantic signal but gives identical vectors for identical text, which
// is what the pipeline tests need.
type Embedder struct {
	dimensions int
}

// New creates a mock embedder with the given vector size.
func New(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = 384 // all-MiniLM-L6-v2 size
	}
	return &Embedder{dimensions: dimensions}
}

// Embed hashes the text and expands the hash into a unit vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, e.dimensions)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(vec), nil
}

// Dimensions returns the embedding size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}
