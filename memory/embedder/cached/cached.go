package cached

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/mnemosyne-ai/mnemo/memory"
)

// Embedder wraps another Embedder with a ristretto cache keyed by text.
// Embedding is deterministic for identical text, so a cache hit is always
// equivalent to recomputing. Ingestion of overlapping chunks and repeated
// queries hit the cache hard.
type Embedder struct {
	inner memory.Embedder
	cache *ristretto.Cache
}

// New creates a caching embedder holding up to maxEntries vectors.
func New(inner memory.Embedder, maxEntries int64) (*Embedder, error) {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Embedder{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector for text, computing and storing it on miss.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.cache.Get(text); ok {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Set(text, vec, 1)
	return vec, nil
}

// Dimensions returns the inner embedder's vector size.
func (e *Embedder) Dimensions() int {
	return e.inner.Dimensions()
}

// Close releases the cache.
func (e *Embedder) Close() {
	e.cache.Close()
}
