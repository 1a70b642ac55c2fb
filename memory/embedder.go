package memory

import "context"

// Embedder converts text to a fixed-length vector. Implementations must be
// deterministic for identical text; the retrieval layers and the embedding
// cache rely on that.
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}
