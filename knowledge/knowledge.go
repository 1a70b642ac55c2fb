// Package knowledge bridges the pipeline to the long-term vector store:
// chunking, embedding, insertion, and nearest-neighbor retrieval of
// ingested document text.
package knowledge

import "context"

// Chunk is a segment of ingested document text stored with its embedding.
// Chunks are immutable and live for the life of the store.
type Chunk struct {
	ID         string
	Text       string
	SourceFile string
	Embedding  []float32
}

// Hit is a chunk returned from a similarity query with its score.
type Hit struct {
	Chunk Chunk
	Score float32
}

// Store is the vector storage backend. Query results are ordered by
// descending similarity score.
type Store interface {
	// Insert saves a chunk. The chunk must have its embedding set.
	Insert(ctx context.Context, chunk Chunk) error

	// Query retrieves up to k chunks by vector similarity, highest first.
	Query(ctx context.Context, embedding []float32, k int) ([]Hit, error)

	// Count reports the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
