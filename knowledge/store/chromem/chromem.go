// Package chromem implements the knowledge store on chromem-go, a pure Go
// embedded vector database.
package chromem

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/mnemosyne-ai/mnemo/knowledge"
)

const collectionName = "knowledge"

// Store holds ingested chunks in a single chromem collection.
type Store struct {
	db  *chromem.DB
	col *chromem.Collection
}

// New creates an in-memory store. Contents are lost on exit.
func New() (*Store, error) {
	return open(chromem.NewDB())
}

// NewPersistent creates a store persisted under path, reloading any
// previously stored chunks.
func NewPersistent(path string) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open persistent db: %w", err)
	}
	return open(db)
}

func open(db *chromem.DB) (*Store, error) {
	// Embeddings are always supplied by the caller, so no embedding func
	// and the default cosine distance.
	col, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Store{db: db, col: col}, nil
}

// Insert saves a chunk with its embedding.
func (s *Store) Insert(ctx context.Context, chunk knowledge.Chunk) error {
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("chunk %s has no embedding", chunk.ID)
	}

	doc := chromem.Document{
		ID:        chunk.ID,
		Content:   chunk.Text,
		Embedding: chunk.Embedding,
		Metadata: map[string]string{
			"source_file": chunk.SourceFile,
		},
	}
	if err := s.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Query retrieves up to k chunks by cosine similarity, highest first.
// chromem rejects nResults larger than the collection, so k is clamped.
func (s *Store) Query(ctx context.Context, embedding []float32, k int) ([]knowledge.Hit, error) {
	if n := s.col.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := s.col.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	hits := make([]knowledge.Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, knowledge.Hit{
			Chunk: knowledge.Chunk{
				ID:         r.ID,
				Text:       r.Content,
				SourceFile: r.Metadata["source_file"],
				Embedding:  r.Embedding,
			},
			Score: r.Similarity,
		})
	}
	return hits, nil
}

// Count reports the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.col.Count(), nil
}

// Close releases resources. chromem keeps its working set in memory and
// flushes on write, so there is nothing to flush here.
func (s *Store) Close() error {
	return nil
}

var _ knowledge.Store = (*Store)(nil)
