package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mnemosyne-ai/mnemo/memory"
)

// ErrEmptyDocument reports an ingestion input with no usable text. The
// document is skipped; the store and graph are left unchanged.
var ErrEmptyDocument = errors.New("document is empty")

// ConceptIndexer receives ingested text to update concept co-occurrence.
// Implemented by graph.Store.
type ConceptIndexer interface {
	Update(ctx context.Context, text string) error
}

// Ingestor splits documents into chunks, embeds them, inserts them into the
// vector store, and feeds the text to the concept graph.
//
// Re-ingesting the same document is NOT idempotent: chunks are duplicated
// and edge weights inflated unless the caller de-duplicates by source id
// beforehand. Known limitation.
type Ingestor struct {
	store    Store
	embedder memory.Embedder
	concepts ConceptIndexer

	chunkSize    int
	chunkOverlap int
}

// NewIngestor creates an ingestor. concepts may be nil to skip graph updates.
func NewIngestor(store Store, embedder memory.Embedder, concepts ConceptIndexer, chunkSize, chunkOverlap int) *Ingestor {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Ingestor{
		store:        store,
		embedder:     embedder,
		concepts:     concepts,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Ingest chunks documentText, embeds and stores each chunk, and updates
// concept co-occurrence per chunk. Returns the number of chunks inserted.
func (in *Ingestor) Ingest(ctx context.Context, documentText, sourceID string) (int, error) {
	chunks := SplitWords(documentText, in.chunkSize, in.chunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("ingest %s: %w", sourceID, ErrEmptyDocument)
	}

	inserted := 0
	for i, text := range chunks {
		embedding, err := in.embedder.Embed(ctx, text)
		if err != nil {
			return inserted, fmt.Errorf("embed chunk %d of %s: %w", i+1, sourceID, err)
		}

		chunk := Chunk{
			ID:         uuid.New().String(),
			Text:       text,
			SourceFile: sourceID,
			Embedding:  embedding,
		}
		if err := in.store.Insert(ctx, chunk); err != nil {
			return inserted, fmt.Errorf("insert chunk %d of %s: %w", i+1, sourceID, err)
		}
		inserted++

		if in.concepts != nil {
			if err := in.concepts.Update(ctx, text); err != nil {
				return inserted, fmt.Errorf("index concepts for chunk %d of %s: %w", i+1, sourceID, err)
			}
		}
	}

	log.Printf("[INGEST] %s: %d chunks", sourceID, inserted)
	return inserted, nil
}

// FileResult records the outcome of ingesting one file.
type FileResult struct {
	Path    string
	Chunks  int
	Skipped bool
	Err     error
}

// IngestDir walks dir and ingests every .txt and .md file, sorted by path.
// A failing or empty file is reported in its FileResult and skipped; other
// files are unaffected.
func (in *Ingestor) IngestDir(ctx context.Context, dir string) ([]FileResult, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		res := FileResult{Path: path}

		data, err := os.ReadFile(path)
		if err != nil {
			res.Skipped = true
			res.Err = err
			log.Printf("[INGEST] skipping %s: %v", path, err)
			results = append(results, res)
			continue
		}

		n, err := in.Ingest(ctx, string(data), filepath.Base(path))
		res.Chunks = n
		if err != nil {
			res.Skipped = true
			res.Err = err
			log.Printf("[INGEST] skipping %s: %v", path, err)
		}
		results = append(results, res)
	}
	return results, nil
}
