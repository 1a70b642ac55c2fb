package knowledge_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemosyne-ai/mnemo/knowledge"
	kchromem "github.com/mnemosyne-ai/mnemo/knowledge/store/chromem"
	"github.com/mnemosyne-ai/mnemo/memory/embedder/mock"
)

// recordingIndexer captures concept updates for assertions.
type recordingIndexer struct {
	texts []string
}

func (r *recordingIndexer) Update(_ context.Context, text string) error {
	r.texts = append(r.texts, text)
	return nil
}

func newTestIngestor(t *testing.T, concepts knowledge.ConceptIndexer) (*knowledge.Ingestor, knowledge.Store) {
	t.Helper()
	store, err := kchromem.New()
	require.NoError(t, err)
	return knowledge.NewIngestor(store, mock.New(64), concepts, 10, 3), store
}

func TestIngestStoresChunksAndIndexesConcepts(t *testing.T) {
	ctx := context.Background()
	concepts := &recordingIndexer{}
	ing, store := newTestIngestor(t, concepts)

	n, err := ing.Ingest(ctx, "python uses matplotlib for plotting on linux systems every day", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, concepts.texts, 1)
	assert.Contains(t, concepts.texts[0], "matplotlib")
}

func TestIngestEmptyDocumentLeavesEverythingUnchanged(t *testing.T) {
	ctx := context.Background()
	concepts := &recordingIndexer{}
	ing, store := newTestIngestor(t, concepts)

	n, err := ing.Ingest(ctx, "   \n  ", "empty.txt")
	assert.Zero(t, n)
	require.ErrorIs(t, err, knowledge.ErrEmptyDocument)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, concepts.texts)
}

func TestIngestedChunksAreRetrievable(t *testing.T) {
	ctx := context.Background()
	ing, store := newTestIngestor(t, nil)

	_, err := ing.Ingest(ctx, "the capital of france is paris", "geo.txt")
	require.NoError(t, err)
	_, err = ing.Ingest(ctx, "go compiles to a single static binary", "golang.txt")
	require.NoError(t, err)

	// The mock embedder is deterministic, so embedding the exact chunk text
	// again retrieves that chunk with the top score.
	emb := mock.New(64)
	query, err := emb.Embed(ctx, "the capital of france is paris")
	require.NoError(t, err)

	hits, err := store.Query(ctx, query, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "the capital of france is paris", hits[0].Chunk.Text)
	assert.Equal(t, "geo.txt", hits[0].Chunk.SourceFile)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-4)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

func TestQueryClampsToCollectionSize(t *testing.T) {
	ctx := context.Background()
	ing, store := newTestIngestor(t, nil)

	_, err := ing.Ingest(ctx, "one lonely document about databases", "db.txt")
	require.NoError(t, err)

	emb := mock.New(64)
	query, err := emb.Embed(ctx, "databases")
	require.NoError(t, err)

	hits, err := store.Query(ctx, query, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestQueryEmptyStore(t *testing.T) {
	ctx := context.Background()
	store, err := kchromem.New()
	require.NoError(t, err)

	hits, err := store.Query(ctx, []float32{0.1, 0.2}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIngestDirSkipsEmptyFilesAndIngestsTheRest(t *testing.T) {
	ctx := context.Background()
	concepts := &recordingIndexer{}
	ing, store := newTestIngestor(t, concepts)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("solid state drives wear out after many write cycles"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.json"), []byte(`{"ignored": true}`), 0o644))

	results, err := ing.IngestDir(ctx, dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(dir, "a.txt"), results[0].Path)
	assert.False(t, results[0].Skipped)
	assert.Equal(t, 1, results[0].Chunks)

	assert.Equal(t, filepath.Join(dir, "b.md"), results[1].Path)
	assert.True(t, results[1].Skipped)
	assert.ErrorIs(t, results[1].Err, knowledge.ErrEmptyDocument)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
