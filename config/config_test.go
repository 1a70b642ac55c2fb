package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Buffer.Capacity)
	assert.Equal(t, 3, cfg.Vector.TopK)
	assert.Equal(t, 200, cfg.Vector.ChunkSize)
	assert.Equal(t, 30, cfg.Vector.ChunkOverlap)
	assert.Equal(t, 5, cfg.Graph.TopK)
	assert.Equal(t, 6000, cfg.Assemble.Budget)
	assert.Equal(t, "openai", cfg.Embedding.Backend)
	assert.Equal(t, "openai", cfg.Generation.Backend)
	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, "data", cfg.DataDir)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mnemo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
persona: "You are a pirate."
buffer:
  capacity: 8
generation:
  backend: anthropic
  model: claude-sonnet-4-20250514
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "You are a pirate.", cfg.Persona)
	assert.Equal(t, 8, cfg.Buffer.Capacity)
	assert.Equal(t, "anthropic", cfg.Generation.Backend)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Generation.Model)

	// Untouched keys keep their defaults.
	assert.Equal(t, 3, cfg.Vector.TopK)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("MNEMO_BUFFER_CAPACITY", "11")
	t.Setenv("MNEMO_EMBEDDING_BACKEND", "mock")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 11, cfg.Buffer.Capacity)
	assert.Equal(t, "mock", cfg.Embedding.Backend)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
