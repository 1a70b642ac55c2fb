package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mnemosyne-ai/mnemo/assembler"
	"github.com/mnemosyne-ai/mnemo/config"
	"github.com/mnemosyne-ai/mnemo/engine"
	"github.com/mnemosyne-ai/mnemo/generate"
	genanthropic "github.com/mnemosyne-ai/mnemo/generate/anthropic"
	genopenai "github.com/mnemosyne-ai/mnemo/generate/openai"
	"github.com/mnemosyne-ai/mnemo/graph"
	"github.com/mnemosyne-ai/mnemo/knowledge"
	kchromem "github.com/mnemosyne-ai/mnemo/knowledge/store/chromem"
	"github.com/mnemosyne-ai/mnemo/memory"
	"github.com/mnemosyne-ai/mnemo/memory/embedder/cached"
	"github.com/mnemosyne-ai/mnemo/memory/embedder/mock"
	embopenai "github.com/mnemosyne-ai/mnemo/memory/embedder/openai"
)

// app holds the wired pipeline. Construction failures are fatal at startup;
// nothing here is rebuilt mid-session.
type app struct {
	cfg      *config.Config
	store    knowledge.Store
	graph    *graph.Store
	embedder memory.Embedder
	ingestor *knowledge.Ingestor
	engine   *engine.Engine

	cachedEmb *cached.Embedder
}

func wireApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := kchromem.NewPersistent(filepath.Join(cfg.DataDir, "vectors"))
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	graphStore, err := graph.Open(ctx, filepath.Join(cfg.DataDir, "concepts.db"))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open concept graph: %w", err)
	}

	embedder, cachedEmb, err := buildEmbedder(cfg)
	if err != nil {
		store.Close()
		graphStore.Close()
		return nil, err
	}

	generator, err := buildGenerator(cfg)
	if err != nil {
		store.Close()
		graphStore.Close()
		return nil, err
	}

	ingestor := knowledge.NewIngestor(store, embedder, graphStore,
		cfg.Vector.ChunkSize, cfg.Vector.ChunkOverlap)

	eng := engine.New(store, embedder, graphStore, generator, engine.Config{
		TopChunks:   cfg.Vector.TopK,
		TopKeywords: cfg.Graph.TopK,
		Limits: assembler.Limits{
			MaxKeywords:  cfg.Graph.TopK,
			MaxChunks:    cfg.Vector.TopK,
			ChunkCharCap: cfg.Vector.ChunkCharCap,
			TurnCharCap:  cfg.Assemble.TurnCharCap,
			Budget:       cfg.Assemble.Budget,
		},
		Temperature:    cfg.Generation.Temperature,
		MaxTokens:      cfg.Generation.MaxTokens,
		ForwardEvicted: true,
	})

	return &app{
		cfg:       cfg,
		store:     store,
		graph:     graphStore,
		embedder:  embedder,
		ingestor:  ingestor,
		engine:    eng,
		cachedEmb: cachedEmb,
	}, nil
}

func (a *app) close() {
	if a.cachedEmb != nil {
		a.cachedEmb.Close()
	}
	a.graph.Close()
	a.store.Close()
}

func buildEmbedder(cfg *config.Config) (memory.Embedder, *cached.Embedder, error) {
	var (
		inner memory.Embedder
		err   error
	)
	switch cfg.Embedding.Backend {
	case "openai":
		inner, err = embopenai.New(embopenai.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
	case "onnx":
		inner, err = newONNXEmbedder(cfg)
	case "mock":
		inner = mock.New(384)
	default:
		return nil, nil, fmt.Errorf("unknown embedding backend %q", cfg.Embedding.Backend)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("build %s embedder: %w", cfg.Embedding.Backend, err)
	}

	wrapped, err := cached.New(inner, cfg.Embedding.CacheSize)
	if err != nil {
		return nil, nil, fmt.Errorf("build embedding cache: %w", err)
	}
	return wrapped, wrapped, nil
}

func buildGenerator(cfg *config.Config) (generate.Generator, error) {
	switch cfg.Generation.Backend {
	case "anthropic":
		gen, err := genanthropic.New(genanthropic.Config{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:  cfg.Generation.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("build anthropic generator: %w", err)
		}
		return gen, nil
	case "openai":
		gen, err := genopenai.New(genopenai.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: cfg.Generation.BaseURL,
			Model:   cfg.Generation.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("build openai generator: %w", err)
		}
		return gen, nil
	default:
		return nil, fmt.Errorf("unknown generation backend %q", cfg.Generation.Backend)
	}
}
