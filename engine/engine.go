// Package engine orchestrates one conversational turn: buffer update,
// parallel-contract lookups against the vector store and concept graph,
// context assembly, generation, and response recording.
//
// Processing is synchronous. One turn completes fully before the next is
// accepted for a session; external calls (embedding, search, generation)
// are blocking black boxes.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/mnemosyne-ai/mnemo/assembler"
	"github.com/mnemosyne-ai/mnemo/core"
	"github.com/mnemosyne-ai/mnemo/generate"
	"github.com/mnemosyne-ai/mnemo/graph"
	"github.com/mnemosyne-ai/mnemo/knowledge"
	"github.com/mnemosyne-ai/mnemo/memory"
)

// ConceptGraph is the concept graph capability the engine consumes.
// Implemented by graph.Store.
type ConceptGraph interface {
	Related(ctx context.Context, query string, limit int) ([]graph.Concept, error)
	Update(ctx context.Context, text string) error
}

// Config tunes per-turn behavior. Zero values take defaults.
type Config struct {
	// TopChunks is the k for vector retrieval (default 3).
	TopChunks int

	// TopKeywords caps graph expansion (default 5).
	TopKeywords int

	// Limits bounds prompt assembly.
	Limits assembler.Limits

	// Generation options passed to the backend.
	Temperature float64
	MaxTokens   int

	// ForwardEvicted compresses turns evicted from the buffer into the
	// knowledge store instead of dropping them.
	ForwardEvicted bool

	// EvictedCharCap trims the evicted turn text before storage (default 300).
	EvictedCharCap int
}

func (c Config) withDefaults() Config {
	if c.TopChunks <= 0 {
		c.TopChunks = 3
	}
	if c.TopKeywords <= 0 {
		c.TopKeywords = 5
	}
	if c.EvictedCharCap <= 0 {
		c.EvictedCharCap = 300
	}
	return c
}

// Engine wires the pipeline components together.
type Engine struct {
	store     knowledge.Store
	embedder  memory.Embedder
	concepts  ConceptGraph
	generator generate.Generator
	cfg       Config
}

// New creates an engine. concepts may be nil to run without a graph.
func New(store knowledge.Store, embedder memory.Embedder, concepts ConceptGraph, generator generate.Generator, cfg Config) *Engine {
	return &Engine{
		store:     store,
		embedder:  embedder,
		concepts:  concepts,
		generator: generator,
		cfg:       cfg.withDefaults(),
	}
}

// Run processes one user turn for the session and returns the assistant
// response. Failed lookups degrade the prompt (their section is omitted);
// a generation failure is returned to the caller as a recoverable error
// with the user turn still buffered.
func (e *Engine) Run(ctx context.Context, sess *Session, userMessage string) (string, error) {
	e.recordTurn(ctx, sess, core.NewTurn(core.RoleUser, userMessage))

	keywords := e.lookupConcepts(ctx, userMessage)
	hits := e.lookupChunks(ctx, userMessage)

	prompt := assembler.Assemble(assembler.Input{
		Persona:  sess.Persona,
		Query:    userMessage,
		Keywords: keywords,
		Hits:     hits,
		Turns:    sess.Buffer.Snapshot(),
	}, e.cfg.Limits)

	// Learn concepts from the new input after retrieval, so the current
	// message does not inflate its own expansion.
	if e.concepts != nil {
		if err := e.concepts.Update(ctx, userMessage); err != nil {
			log.Printf("[ENGINE] concept update failed: %v", err)
		}
	}

	text, err := e.generator.Generate(ctx, prompt, generate.Options{
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	text = strings.TrimSpace(text)
	if text != "" {
		e.recordTurn(ctx, sess, core.NewTurn(core.RoleAssistant, text))
	}
	return text, nil
}

// lookupConcepts expands the query through the concept graph. Failure
// degrades to an empty section.
func (e *Engine) lookupConcepts(ctx context.Context, query string) []graph.Concept {
	if e.concepts == nil {
		return nil
	}
	keywords, err := e.concepts.Related(ctx, query, e.cfg.TopKeywords)
	if err != nil {
		log.Printf("[ENGINE] concept lookup failed: %v", err)
		return nil
	}
	return keywords
}

// lookupChunks embeds the query and retrieves nearest chunks. Failure
// degrades to an empty section.
func (e *Engine) lookupChunks(ctx context.Context, query string) []knowledge.Hit {
	embedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("[ENGINE] query embedding failed: %v", err)
		return nil
	}
	hits, err := e.store.Query(ctx, embedding, e.cfg.TopChunks)
	if err != nil {
		log.Printf("[ENGINE] vector lookup failed: %v", err)
		return nil
	}
	return hits
}

// recordTurn appends to the session buffer and, when configured, forwards
// the evicted turn to long-term storage. Forwarding is the engine's policy;
// the buffer stays decoupled from storage.
func (e *Engine) recordTurn(ctx context.Context, sess *Session, turn core.Turn) {
	evicted, ok := sess.Buffer.Append(turn)
	if !ok || !e.cfg.ForwardEvicted {
		return
	}

	text := evicted.Text
	if len(text) > e.cfg.EvictedCharCap {
		text = text[:e.cfg.EvictedCharCap]
	}
	compressed := fmt.Sprintf("[PAST MEMORY - %s]: %s", strings.ToUpper(string(evicted.Role)), text)

	embedding, err := e.embedder.Embed(ctx, compressed)
	if err != nil {
		log.Printf("[ENGINE] embed evicted turn: %v", err)
		return
	}
	err = e.store.Insert(ctx, knowledge.Chunk{
		ID:         uuid.New().String(),
		Text:       compressed,
		SourceFile: "conversation",
		Embedding:  embedding,
	})
	if err != nil {
		log.Printf("[ENGINE] store evicted turn: %v", err)
		return
	}
	log.Printf("[MEMORY] compressed evicted %s turn to long-term store", evicted.Role)
}
