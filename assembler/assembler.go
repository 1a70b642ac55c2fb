// Package assembler merges the short-term buffer, vector hits, and graph
// concepts into one bounded prompt. Output is deterministic for identical
// inputs; with every lookup empty it still produces persona + query.
package assembler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mnemosyne-ai/mnemo/core"
	"github.com/mnemosyne-ai/mnemo/graph"
	"github.com/mnemosyne-ai/mnemo/knowledge"
	"github.com/mnemosyne-ai/mnemo/memory"
)

// DefaultPersona is the system instruction used when none is configured.
const DefaultPersona = `You are a helpful, knowledgeable assistant.
Answer questions directly in plain text.
Use the RETRIEVED KNOWLEDGE below to answer factual questions accurately.
If the knowledge contains the answer, use it. Be concise and direct.`

// Input carries everything one assembly needs. Retrieval results may be
// empty or nil; only Persona and Query are required.
type Input struct {
	Persona  string
	Query    string
	Keywords []graph.Concept
	Hits     []knowledge.Hit
	Turns    []core.Turn
}

// Limits bounds the assembled prompt. Zero values take defaults.
type Limits struct {
	// MaxKeywords caps the RELATED TOPICS line (default 5).
	MaxKeywords int

	// MaxChunks caps retrieved knowledge chunks (default 3).
	MaxChunks int

	// ChunkCharCap trims each chunk's text (default 700).
	ChunkCharCap int

	// TurnCharCap trims each history line (default 200).
	TurnCharCap int

	// Budget is the global character budget (default 6000). When exceeded,
	// the lowest-priority content is dropped first: oldest buffer turns,
	// then lowest-scoring chunks, then the keyword line. Persona and query
	// are never touched.
	Budget int
}

func (l Limits) withDefaults() Limits {
	if l.MaxKeywords <= 0 {
		l.MaxKeywords = 5
	}
	if l.MaxChunks <= 0 {
		l.MaxChunks = 3
	}
	if l.ChunkCharCap <= 0 {
		l.ChunkCharCap = 700
	}
	if l.TurnCharCap <= 0 {
		l.TurnCharCap = 200
	}
	if l.Budget <= 0 {
		l.Budget = 6000
	}
	return l
}

// Assemble builds the prompt text. Section order: persona, related topics,
// retrieved knowledge (descending score), conversation history
// (chronological), then the delimited current query.
func Assemble(in Input, lim Limits) string {
	lim = lim.withDefaults()

	persona := in.Persona
	if persona == "" {
		persona = DefaultPersona
	}

	keywords := in.Keywords
	if len(keywords) > lim.MaxKeywords {
		keywords = keywords[:lim.MaxKeywords]
	}

	// Sort defensively; stores already return descending scores.
	hits := append([]knowledge.Hit(nil), in.Hits...)
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > lim.MaxChunks {
		hits = hits[:lim.MaxChunks]
	}

	turns := append([]core.Turn(nil), in.Turns...)

	out := render(persona, in.Query, keywords, hits, turns, lim)
	for len(out) > lim.Budget {
		if !dropLowestPriority(&keywords, &hits, &turns) {
			break
		}
		out = render(persona, in.Query, keywords, hits, turns, lim)
	}
	return out
}

// dropOrder is the truncation priority, lowest first. Persona and query
// have no entry: they are never dropped.
var dropOrder = []core.SourceKind{
	core.SourceBufferTurn,
	core.SourceVectorChunk,
	core.SourceGraphKeyword,
}

// dropLowestPriority removes one piece of optional context following
// dropOrder: the oldest buffer turn, then the lowest-scoring chunk, then
// the whole keyword line. Reports false when nothing is left to drop.
func dropLowestPriority(keywords *[]graph.Concept, hits *[]knowledge.Hit, turns *[]core.Turn) bool {
	for _, kind := range dropOrder {
		switch kind {
		case core.SourceBufferTurn:
			if len(*turns) > 0 {
				*turns = (*turns)[1:]
				return true
			}
		case core.SourceVectorChunk:
			if len(*hits) > 0 {
				*hits = (*hits)[:len(*hits)-1]
				return true
			}
		case core.SourceGraphKeyword:
			if len(*keywords) > 0 {
				*keywords = nil
				return true
			}
		}
	}
	return false
}

func render(persona, query string, keywords []graph.Concept, hits []knowledge.Hit, turns []core.Turn, lim Limits) string {
	sections := []string{persona}

	if len(keywords) > 0 {
		labels := make([]string, len(keywords))
		for i, kw := range keywords {
			labels[i] = kw.Label
		}
		sections = append(sections, "RELATED TOPICS: "+strings.Join(labels, ", "))
	}

	if len(hits) > 0 {
		var b strings.Builder
		b.WriteString("RETRIEVED KNOWLEDGE:")
		for i, hit := range hits {
			text := hit.Chunk.Text
			if len(text) > lim.ChunkCharCap {
				text = text[:lim.ChunkCharCap]
			}
			fmt.Fprintf(&b, "\n[FACT %d]: %s", i+1, text)
		}
		sections = append(sections, b.String())
	}

	if len(turns) > 0 {
		sections = append(sections, "CONVERSATION HISTORY:\n"+memory.FormatTurns(turns, lim.TurnCharCap))
	}

	sections = append(sections, "USER QUESTION:\n"+query)

	return strings.Join(sections, "\n\n")
}
