package assembler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemosyne-ai/mnemo/assembler"
	"github.com/mnemosyne-ai/mnemo/core"
	"github.com/mnemosyne-ai/mnemo/graph"
	"github.com/mnemosyne-ai/mnemo/knowledge"
)

func hit(text string, score float32) knowledge.Hit {
	return knowledge.Hit{Chunk: knowledge.Chunk{Text: text}, Score: score}
}

func TestAssembleAlwaysContainsPersonaAndQuery(t *testing.T) {
	t.Parallel()

	out := assembler.Assemble(assembler.Input{
		Persona: "You are a terse assistant.",
		Query:   "what is a vector index?",
	}, assembler.Limits{})

	assert.Contains(t, out, "You are a terse assistant.")
	assert.Contains(t, out, "USER QUESTION:\nwhat is a vector index?")
	assert.NotContains(t, out, "RETRIEVED KNOWLEDGE")
	assert.NotContains(t, out, "RELATED TOPICS")
	assert.NotContains(t, out, "CONVERSATION HISTORY")
}

func TestAssembleOrdersChunksByDescendingScore(t *testing.T) {
	t.Parallel()

	out := assembler.Assemble(assembler.Input{
		Persona: "persona",
		Query:   "q",
		Hits: []knowledge.Hit{
			hit("middle chunk", 0.7),
			hit("best chunk", 0.9),
			hit("worst chunk", 0.5),
		},
	}, assembler.Limits{})

	best := strings.Index(out, "best chunk")
	middle := strings.Index(out, "middle chunk")
	worst := strings.Index(out, "worst chunk")
	require.True(t, best >= 0 && middle >= 0 && worst >= 0)
	assert.Less(t, best, middle)
	assert.Less(t, middle, worst)

	assert.Contains(t, out, "[FACT 1]: best chunk")
	assert.Contains(t, out, "[FACT 3]: worst chunk")
}

func TestAssembleKeywordLineOrderedByWeight(t *testing.T) {
	t.Parallel()

	out := assembler.Assemble(assembler.Input{
		Persona: "persona",
		Query:   "tell me about python",
		Keywords: []graph.Concept{
			{Label: "linux", Weight: 5},
			{Label: "matplotlib", Weight: 3},
		},
	}, assembler.Limits{})

	assert.Contains(t, out, "RELATED TOPICS: linux, matplotlib")
}

func TestAssembleTurnsChronological(t *testing.T) {
	t.Parallel()

	out := assembler.Assemble(assembler.Input{
		Persona: "persona",
		Query:   "q",
		Turns: []core.Turn{
			core.NewTurn(core.RoleUser, "first question"),
			core.NewTurn(core.RoleAssistant, "first answer"),
		},
	}, assembler.Limits{})

	assert.Contains(t, out, "CONVERSATION HISTORY:\nUser: first question\nAssistant: first answer")
}

func TestAssembleTruncationDropsLowestPriorityFirst(t *testing.T) {
	t.Parallel()

	persona := "persona block"
	query := "the live question"
	long := strings.Repeat("x", 180)

	in := assembler.Input{
		Persona: persona,
		Query:   query,
		Keywords: []graph.Concept{
			{Label: "alpha", Weight: 2},
		},
		Hits: []knowledge.Hit{
			hit("chunk-high "+long, 0.9),
			hit("chunk-low "+long, 0.4),
		},
		Turns: []core.Turn{
			core.NewTurn(core.RoleUser, "oldest turn "+long),
			core.NewTurn(core.RoleAssistant, "newest turn "+long),
		},
	}

	// Roomy budget keeps everything.
	full := assembler.Assemble(in, assembler.Limits{Budget: 10000})
	assert.Contains(t, full, "oldest turn")
	assert.Contains(t, full, "chunk-low")
	assert.Contains(t, full, "RELATED TOPICS")

	// Squeeze until only one turn fits: the oldest goes first.
	squeezed := assembler.Assemble(in, assembler.Limits{Budget: len(full) - 1})
	assert.NotContains(t, squeezed, "oldest turn")
	assert.Contains(t, squeezed, "newest turn")
	assert.Contains(t, squeezed, "chunk-low")

	// Tighter still: all turns gone before any chunk, lowest-scoring chunk
	// gone before the best one, keywords last.
	tight := assembler.Assemble(in, assembler.Limits{Budget: 450})
	assert.NotContains(t, tight, "CONVERSATION HISTORY")
	assert.NotContains(t, tight, "chunk-low")
	assert.Contains(t, tight, "chunk-high")

	// Persona and query survive any budget.
	minimal := assembler.Assemble(in, assembler.Limits{Budget: 1})
	assert.Contains(t, minimal, persona)
	assert.Contains(t, minimal, query)
	assert.NotContains(t, minimal, "RETRIEVED KNOWLEDGE")
	assert.NotContains(t, minimal, "RELATED TOPICS")
	assert.NotContains(t, minimal, "CONVERSATION HISTORY")
}

func TestAssembleDeterministic(t *testing.T) {
	t.Parallel()

	in := assembler.Input{
		Persona:  "persona",
		Query:    "q",
		Keywords: []graph.Concept{{Label: "alpha", Weight: 1}, {Label: "beta", Weight: 1}},
		Hits:     []knowledge.Hit{hit("a", 0.5), hit("b", 0.5)},
		Turns:    []core.Turn{core.NewTurn(core.RoleUser, "hello")},
	}
	lim := assembler.Limits{Budget: 300}

	first := assembler.Assemble(in, lim)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, assembler.Assemble(in, lim))
	}
}

func TestAssembleCapsChunkAndKeywordCounts(t *testing.T) {
	t.Parallel()

	in := assembler.Input{
		Persona: "persona",
		Query:   "q",
		Keywords: []graph.Concept{
			{Label: "k1", Weight: 6}, {Label: "k2", Weight: 5}, {Label: "k3", Weight: 4},
			{Label: "k4", Weight: 3}, {Label: "k5", Weight: 2}, {Label: "k6", Weight: 1},
		},
		Hits: []knowledge.Hit{
			hit("h1", 0.9), hit("h2", 0.8), hit("h3", 0.7), hit("h4", 0.6),
		},
	}

	out := assembler.Assemble(in, assembler.Limits{})
	assert.Contains(t, out, "k5")
	assert.NotContains(t, out, "k6")
	assert.Contains(t, out, "[FACT 3]: h3")
	assert.NotContains(t, out, "h4")
}

func TestAssembleTrimsChunkText(t *testing.T) {
	t.Parallel()

	out := assembler.Assemble(assembler.Input{
		Persona: "persona",
		Query:   "q",
		Hits:    []knowledge.Hit{hit(strings.Repeat("y", 100), 0.9)},
	}, assembler.Limits{ChunkCharCap: 10})

	assert.Contains(t, out, "[FACT 1]: yyyyyyyyyy\n")
	assert.NotContains(t, out, strings.Repeat("y", 11))
}
