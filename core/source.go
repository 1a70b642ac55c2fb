package core

// SourceKind tags which knowledge source contributed a piece of assembled
// context. The assembler's truncation and ordering logic switches on this
// tag instead of inspecting the shape of the value.
type SourceKind int

const (
	// SourceBufferTurn is a turn from the short-term conversation buffer.
	SourceBufferTurn SourceKind = iota

	// SourceVectorChunk is a chunk retrieved from the vector knowledge store.
	SourceVectorChunk

	// SourceGraphKeyword is a keyword expanded from the concept graph.
	SourceGraphKeyword
)

func (k SourceKind) String() string {
	switch k {
	case SourceBufferTurn:
		return "buffer_turn"
	case SourceVectorChunk:
		return "vector_chunk"
	case SourceGraphKeyword:
		return "graph_keyword"
	default:
		return "unknown"
	}
}
