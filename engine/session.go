package engine

import (
	"github.com/google/uuid"

	"github.com/mnemosyne-ai/mnemo/memory"
)

// Session scopes one conversation: its own buffer and persona. Nothing in
// the pipeline is process-global, so concurrent sessions never share
// short-term state. The vector store and concept graph are shared,
// read-mostly structures.
type Session struct {
	ID      string
	Persona string
	Buffer  *memory.Buffer
}

// NewSession creates a session with a fresh buffer of the given capacity.
func NewSession(persona string, bufferCapacity int) *Session {
	return &Session{
		ID:      uuid.New().String(),
		Persona: persona,
		Buffer:  memory.NewBuffer(bufferCapacity),
	}
}
