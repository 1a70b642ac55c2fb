package memory

import (
	"strings"
	"sync"

	"github.com/mnemosyne-ai/mnemo/core"
)

// DefaultCapacity is the buffer size used when none is configured.
const DefaultCapacity = 5

// Buffer is a bounded, ordered window over recent conversational turns.
// Insertion order is chronological order and length never exceeds capacity.
//
// A Buffer belongs to exactly one session. The mutex makes concurrent use
// safe (the websocket server reads snapshots while a turn is in flight),
// but there is no cross-session sharing.
type Buffer struct {
	mu       sync.Mutex
	turns    []core.Turn
	capacity int
}

// NewBuffer creates a buffer holding at most capacity turns.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// Append inserts a turn at the tail. If the buffer is over capacity the
// oldest turn is evicted and returned with ok=true; the caller may forward
// it to long-term storage. Append always succeeds.
func (b *Buffer) Append(t core.Turn) (evicted core.Turn, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.turns = append(b.turns, t)
	if len(b.turns) > b.capacity {
		evicted = b.turns[0]
		b.turns = append([]core.Turn(nil), b.turns[1:]...)
		return evicted, true
	}
	return core.Turn{}, false
}

// Snapshot returns a copy of the current turns, most recent last.
func (b *Buffer) Snapshot() []core.Turn {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]core.Turn, len(b.turns))
	copy(out, b.turns)
	return out
}

// Len reports the number of buffered turns.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.turns)
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.turns = nil
}

// FormatTranscript renders the buffered turns as a readable block, one
// "Role: text" line per turn, each line trimmed to maxLineLen characters.
// An empty buffer renders as an empty string.
func (b *Buffer) FormatTranscript(maxLineLen int) string {
	return FormatTurns(b.Snapshot(), maxLineLen)
}

// FormatTurns renders turns the way FormatTranscript does. The assembler
// uses it on snapshots it has already trimmed for budget.
func FormatTurns(turns []core.Turn, maxLineLen int) string {
	if len(turns) == 0 {
		return ""
	}

	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		text := t.Text
		if maxLineLen > 0 && len(text) > maxLineLen {
			text = text[:maxLineLen]
		}
		lines = append(lines, capitalize(string(t.Role))+": "+text)
	}
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
