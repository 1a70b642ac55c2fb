package core

import "time"

// Role identifies who produced a conversational turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Turns are immutable once created;
// the short-term buffer owns them while they are in the window, and they may
// be copied (never moved) into the knowledge store on eviction.
type Turn struct {
	Role      Role
	Text      string
	Timestamp time.Time
}

// NewTurn creates a turn stamped with the current time.
func NewTurn(role Role, text string) Turn {
	return Turn{Role: role, Text: text, Timestamp: time.Now()}
}
