package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ConversationTurn is one user/assistant exchange kept verbatim.
type ConversationTurn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
	At        int64  `json:"at"`
}

// ConversationMemory holds the bounded per-conversation context: a running
// summary of everything old plus the most recent turns verbatim. The
// serialized prompt form must never exceed the configured token budget.
type ConversationMemory struct {
	ConversationID string          `json:"conversation_id" db:"conversation_id"`
	Summary        string          `json:"summary" db:"summary"`
	Turns          json.RawMessage `json:"turns" db:"turns"`
	UpdatedAt      int64           `json:"updated_at" db:"updated_at"`
}

func (m *ConversationMemory) DecodeTurns() ([]ConversationTurn, error) {
	if len(m.Turns) == 0 {
		return nil, nil
	}
	var turns []ConversationTurn
	err := json.Unmarshal(m.Turns, &turns)
	return turns, err
}

// RenderMemoryPrompt is the single-string read path used for prompt
// composition; this exact form is what the token budget is measured on.
func RenderMemoryPrompt(summary string, turns []ConversationTurn) string {
	b := strings.Builder{}
	if summary != "" {
		b.WriteString("Earlier in this conversation: ")
		b.WriteString(summary)
		b.WriteString("\n")
	}
	for _, t := range turns {
		b.WriteString(fmt.Sprintf("User: %s\nAssistant: %s\n", t.User, t.Assistant))
	}
	return strings.TrimRight(b.String(), "\n")
}
