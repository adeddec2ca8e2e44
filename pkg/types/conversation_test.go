package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationMemoryDecodeTurns(t *testing.T) {
	turns := []ConversationTurn{
		{User: "hi", Assistant: "hello", At: 100},
		{User: "when?", Assistant: "tomorrow", At: 200},
	}
	raw, err := json.Marshal(turns)
	require.NoError(t, err)

	m := ConversationMemory{Turns: raw}
	decoded, err := m.DecodeTurns()
	require.NoError(t, err)
	assert.Equal(t, turns, decoded)
}

func TestConversationMemoryDecodeEmpty(t *testing.T) {
	m := ConversationMemory{}
	decoded, err := m.DecodeTurns()
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestRenderMemoryPromptEmpty(t *testing.T) {
	assert.Equal(t, "", RenderMemoryPrompt("", nil))
}

func TestRenderMemoryPromptNoSummary(t *testing.T) {
	out := RenderMemoryPrompt("", []ConversationTurn{{User: "a", Assistant: "b"}})
	assert.Equal(t, "User: a\nAssistant: b", out)
}
