package v1_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/postpilot-ai/postpilot/app/logic/v1"
	"github.com/postpilot-ai/postpilot/pkg/ai"
	"github.com/postpilot-ai/postpilot/pkg/types"
	"github.com/postpilot-ai/postpilot/pkg/utils"
)

func TestMemoryAppendAndRender(t *testing.T) {
	app := newTestCore(t)
	logic := v1.NewMemoryLogic(ctx, app)

	conversationID := "conv-" + utils.RandomStr(8)

	rendered, err := logic.Render(conversationID)
	require.NoError(t, err)
	assert.Empty(t, rendered)

	require.NoError(t, logic.Append(conversationID, "when is the next event?", "It's on March 15th at City Hall."))

	rendered, err = logic.Render(conversationID)
	require.NoError(t, err)
	assert.Contains(t, rendered, "User: when is the next event?")
	assert.Contains(t, rendered, "Assistant: It's on March 15th at City Hall.")
}

func TestMemoryStaysWithinBudget(t *testing.T) {
	app := newTestCore(t)
	logic := v1.NewMemoryLogic(ctx, app)

	conversationID := "conv-" + utils.RandomStr(8)
	budget := app.Cfg().RAG.MemoryTokenBudget

	// enough turns to overflow the budget several times over
	filler := strings.Repeat("tell me more about the venue and the schedule ", 4)
	for i := 0; i < 8; i++ {
		require.NoError(t, logic.Append(conversationID, filler, filler))
	}

	rendered, err := logic.Render(conversationID)
	require.NoError(t, err)
	assert.LessOrEqual(t, ai.CountTokens(rendered, "gpt-4o-mini"), budget)
}

func TestRenderMemoryPromptShape(t *testing.T) {
	out := types.RenderMemoryPrompt("They asked about pricing.", []types.ConversationTurn{
		{User: "how much is it?", Assistant: "Tickets are $20."},
	})
	assert.Contains(t, out, "Earlier in this conversation: They asked about pricing.")
	assert.Contains(t, out, "User: how much is it?")
	assert.Contains(t, out, "Assistant: Tickets are $20.")
}
