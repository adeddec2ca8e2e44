package v1_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpilot-ai/postpilot/app/core"
	v1 "github.com/postpilot-ai/postpilot/app/logic/v1"
	"github.com/postpilot-ai/postpilot/pkg/types"
	"github.com/postpilot-ai/postpilot/pkg/utils"
)

var ctx = context.Background()

func newTestCore(t *testing.T) *core.Core {
	if os.Getenv("POSTPILOT_POSTGRESQL_DSN") == "" {
		t.Skip("set POSTPILOT_POSTGRESQL_DSN to run integration tests")
	}
	return core.MustSetupCore(core.LoadBaseConfigFromENV())
}

func TestHandleMessageDuplicateDiscard(t *testing.T) {
	app := newTestCore(t)
	logic := v1.NewTalkerLogic(ctx, app)

	msg := types.InboundMessage{
		MessageID:      "test-" + utils.RandomStr(16),
		ConversationID: "conv-" + utils.RandomStr(8),
		Text:           "hi",
		ReceivedAt:     time.Now(),
	}

	first, err := logic.HandleMessage(msg)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := logic.HandleMessage(msg)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.True(t, second.Discarded)
	assert.Equal(t, types.DISCARD_DUPLICATE, second.DiscardReason)
}

func TestHandleMessageStaleDiscard(t *testing.T) {
	app := newTestCore(t)
	logic := v1.NewTalkerLogic(ctx, app)

	result, err := logic.HandleMessage(types.InboundMessage{
		MessageID:      "test-" + utils.RandomStr(16),
		ConversationID: "conv-" + utils.RandomStr(8),
		Text:           "is the event still on?",
		ReceivedAt:     time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, result.Discarded)
	assert.Equal(t, types.DISCARD_STALE, result.DiscardReason)
}

func TestGatekeeperReplySkipsMemory(t *testing.T) {
	app := newTestCore(t)
	logic := v1.NewTalkerLogic(ctx, app)
	require.NoError(t, app.SetAutoReply(ctx, true))

	conversationID := "conv-" + utils.RandomStr(8)
	result, err := logic.HandleMessage(types.InboundMessage{
		MessageID:      "test-" + utils.RandomStr(16),
		ConversationID: conversationID,
		Text:           "hi",
		ReceivedAt:     time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, types.REPLY_SOURCE_GATEKEEPER, result.Source)
	assert.NotEmpty(t, result.Reply)

	// small talk must not leave a memory row behind
	memory, err := app.Store().ConversationMemoryStore().Get(ctx, conversationID)
	require.NoError(t, err)
	assert.Nil(t, memory)
}

func TestAutoReplyToggleRoundTrip(t *testing.T) {
	app := newTestCore(t)
	logic := v1.NewTalkerLogic(ctx, app)

	require.NoError(t, app.SetAutoReply(ctx, false))
	assert.False(t, app.AutoReplyEnabled())

	result, err := logic.HandleMessage(types.InboundMessage{
		MessageID:      "test-" + utils.RandomStr(16),
		ConversationID: "conv-" + utils.RandomStr(8),
		Text:           "hello there",
		ReceivedAt:     time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, result.Discarded)
	assert.Equal(t, types.DISCARD_DISABLED, result.DiscardReason)

	require.NoError(t, app.SetAutoReply(ctx, true))
	assert.True(t, app.AutoReplyEnabled())
}

func TestHandleMessageRequiresIDs(t *testing.T) {
	app := newTestCore(t)
	logic := v1.NewTalkerLogic(ctx, app)

	_, err := logic.HandleMessage(types.InboundMessage{Text: "hello"})
	assert.Error(t, err)
}
