package sqlstore_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpilot-ai/postpilot/app/store/sqlstore"
	"github.com/postpilot-ai/postpilot/pkg/types"
	"github.com/postpilot-ai/postpilot/pkg/utils"
)

var ctx = context.Background()

type dsnConfig string

func (d dsnConfig) FormatDSN() string { return string(d) }

func newProvider(t *testing.T) *sqlstore.Provider {
	dsn := os.Getenv("POSTPILOT_POSTGRESQL_DSN")
	if dsn == "" {
		t.Skip("set POSTPILOT_POSTGRESQL_DSN to run store tests")
	}

	provider := sqlstore.MustSetup(dsnConfig(dsn))()
	require.NoError(t, provider.Install())
	return provider
}

func TestMarkProcessedClaimsOnce(t *testing.T) {
	provider := newProvider(t)
	store := provider.ProcessedMessageStore()

	msg := types.ProcessedMessage{
		MessageID:      "test-" + utils.RandomStr(16),
		ConversationID: "conv-1",
	}

	claimed, err := store.MarkProcessed(ctx, msg)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = store.MarkProcessed(ctx, msg)
	require.NoError(t, err)
	assert.False(t, claimed)

	exists, err := store.Exists(ctx, msg.MessageID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestVectorUpsertAndQuery(t *testing.T) {
	provider := newProvider(t)
	store := provider.VectorStore()

	postID := "post-" + utils.RandomStr(12)
	embedding := make([]float32, 768)
	embedding[0] = 1

	metadata, err := json.Marshal(types.VectorMetadata{
		Facts:   map[string]string{"venue": "City Hall"},
		Caption: "launch day",
	})
	require.NoError(t, err)

	entry := types.VectorEntry{
		PostID:    postID,
		Platform:  types.PLATFORM_INSTAGRAM,
		Embedding: pgvector.NewVector(embedding),
		Metadata:  metadata,
	}
	require.NoError(t, store.Upsert(ctx, entry))

	// upsert again, still one row
	require.NoError(t, store.Upsert(ctx, entry))

	got, err := store.Get(ctx, postID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.PLATFORM_INSTAGRAM, got.Platform)

	hits, err := store.Query(ctx, types.GetVectorsOptions{PostID: postID}, pgvector.NewVector(embedding), 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, postID, hits[0].PostID)
	assert.InDelta(t, 1.0, float64(hits[0].Cos), 0.001)

	meta, err := hits[0].DecodeMetadata()
	require.NoError(t, err)
	assert.Equal(t, "City Hall", meta.Facts["venue"])

	require.NoError(t, store.Delete(ctx, postID))
	got, err = store.Get(ctx, postID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostLifecycle(t *testing.T) {
	provider := newProvider(t)
	store := provider.PostStore()

	postID := "post-" + utils.RandomStr(12)
	require.NoError(t, store.Create(ctx, types.Post{
		PostID:        postID,
		Caption:       "hello world",
		Platform:      types.PLATFORM_LINKEDIN,
		ScheduledTime: time.Now().Unix() - 60,
	}))

	pending, err := store.List(ctx, types.ListPostOptions{PostID: postID, OnlyPending: true}, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, store.MarkIngested(ctx, postID, time.Now().Unix()))

	pending, err = store.List(ctx, types.ListPostOptions{PostID: postID, OnlyPending: true}, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCustomConfigRoundTrip(t *testing.T) {
	provider := newProvider(t)
	store := provider.CustomConfigStore()

	name := "test." + utils.RandomStr(8)
	raw, _ := json.Marshal(true)

	require.NoError(t, store.Upsert(ctx, types.CustomConfig{
		Name:     name,
		Category: types.AUTOREPLY_CATEGORY,
		Value:    raw,
		Status:   types.StatusEnabled,
	}))

	got, err := store.Get(ctx, name)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.BoolValue())

	raw, _ = json.Marshal(false)
	require.NoError(t, store.Upsert(ctx, types.CustomConfig{
		Name:     name,
		Category: types.AUTOREPLY_CATEGORY,
		Value:    raw,
		Status:   types.StatusEnabled,
	}))

	got, err = store.Get(ctx, name)
	require.NoError(t, err)
	assert.False(t, got.BoolValue())
}

func TestConversationMemoryRoundTrip(t *testing.T) {
	provider := newProvider(t)
	store := provider.ConversationMemoryStore()

	conversationID := "conv-" + utils.RandomStr(12)

	got, err := store.Get(ctx, conversationID)
	require.NoError(t, err)
	assert.Nil(t, got)

	turns, _ := json.Marshal([]types.ConversationTurn{{User: "hi", Assistant: "hello"}})
	require.NoError(t, store.Upsert(ctx, types.ConversationMemory{
		ConversationID: conversationID,
		Summary:        "greeting",
		Turns:          turns,
	}))

	got, err = store.Get(ctx, conversationID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "greeting", got.Summary)

	decoded, err := got.DecodeTurns()
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "hi", decoded[0].User)
}
