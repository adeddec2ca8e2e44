package store

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/postpilot-ai/postpilot/pkg/sqlstore"
	"github.com/postpilot-ai/postpilot/pkg/types"
)

// VectorStore is the knowledge-store adapter. Upsert is keyed by post_id and
// replaces in place; Query returns cosine hits best-first and an empty slice
// (not an error) when the store is empty.
type VectorStore interface {
	sqlstore.SqlCommons
	Upsert(ctx context.Context, data types.VectorEntry) error
	Get(ctx context.Context, postID string) (*types.VectorEntry, error)
	Query(ctx context.Context, opts types.GetVectorsOptions, vector pgvector.Vector, limit uint64) ([]types.VectorQueryResult, error)
	Total(ctx context.Context) (uint64, error)
	Delete(ctx context.Context, postID string) error
}

// ProcessedMessageStore is the durable dedup set. MarkProcessed returns
// false when the message id was already claimed; the insert itself resolves
// concurrent duplicate delivery.
type ProcessedMessageStore interface {
	sqlstore.SqlCommons
	MarkProcessed(ctx context.Context, data types.ProcessedMessage) (bool, error)
	Exists(ctx context.Context, messageID string) (bool, error)
	Total(ctx context.Context) (uint64, error)
}

type ConversationMemoryStore interface {
	sqlstore.SqlCommons
	Get(ctx context.Context, conversationID string) (*types.ConversationMemory, error)
	Upsert(ctx context.Context, data types.ConversationMemory) error
}

type PostStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Post) error
	Get(ctx context.Context, postID string) (*types.Post, error)
	List(ctx context.Context, opts types.ListPostOptions, limit uint64) ([]types.Post, error)
	MarkIngested(ctx context.Context, postID string, at int64) error
}

type CustomConfigStore interface {
	sqlstore.SqlCommons
	Get(ctx context.Context, name string) (*types.CustomConfig, error)
	Upsert(ctx context.Context, data types.CustomConfig) error
}
