package types

import (
	"errors"
	"time"
)

// InboundMessage is a DM delivered by the webhook collaborator. Only the
// fields the reply engine consumes, the wire format stays outside.
type InboundMessage struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	Text           string    `json:"text"`
	ReceivedAt     time.Time `json:"received_at"`
}

// ProcessedMessage is one row of the durable dedup set.
type ProcessedMessage struct {
	MessageID      string `json:"message_id" db:"message_id"`
	ConversationID string `json:"conversation_id" db:"conversation_id"`
	ProcessedAt    int64  `json:"processed_at" db:"processed_at"`
}

// Reply sources for ReplyResult.Source.
const (
	REPLY_SOURCE_GATEKEEPER = "gatekeeper"
	REPLY_SOURCE_MODEL      = "model"
	REPLY_SOURCE_FALLBACK   = "fallback"
)

// Discard reasons. These are outcomes, not errors: the pipeline stays
// intentionally silent for all three.
const (
	DISCARD_STALE     = "stale"
	DISCARD_DUPLICATE = "duplicate"
	DISCARD_DISABLED  = "disabled"
)

// ReplyResult is the whole output of the chat pipeline for one message.
// Either Discarded is set with a reason, or Reply carries the text for the
// delivery collaborator. Metadata fields are observability only.
type ReplyResult struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id"`
	Source         string `json:"source"`
	TokensUsed     int    `json:"tokens_used"`
	SourcePostID   string `json:"source_post_id,omitempty"`
	LatencyMS      int64  `json:"latency_ms"`
	Discarded      bool   `json:"discarded"`
	DiscardReason  string `json:"discard_reason,omitempty"`
}

func Discard(reason string) *ReplyResult {
	return &ReplyResult{Discarded: true, DiscardReason: reason}
}

// Reply-engine error kinds. Callers match with errors.Is.
var (
	ErrModelUnavailable  = errors.New("model service unavailable")
	ErrStoreUnavailable  = errors.New("vector store unavailable")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrEmptyPost         = errors.New("post has no ingestable content")
)
