package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/postpilot-ai/postpilot/app/core"
	"github.com/postpilot-ai/postpilot/pkg/ai"
	"github.com/postpilot-ai/postpilot/pkg/errors"
	"github.com/postpilot-ai/postpilot/pkg/types"
	"github.com/postpilot-ai/postpilot/pkg/utils"
)

const dedupCacheTTL = 24 * time.Hour

// TalkerLogic is the chat pipeline: one inbound DM in, one reply or a silent
// discard out. The stages run in a fixed order; everything before the
// gatekeeper costs nothing.
type TalkerLogic struct {
	ctx        context.Context
	core       *core.Core
	gatekeeper *Gatekeeper
	memory     *MemoryLogic
}

var sharedGatekeeper = NewGatekeeper()

func NewTalkerLogic(ctx context.Context, core *core.Core) *TalkerLogic {
	return &TalkerLogic{
		ctx:        ctx,
		core:       core,
		gatekeeper: sharedGatekeeper,
		memory:     NewMemoryLogic(ctx, core),
	}
}

// HandleMessage runs the full lifecycle for one DM. Discards are outcomes,
// not errors: stale, duplicate and disabled all return a ReplyResult with
// Discarded set and no error.
func (l *TalkerLogic) HandleMessage(msg types.InboundMessage) (*types.ReplyResult, error) {
	start := time.Now()

	if msg.MessageID == "" || msg.ConversationID == "" {
		return nil, errors.New("TalkerLogic.HandleMessage.validate", "message_id and conversation_id are required", nil).Code(http.StatusBadRequest)
	}

	stale := false
	cutoff := time.Duration(l.core.Cfg().RAG.StalenessCutoffSec) * time.Second
	if !msg.ReceivedAt.IsZero() && time.Since(msg.ReceivedAt) > cutoff {
		stale = true
	}

	// Claim before any generation. Stale messages are claimed too, a
	// redelivery of an old message must stay silent forever.
	claimed, err := l.claim(msg)
	if err != nil {
		return nil, err
	}
	if !claimed {
		l.core.Metrics().DiscardInc(types.DISCARD_DUPLICATE)
		return types.Discard(types.DISCARD_DUPLICATE), nil
	}

	if stale {
		l.core.Metrics().DiscardInc(types.DISCARD_STALE)
		slog.Info("discarding stale message",
			slog.String("message_id", msg.MessageID),
			slog.Time("received_at", msg.ReceivedAt))
		return types.Discard(types.DISCARD_STALE), nil
	}

	if !l.core.AutoReplyEnabled() {
		l.core.Metrics().DiscardInc(types.DISCARD_DISABLED)
		return types.Discard(types.DISCARD_DISABLED), nil
	}

	// Serialize per conversation so memory updates and replies stay ordered.
	mu := conversationLock(msg.ConversationID)
	mu.Lock()
	defer mu.Unlock()

	result := &types.ReplyResult{
		ConversationID: msg.ConversationID,
	}

	// Trivial messages never touch memory: small talk carries nothing worth
	// remembering, and the memory stage can call the model to summarize.
	if reply, category, handled := l.gatekeeper.Evaluate(msg.Text); handled {
		l.core.Metrics().GatekeeperHitInc(category)
		result.Reply = reply
		result.Source = types.REPLY_SOURCE_GATEKEEPER
		return l.finish(start, msg, result), nil
	}

	l.respond(msg, result)

	if err := l.memory.Append(msg.ConversationID, msg.Text, result.Reply); err != nil {
		// the reply already exists, losing one memory turn is the lesser evil
		slog.Error("failed to update conversation memory",
			slog.String("conversation_id", msg.ConversationID),
			slog.String("error", err.Error()))
	}

	return l.finish(start, msg, result), nil
}

func (l *TalkerLogic) finish(start time.Time, msg types.InboundMessage, result *types.ReplyResult) *types.ReplyResult {
	result.LatencyMS = time.Since(start).Milliseconds()
	l.core.Metrics().ReplyLatencyObserve(result.Source, time.Since(start))
	slog.Info("message handled",
		slog.String("message_id", msg.MessageID),
		slog.String("conversation_id", msg.ConversationID),
		slog.String("source", result.Source),
		slog.Int64("latency_ms", result.LatencyMS))
	return result
}

// claim marks the message processed, redis first for speed, postgres for
// truth. Only the postgres insert decides who wins a race.
func (l *TalkerLogic) claim(msg types.InboundMessage) (bool, error) {
	cacheKey := "msg:" + msg.MessageID
	if hit, err := l.core.Cache().Get(l.ctx, cacheKey); err == nil && hit != "" {
		return false, nil
	}

	claimed, err := l.core.Store().ProcessedMessageStore().MarkProcessed(l.ctx, types.ProcessedMessage{
		MessageID:      msg.MessageID,
		ConversationID: msg.ConversationID,
	})
	if err != nil {
		return false, errors.New("TalkerLogic.claim.MarkProcessed", "failed to claim message", err)
	}
	if claimed {
		if err := l.core.Cache().SetEx(l.ctx, cacheKey, "1", dedupCacheTTL); err != nil {
			slog.Debug("dedup cache write failed", slog.String("error", err.Error()))
		}
	}
	return claimed, nil
}

// respond does the paid path: embed the question, query the vector store,
// generate. Every model failure lands on the fallback reply, the user always
// hears something.
func (l *TalkerLogic) respond(msg types.InboundMessage, result *types.ReplyResult) {
	ctx, cancel := context.WithTimeout(l.ctx, time.Duration(l.core.Cfg().RAG.ModelTimeoutSec)*time.Second)
	defer cancel()

	contextDoc, sourcePostID := l.retrieve(ctx, msg.Text)

	history, err := l.memory.Render(msg.ConversationID)
	if err != nil {
		slog.Error("failed to render conversation memory",
			slog.String("conversation_id", msg.ConversationID),
			slog.String("error", err.Error()))
		history = ""
	}

	prompt := l.core.Prompt().Reply
	if prompt == "" {
		prompt = ai.PROMPT_REPLY_DEFAULT_EN
	}
	prompt = ai.ReplaceVars(prompt, map[string]string{
		ai.PROMPT_VAR_LANG:    utils.WhatLang(msg.Text),
		ai.PROMPT_VAR_CONTEXT: contextDoc,
		ai.PROMPT_VAR_HISTORY: history,
	})

	chatAI := l.core.Srv().AI().GetChatAI()
	if chatAI == nil {
		l.fallback(result, types.ErrModelUnavailable)
		return
	}

	if err := ModelLimiter(l.core).Wait(ctx); err != nil {
		l.fallback(result, err)
		return
	}

	timer := l.core.Metrics().ModelRequestTimer("reply")
	resp, err := chatAI.Generate(ctx, []ai.Message{
		ai.SystemMessage(prompt),
		ai.UserMessage(msg.Text),
	}, l.core.Cfg().RAG.MaxReplyTokens)
	timer.ObserveDuration()
	if err != nil {
		l.core.Metrics().ModelErrorInc("reply")
		l.fallback(result, err)
		return
	}

	result.Reply = resp.Message
	result.Source = types.REPLY_SOURCE_MODEL
	result.SourcePostID = sourcePostID
	result.TokensUsed = ai.EstimateUsage(resp.Usage, prompt+msg.Text, resp.Message, resp.Model)
}

// retrieve embeds the question and asks the vector store for the closest
// post. Anything below the similarity floor reads as noise and yields the
// no-context marker, same as an empty store.
func (l *TalkerLogic) retrieve(ctx context.Context, text string) (contextDoc, sourcePostID string) {
	contextDoc = ai.NO_CONTEXT_MARKER

	embedAI := l.core.Srv().AI().GetEmbedAI()
	if embedAI == nil {
		return contextDoc, ""
	}

	if err := ModelLimiter(l.core).Wait(ctx); err != nil {
		return contextDoc, ""
	}
	timer := l.core.Metrics().ModelRequestTimer("embedding_query")
	embedding, err := embedAI.EmbeddingForQuery(ctx, []string{text})
	timer.ObserveDuration()
	if err != nil || len(embedding.Data) == 0 {
		l.core.Metrics().ModelErrorInc("embedding")
		slog.Warn("query embedding failed, answering without context", slog.Any("error", err))
		return contextDoc, ""
	}

	hits, err := l.core.Store().VectorStore().Query(ctx, types.GetVectorsOptions{},
		pgvector.NewVector(embedding.Data[0]), uint64(l.core.Cfg().RAG.RetrievalK))
	if err != nil {
		slog.Warn("vector query failed, answering without context", slog.String("error", err.Error()))
		return contextDoc, ""
	}
	if len(hits) == 0 || float64(hits[0].Cos) < l.core.Cfg().RAG.MinSimilarity {
		return contextDoc, ""
	}
	if len(hits) > 1 {
		// only the top hit feeds the prompt, the rest is tuning signal
		slog.Debug("retrieval extra hits",
			slog.Int("count", len(hits)-1),
			slog.Float64("top_cos", float64(hits[0].Cos)))
	}

	meta, err := hits[0].DecodeMetadata()
	if err != nil {
		slog.Error("corrupt vector metadata", slog.String("post_id", hits[0].PostID), slog.String("error", err.Error()))
		return contextDoc, ""
	}

	doc := types.FactRecord{
		Facts:    meta.Facts,
		Caption:  meta.Caption,
		Platform: meta.Platform,
	}.Document()
	return doc, hits[0].PostID
}

func (l *TalkerLogic) fallback(result *types.ReplyResult, cause error) {
	slog.Error("model reply failed, sending fallback", slog.Any("error", cause))
	result.Reply = l.core.Cfg().RAG.FallbackReply
	result.Source = types.REPLY_SOURCE_FALLBACK
}
