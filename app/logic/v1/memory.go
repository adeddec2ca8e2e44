package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/postpilot-ai/postpilot/app/core"
	"github.com/postpilot-ai/postpilot/pkg/ai"
	"github.com/postpilot-ai/postpilot/pkg/errors"
	"github.com/postpilot-ai/postpilot/pkg/types"
)

// tokenCountModel is only used for tokenization, not for generation.
const tokenCountModel = "gpt-4o-mini"

// MemoryLogic maintains the bounded per-conversation context: a running
// summary plus recent verbatim turns. The rendered prompt form never exceeds
// the configured token budget, whatever the cost in recall.
type MemoryLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewMemoryLogic(ctx context.Context, core *core.Core) *MemoryLogic {
	return &MemoryLogic{
		ctx:  ctx,
		core: core,
	}
}

// Render returns the memory as prompt text. A brand new conversation renders
// to an empty string.
func (l *MemoryLogic) Render(conversationID string) (string, error) {
	memory, err := l.core.Store().ConversationMemoryStore().Get(l.ctx, conversationID)
	if err != nil {
		return "", errors.New("MemoryLogic.Render.ConversationMemoryStore.Get", "failed to load conversation memory", err)
	}
	if memory == nil {
		return "", nil
	}

	turns, err := memory.DecodeTurns()
	if err != nil {
		return "", errors.New("MemoryLogic.Render.DecodeTurns", "corrupt conversation memory", err)
	}
	return types.RenderMemoryPrompt(memory.Summary, turns), nil
}

// Append records one exchange and re-establishes the token budget before
// persisting. Old turns get folded into the summary through the chat model;
// when the model is unavailable they are evicted outright, the budget
// invariant wins over recall.
func (l *MemoryLogic) Append(conversationID, userMsg, assistantMsg string) error {
	store := l.core.Store().ConversationMemoryStore()

	memory, err := store.Get(l.ctx, conversationID)
	if err != nil {
		return errors.New("MemoryLogic.Append.ConversationMemoryStore.Get", "failed to load conversation memory", err)
	}

	var (
		summary string
		turns   []types.ConversationTurn
	)
	if memory != nil {
		summary = memory.Summary
		if turns, err = memory.DecodeTurns(); err != nil {
			slog.Error("discarding corrupt conversation memory",
				slog.String("conversation_id", conversationID),
				slog.String("error", err.Error()))
			turns = nil
		}
	}

	turns = append(turns, types.ConversationTurn{
		User:      userMsg,
		Assistant: assistantMsg,
		At:        time.Now().Unix(),
	})

	budget := l.core.Cfg().RAG.MemoryTokenBudget
	for len(turns) > 1 && ai.CountTokens(types.RenderMemoryPrompt(summary, turns), tokenCountModel) > budget {
		folded, err := l.summarize(summary, turns[0])
		if err != nil {
			slog.Warn("memory summarization unavailable, evicting oldest turn",
				slog.String("conversation_id", conversationID),
				slog.String("error", err.Error()))
			turns = turns[1:]
			continue
		}
		summary = folded
		turns = turns[1:]
	}

	// failsafe: even summary plus one turn can overflow
	for summary != "" && ai.CountTokens(types.RenderMemoryPrompt(summary, turns), tokenCountModel) > budget {
		r := []rune(summary)
		if len(r) < 40 {
			summary = ""
			break
		}
		summary = string(r[len(r)/2:])
	}

	// last resort: a single oversized turn gets cut down until it fits
	for len(turns) == 1 && ai.CountTokens(types.RenderMemoryPrompt(summary, turns), tokenCountModel) > budget {
		t := &turns[0]
		switch {
		case len(t.Assistant) >= len(t.User) && t.Assistant != "":
			r := []rune(t.Assistant)
			t.Assistant = string(r[:len(r)/2])
		case t.User != "":
			r := []rune(t.User)
			t.User = string(r[:len(r)/2])
		default:
			turns = nil
		}
	}

	raw, err := json.Marshal(turns)
	if err != nil {
		return errors.New("MemoryLogic.Append.Marshal", "failed to encode conversation turns", err)
	}

	if err = store.Upsert(l.ctx, types.ConversationMemory{
		ConversationID: conversationID,
		Summary:        summary,
		Turns:          raw,
	}); err != nil {
		return errors.New("MemoryLogic.Append.ConversationMemoryStore.Upsert", "failed to persist conversation memory", err)
	}
	return nil
}

// summarize folds the current summary and one evicted turn into a new
// summary. Goes through the shared limiter: memory upkeep competes with
// replies for the same upstream quota.
func (l *MemoryLogic) summarize(summary string, turn types.ConversationTurn) (string, error) {
	chatAI := l.core.Srv().AI().GetChatAI()
	if chatAI == nil {
		return "", types.ErrModelUnavailable
	}

	if err := ModelLimiter(l.core).Wait(l.ctx); err != nil {
		return "", err
	}

	prompt := l.core.Prompt().MemorySummary
	if prompt == "" {
		prompt = ai.PROMPT_MEMORY_SUMMARY_EN
	}

	content := types.RenderMemoryPrompt(summary, []types.ConversationTurn{turn})

	timer := l.core.Metrics().ModelRequestTimer("memory_summary")
	resp, err := chatAI.Generate(l.ctx, []ai.Message{
		ai.SystemMessage(prompt),
		ai.UserMessage(content),
	}, 80)
	timer.ObserveDuration()
	if err != nil {
		l.core.Metrics().ModelErrorInc("memory_summary")
		return "", err
	}
	return resp.Message, nil
}
