package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/postpilot-ai/postpilot/app/core"
	"github.com/postpilot-ai/postpilot/pkg/errors"
	"github.com/postpilot-ai/postpilot/pkg/types"
)

const maxImageBytes = 10 << 20

// LearnerLogic turns published posts into retrievable knowledge: image and
// caption go through the vision model, the resulting fact document gets
// embedded and upserted into the vector store. Keyed by post_id, so
// re-running ingestion is always safe.
type LearnerLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewLearnerLogic(ctx context.Context, core *core.Core) *LearnerLogic {
	return &LearnerLogic{
		ctx:  ctx,
		core: core,
	}
}

// Ingest processes one post end to end. Vision failure degrades to a
// caption-only document instead of aborting, a post with no usable content
// at all is the only hard skip.
func (l *LearnerLogic) Ingest(post types.Post) error {
	record := types.FactRecord{
		Caption:  post.Caption,
		Platform: post.Platform,
	}

	if post.ImageURL != "" {
		imageData, mimeType, err := l.fetchImage(post.ImageURL)
		if err != nil {
			slog.Warn("image fetch failed, ingesting caption only",
				slog.String("post_id", post.PostID),
				slog.String("error", err.Error()))
		} else {
			record.Facts = l.extractFacts(post, imageData, mimeType)
		}
	}

	if record.IsEmpty() {
		l.core.Metrics().IngestResultInc("skipped")
		return errors.New("LearnerLogic.Ingest.IsEmpty", "post has no caption and no extractable facts", types.ErrEmptyPost).Code(http.StatusBadRequest)
	}

	embedAI := l.core.Srv().AI().GetEmbedAI()
	if embedAI == nil {
		return errors.New("LearnerLogic.Ingest.GetEmbedAI", "no embedding provider configured", types.ErrModelUnavailable)
	}

	if err := ModelLimiter(l.core).Wait(l.ctx); err != nil {
		return errors.New("LearnerLogic.Ingest.Limiter", "ingestion cancelled", err)
	}
	timer := l.core.Metrics().ModelRequestTimer("embedding_document")
	embedding, err := embedAI.EmbeddingForDocument(l.ctx, post.PostID, []string{record.Document()})
	timer.ObserveDuration()
	if err != nil {
		l.core.Metrics().ModelErrorInc("embedding")
		l.core.Metrics().IngestResultInc("failed")
		return errors.New("LearnerLogic.Ingest.EmbeddingForDocument", "embedding failed", err)
	}
	if len(embedding.Data) == 0 || len(embedding.Data[0]) != embedAI.Dimension() {
		l.core.Metrics().IngestResultInc("failed")
		return errors.New("LearnerLogic.Ingest.Dimension", "embedding dimension mismatch", types.ErrDimensionMismatch)
	}

	now := time.Now().Unix()
	metadata, err := json.Marshal(types.VectorMetadata{
		Facts:      record.Facts,
		Caption:    record.Caption,
		Platform:   post.Platform,
		IngestedAt: now,
	})
	if err != nil {
		return errors.New("LearnerLogic.Ingest.Marshal", "failed to encode vector metadata", err)
	}

	if err = l.core.Store().VectorStore().Upsert(l.ctx, types.VectorEntry{
		PostID:    post.PostID,
		Platform:  post.Platform,
		Embedding: pgvector.NewVector(embedding.Data[0]),
		Metadata:  metadata,
	}); err != nil {
		l.core.Metrics().IngestResultInc("failed")
		return errors.New("LearnerLogic.Ingest.VectorStore.Upsert", "failed to store vector", err)
	}

	if err = l.core.Store().PostStore().MarkIngested(l.ctx, post.PostID, now); err != nil {
		return errors.New("LearnerLogic.Ingest.PostStore.MarkIngested", "failed to mark post ingested", err)
	}

	l.core.Metrics().IngestResultInc("succeeded")
	slog.Info("post ingested",
		slog.String("post_id", post.PostID),
		slog.String("platform", post.Platform),
		slog.Int("facts", len(record.Facts)))
	return nil
}

// extractFacts runs the vision model. Any failure here is survivable, the
// caption alone still makes a useful document.
func (l *LearnerLogic) extractFacts(post types.Post, imageData []byte, mimeType string) map[string]string {
	visionAI := l.core.Srv().AI().GetVisionAI()
	if visionAI == nil {
		return nil
	}

	if err := ModelLimiter(l.core).Wait(l.ctx); err != nil {
		return nil
	}

	timer := l.core.Metrics().ModelRequestTimer("vision")
	result, err := visionAI.ExtractFacts(l.ctx, imageData, mimeType, post.Caption)
	timer.ObserveDuration()
	if err != nil {
		l.core.Metrics().ModelErrorInc("vision")
		slog.Warn("vision extraction failed, ingesting caption only",
			slog.String("post_id", post.PostID),
			slog.String("error", err.Error()))
		return nil
	}
	return result.Facts
}

func (l *LearnerLogic) fetchImage(url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(l.ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := l.core.HttpClient().Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d fetching image", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

type BatchIngestOptions struct {
	Limit  uint64
	DryRun bool
}

type BatchIngestSummary struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Skipped   int      `json:"skipped"`
	FailedIDs []string `json:"failed_ids,omitempty"`
	DryRun    bool     `json:"dry_run"`
}

// BatchIngest picks up every due, not yet ingested post. One bad post never
// stops the batch.
func (l *LearnerLogic) BatchIngest(opts BatchIngestOptions) (BatchIngestSummary, error) {
	summary := BatchIngestSummary{DryRun: opts.DryRun}

	posts, err := l.core.Store().PostStore().List(l.ctx, types.ListPostOptions{
		OnlyPending: true,
		DueBefore:   time.Now().Unix(),
	}, opts.Limit)
	if err != nil {
		return summary, errors.New("LearnerLogic.BatchIngest.PostStore.List", "failed to list pending posts", err)
	}

	summary.Total = len(posts)
	if opts.DryRun {
		return summary, nil
	}

	for _, post := range posts {
		if err := l.Ingest(post); err != nil {
			if errors.Is(err, types.ErrEmptyPost) {
				summary.Skipped++
				continue
			}
			summary.Failed++
			summary.FailedIDs = append(summary.FailedIDs, post.PostID)
			slog.Error("post ingestion failed",
				slog.String("post_id", post.PostID),
				slog.String("error", err.Error()))
			continue
		}
		summary.Succeeded++
	}
	return summary, nil
}

// Status reports the knowledge-store shape for the admin endpoint.
type RAGStatus struct {
	Vectors           uint64          `json:"vectors"`
	PendingPosts      int             `json:"pending_posts"`
	ProcessedMessages uint64          `json:"processed_messages"`
	AutoReplyEnabled  bool            `json:"autoreply_enabled"`
	Config            RAGStatusConfig `json:"config"`
}

// RAGStatusConfig echoes the effective tuning knobs.
type RAGStatusConfig struct {
	RateLimitIntervalMS int     `json:"rate_limit_interval_ms"`
	MemoryTokenBudget   int     `json:"memory_token_budget"`
	StalenessCutoffSec  int     `json:"staleness_cutoff_sec"`
	RetrievalK          int     `json:"retrieval_k"`
	MinSimilarity       float64 `json:"min_similarity"`
}

func (l *LearnerLogic) Status() (RAGStatus, error) {
	var status RAGStatus

	total, err := l.core.Store().VectorStore().Total(l.ctx)
	if err != nil {
		return status, errors.New("LearnerLogic.Status.VectorStore.Total", "failed to count vectors", err)
	}
	status.Vectors = total

	pending, err := l.core.Store().PostStore().List(l.ctx, types.ListPostOptions{OnlyPending: true}, 0)
	if err != nil {
		return status, errors.New("LearnerLogic.Status.PostStore.List", "failed to list pending posts", err)
	}
	status.PendingPosts = len(pending)

	processed, err := l.core.Store().ProcessedMessageStore().Total(l.ctx)
	if err != nil {
		return status, errors.New("LearnerLogic.Status.ProcessedMessageStore.Total", "failed to count processed messages", err)
	}
	status.ProcessedMessages = processed

	status.AutoReplyEnabled = l.core.AutoReplyEnabled()

	rag := l.core.Cfg().RAG
	status.Config = RAGStatusConfig{
		RateLimitIntervalMS: rag.RateLimitIntervalMS,
		MemoryTokenBudget:   rag.MemoryTokenBudget,
		StalenessCutoffSec:  rag.StalenessCutoffSec,
		RetrievalK:          rag.RetrievalK,
		MinSimilarity:       rag.MinSimilarity,
	}
	return status, nil
}
