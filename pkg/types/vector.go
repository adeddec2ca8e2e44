package types

import (
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/pgvector/pgvector-go"
)

// VectorEntry is the unit of knowledge-store state. Keyed by post_id:
// at most one live row per post, re-ingestion overwrites in place.
type VectorEntry struct {
	PostID    string          `json:"post_id" db:"post_id"`
	Platform  string          `json:"platform" db:"platform"`
	Embedding pgvector.Vector `json:"embedding" db:"embedding"`
	Metadata  json.RawMessage `json:"metadata" db:"metadata"` // facts + caption
	CreatedAt int64           `json:"created_at" db:"created_at"`
	UpdatedAt int64           `json:"updated_at" db:"updated_at"`
}

// VectorMetadata is the jsonb payload stored alongside the embedding.
type VectorMetadata struct {
	Facts      map[string]string `json:"facts"`
	Caption    string            `json:"caption"`
	Platform   string            `json:"platform"`
	IngestedAt int64             `json:"ingested_at"`
}

// VectorQueryResult is one similarity hit, highest cosine first.
type VectorQueryResult struct {
	PostID   string          `json:"post_id" db:"post_id"`
	Platform string          `json:"platform" db:"platform"`
	Metadata json.RawMessage `json:"metadata" db:"metadata"`
	Cos      float32         `json:"cos" db:"cos"`
}

func (r VectorQueryResult) DecodeMetadata() (VectorMetadata, error) {
	var meta VectorMetadata
	err := json.Unmarshal(r.Metadata, &meta)
	return meta, err
}

type GetVectorsOptions struct {
	PostID   string
	Platform string
}

func (opts GetVectorsOptions) Apply(query *sq.SelectBuilder) {
	if opts.PostID != "" {
		*query = query.Where(sq.Eq{"post_id": opts.PostID})
	}
	if opts.Platform != "" {
		*query = query.Where(sq.Eq{"platform": opts.Platform})
	}
}
