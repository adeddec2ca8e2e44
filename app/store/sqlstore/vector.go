package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pgvector/pgvector-go"

	"github.com/postpilot-ai/postpilot/pkg/register"
	"github.com/postpilot-ai/postpilot/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.VectorStore = NewVectorStore(provider)
	})
}

type VectorStore struct {
	CommonFields
}

func NewVectorStore(provider SqlProviderAchieve) *VectorStore {
	repo := &VectorStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_VECTORS)
	repo.SetAllColumns("post_id", "platform", "embedding", "metadata", "created_at", "updated_at")
	return repo
}

// Upsert keeps at most one row per post. Re-ingesting the same post_id
// replaces the embedding and metadata in place.
func (s *VectorStore) Upsert(ctx context.Context, data types.VectorEntry) error {
	now := time.Now().Unix()
	if data.CreatedAt == 0 {
		data.CreatedAt = now
	}
	data.UpdatedAt = now

	query := sq.Insert(s.GetTable()).
		Columns("post_id", "platform", "embedding", "metadata", "created_at", "updated_at").
		Values(data.PostID, data.Platform, data.Embedding, data.Metadata, data.CreatedAt, data.UpdatedAt).
		Suffix("ON CONFLICT (post_id) DO UPDATE SET platform = EXCLUDED.platform, embedding = EXCLUDED.embedding, metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *VectorStore) Get(ctx context.Context, postID string) (*types.VectorEntry, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"post_id": postID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.VectorEntry
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

// Query returns the closest entries by cosine similarity, best first.
// An empty store yields an empty slice, not an error.
func (s *VectorStore) Query(ctx context.Context, opts types.GetVectorsOptions, vector pgvector.Vector, limit uint64) ([]types.VectorQueryResult, error) {
	// pgvector supported distance functions are:
	// <-> - L2 distance
	// <#> - (negative) inner product
	// <=> - cosine distance
	cosColumn, vectorArgs, _ := sq.Expr("1 - (embedding <=> ?) as cos", vector).ToSql()
	query := sq.Select("post_id", "platform", "metadata", cosColumn).From(s.GetTable()).Limit(limit).OrderBy("cos DESC")
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	args = append(vectorArgs, args...)

	var res []types.VectorQueryResult
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *VectorStore) Total(ctx context.Context) (uint64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var total uint64
	if err = s.GetReplica(ctx).Get(&total, queryString, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *VectorStore) Delete(ctx context.Context, postID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"post_id": postID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
