package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/postpilot-ai/postpilot/pkg/register"
	"github.com/postpilot-ai/postpilot/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.PostStore = NewPostStore(provider)
	})
}

type PostStore struct {
	CommonFields
}

func NewPostStore(provider SqlProviderAchieve) *PostStore {
	repo := &PostStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_POSTS)
	repo.SetAllColumns("post_id", "caption", "image_url", "platform", "scheduled_time", "ingested_at", "created_at")
	return repo
}

func (s *PostStore) Create(ctx context.Context, data types.Post) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns("post_id", "caption", "image_url", "platform", "scheduled_time", "ingested_at", "created_at").
		Values(data.PostID, data.Caption, data.ImageURL, data.Platform, data.ScheduledTime, data.IngestedAt, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PostStore) Get(ctx context.Context, postID string) (*types.Post, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"post_id": postID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Post
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (s *PostStore) List(ctx context.Context, opts types.ListPostOptions, limit uint64) ([]types.Post, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("scheduled_time ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Post
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *PostStore) MarkIngested(ctx context.Context, postID string, at int64) error {
	if at == 0 {
		at = time.Now().Unix()
	}

	query := sq.Update(s.GetTable()).Set("ingested_at", at).Where(sq.Eq{"post_id": postID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
