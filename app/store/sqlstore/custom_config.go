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
		provider.stores.CustomConfigStore = NewCustomConfigStore(provider)
	})
}

type CustomConfigStore struct {
	CommonFields
}

func NewCustomConfigStore(provider SqlProviderAchieve) *CustomConfigStore {
	repo := &CustomConfigStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CUSTOM_CONFIG)
	repo.SetAllColumns("name", "description", "value", "category", "status", "created_at", "updated_at")
	return repo
}

func (s *CustomConfigStore) Get(ctx context.Context, name string) (*types.CustomConfig, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"name": name})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.CustomConfig
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (s *CustomConfigStore) Upsert(ctx context.Context, data types.CustomConfig) error {
	now := time.Now().Unix()
	if data.CreatedAt == 0 {
		data.CreatedAt = now
	}
	data.UpdatedAt = now
	if len(data.Value) == 0 {
		data.Value = []byte("{}")
	}

	query := sq.Insert(s.GetTable()).
		Columns("name", "description", "value", "category", "status", "created_at", "updated_at").
		Values(data.Name, data.Description, data.Value, data.Category, data.Status, data.CreatedAt, data.UpdatedAt).
		Suffix("ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, value = EXCLUDED.value, category = EXCLUDED.category, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
