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
		provider.stores.ConversationMemoryStore = NewConversationMemoryStore(provider)
	})
}

type ConversationMemoryStore struct {
	CommonFields
}

func NewConversationMemoryStore(provider SqlProviderAchieve) *ConversationMemoryStore {
	repo := &ConversationMemoryStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CONVERSATION_MEMORY)
	repo.SetAllColumns("conversation_id", "summary", "turns", "updated_at")
	return repo
}

func (s *ConversationMemoryStore) Get(ctx context.Context, conversationID string) (*types.ConversationMemory, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"conversation_id": conversationID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.ConversationMemory
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (s *ConversationMemoryStore) Upsert(ctx context.Context, data types.ConversationMemory) error {
	data.UpdatedAt = time.Now().Unix()
	if len(data.Turns) == 0 {
		data.Turns = []byte("[]")
	}

	query := sq.Insert(s.GetTable()).
		Columns("conversation_id", "summary", "turns", "updated_at").
		Values(data.ConversationID, data.Summary, data.Turns, data.UpdatedAt).
		Suffix("ON CONFLICT (conversation_id) DO UPDATE SET summary = EXCLUDED.summary, turns = EXCLUDED.turns, updated_at = EXCLUDED.updated_at")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
