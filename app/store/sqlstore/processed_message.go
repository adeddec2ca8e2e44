package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/postpilot-ai/postpilot/pkg/register"
	"github.com/postpilot-ai/postpilot/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ProcessedMessageStore = NewProcessedMessageStore(provider)
	})
}

type ProcessedMessageStore struct {
	CommonFields
}

func NewProcessedMessageStore(provider SqlProviderAchieve) *ProcessedMessageStore {
	repo := &ProcessedMessageStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_PROCESSED_MESSAGES)
	repo.SetAllColumns("message_id", "conversation_id", "processed_at")
	return repo
}

// MarkProcessed claims a message id. Returns false when another delivery
// already claimed it; the primary key resolves concurrent duplicates.
func (s *ProcessedMessageStore) MarkProcessed(ctx context.Context, data types.ProcessedMessage) (bool, error) {
	if data.ProcessedAt == 0 {
		data.ProcessedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns("message_id", "conversation_id", "processed_at").
		Values(data.MessageID, data.ConversationID, data.ProcessedAt).
		Suffix("ON CONFLICT (message_id) DO NOTHING")

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	res, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *ProcessedMessageStore) Exists(ctx context.Context, messageID string) (bool, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).Where(sq.Eq{"message_id": messageID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	var count int
	if err = s.GetReplica(ctx).Get(&count, queryString, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *ProcessedMessageStore) Total(ctx context.Context) (uint64, error) {
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
