package types

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	PLATFORM_INSTAGRAM = "instagram"
	PLATFORM_LINKEDIN  = "linkedin"
)

// Post is a scheduled/published post as written by the scheduler.
// The reply engine only reads it: once ingested the row is immutable
// except for explicit re-ingestion.
type Post struct {
	PostID        string `json:"post_id" db:"post_id"`
	Caption       string `json:"caption" db:"caption"`
	ImageURL      string `json:"image_url" db:"image_url"`
	Platform      string `json:"platform" db:"platform"`
	ScheduledTime int64  `json:"scheduled_time" db:"scheduled_time"` // unix seconds, 0 = immediate
	IngestedAt    int64  `json:"ingested_at" db:"ingested_at"`       // 0 = not yet ingested
	CreatedAt     int64  `json:"created_at" db:"created_at"`
}

type ListPostOptions struct {
	PostID      string
	Platform    string
	OnlyPending bool  // ingested_at = 0
	DueBefore   int64 // scheduled_time <= DueBefore
}

func (opts ListPostOptions) Apply(query *sq.SelectBuilder) {
	if opts.PostID != "" {
		*query = query.Where(sq.Eq{"post_id": opts.PostID})
	}
	if opts.Platform != "" {
		*query = query.Where(sq.Eq{"platform": opts.Platform})
	}
	if opts.OnlyPending {
		*query = query.Where(sq.Eq{"ingested_at": 0})
	}
	if opts.DueBefore > 0 {
		*query = query.Where(sq.LtOrEq{"scheduled_time": opts.DueBefore})
	}
}
