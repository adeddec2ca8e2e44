package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/postpilot-ai/postpilot/app/logic/v1"
	"github.com/postpilot-ai/postpilot/app/response"
	"github.com/postpilot-ai/postpilot/pkg/errors"
	"github.com/postpilot-ai/postpilot/pkg/types"
	"github.com/postpilot-ai/postpilot/pkg/utils"
)

type IngestPostRequest struct {
	PostID        string `json:"post_id" binding:"required"`
	Caption       string `json:"caption"`
	ImageURL      string `json:"image_url"`
	Platform      string `json:"platform"`
	ScheduledTime int64  `json:"scheduled_time"`
}

// IngestPost registers a post and ingests it immediately. Re-posting the
// same post_id re-ingests in place.
func (s *HttpSrv) IngestPost(c *gin.Context) {
	var req IngestPostRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}
	if req.Caption == "" && req.ImageURL == "" {
		response.APIError(c, errors.New("HttpSrv.IngestPost.validate", "caption or image_url is required", nil).Code(http.StatusBadRequest))
		return
	}

	post := types.Post{
		PostID:        req.PostID,
		Caption:       req.Caption,
		ImageURL:      req.ImageURL,
		Platform:      req.Platform,
		ScheduledTime: req.ScheduledTime,
	}

	existing, err := s.Core.Store().PostStore().Get(c.Request.Context(), req.PostID)
	if err != nil {
		response.APIError(c, errors.New("HttpSrv.IngestPost.PostStore.Get", "failed to look up post", err))
		return
	}
	if existing == nil {
		if err := s.Core.Store().PostStore().Create(c.Request.Context(), post); err != nil {
			response.APIError(c, errors.New("HttpSrv.IngestPost.PostStore.Create", "failed to register post", err))
			return
		}
	}

	if err := v1.NewLearnerLogic(c.Request.Context(), s.Core).Ingest(post); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

type BackfillRequest struct {
	Limit  uint64 `json:"limit"`
	DryRun bool   `json:"dry_run"`
}

// Backfill runs batch ingestion over every due, not yet ingested post.
func (s *HttpSrv) Backfill(c *gin.Context) {
	var req BackfillRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	summary, err := v1.NewLearnerLogic(c.Request.Context(), s.Core).BatchIngest(v1.BatchIngestOptions{
		Limit:  req.Limit,
		DryRun: req.DryRun,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, summary)
}

func (s *HttpSrv) RAGStatus(c *gin.Context) {
	status, err := v1.NewLearnerLogic(c.Request.Context(), s.Core).Status()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, status)
}
