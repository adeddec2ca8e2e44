package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/postpilot-ai/postpilot/app/response"
	"github.com/postpilot-ai/postpilot/pkg/errors"
	"github.com/postpilot-ai/postpilot/pkg/utils"
)

type SetAutoReplyRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type AutoReplyState struct {
	Enabled bool `json:"enabled"`
}

func (s *HttpSrv) SetAutoReply(c *gin.Context) {
	var req SetAutoReplyRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := s.Core.SetAutoReply(c.Request.Context(), *req.Enabled); err != nil {
		response.APIError(c, errors.New("HttpSrv.SetAutoReply", "failed to persist autoreply state", err))
		return
	}

	response.APISuccess(c, AutoReplyState{Enabled: *req.Enabled})
}

func (s *HttpSrv) GetAutoReply(c *gin.Context) {
	response.APISuccess(c, AutoReplyState{Enabled: s.Core.AutoReplyEnabled()})
}
