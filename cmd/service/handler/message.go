package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/postpilot-ai/postpilot/app/logic/v1"
	"github.com/postpilot-ai/postpilot/app/response"
	"github.com/postpilot-ai/postpilot/pkg/types"
	"github.com/postpilot-ai/postpilot/pkg/utils"
)

type HandleMessageRequest struct {
	MessageID      string `json:"message_id" binding:"required"`
	ConversationID string `json:"conversation_id" binding:"required"`
	Text           string `json:"text"`
	ReceivedAt     int64  `json:"received_at"` // unix seconds, 0 means now
}

// HandleMessage is the webhook entry: one inbound DM, one reply or a silent
// discard. The discard outcomes come back as data, not as http errors.
func (s *HttpSrv) HandleMessage(c *gin.Context) {
	var req HandleMessageRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	receivedAt := time.Now()
	if req.ReceivedAt > 0 {
		receivedAt = time.Unix(req.ReceivedAt, 0)
	}

	result, err := v1.NewTalkerLogic(c.Request.Context(), s.Core).HandleMessage(types.InboundMessage{
		MessageID:      req.MessageID,
		ConversationID: req.ConversationID,
		Text:           req.Text,
		ReceivedAt:     receivedAt,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, result)
}
