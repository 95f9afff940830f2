package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SaisandeepKv/vernon-clinic-sub000/agent"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/dto"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/services"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
)

// ChatHandler godoc
// @Summary      Assistant turn
// @Description  Runs one assistant turn over the full conversation and streams it as server-sent events.
// @Description  Event names: text-delta, tool-requested, tool-executing, tool-resolved, turn-complete, turn-failed.
// @Description  The stream always ends with turn-complete or turn-failed.
// @Tags         chat
// @Accept       json
// @Produce      text/event-stream
// @Param        body  body      dto.ChatRequestDTO  true  "conversation"
// @Success      200   {object}  agent.Event
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      429   {object}  dto.ErrorResponseDTO
// @Router       /chat [post]
func ChatHandler(chatSvc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ChatRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}

		h := c.Writer.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		c.Status(http.StatusOK)

		// 클라이언트가 끊겨도 쓰기 실패는 무시된다. 턴은 요청 컨텍스트 취소로 정리된다.
		err := chatSvc.Stream(c.Request.Context(), req.SessionID, req.Messages, func(e agent.Event) {
			c.SSEvent(string(e.Type), e)
			c.Writer.Flush()
		})
		if err != nil {
			logger.WarnWithFields("chat turn failed", logger.Fields{
				"session_id": req.SessionID,
				"error":      err.Error(),
			})
		}
	}
}
