package dto

import "github.com/SaisandeepKv/vernon-clinic-sub000/agent"

// ChatRequestDTO 는 위젯이 보내는 대화 기록이다. agent.MaxHistory 보다 길면 서비스가
// 최근 메시지만 남긴다. 응답은 text/event-stream 으로 내려간다.
type ChatRequestDTO struct {
	SessionID string          `json:"sessionId" example:"6f1c2a4e-2b7d-4d33-9a55-0f5b8e0c1d2a"`
	Messages  []agent.Message `json:"messages" binding:"required,min=1"`
}
