package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/SaisandeepKv/vernon-clinic-sub000/agent"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/metrics"
)

// Runner 는 한 턴을 실행하는 orchestrator 이다.
type Runner interface {
	Run(ctx context.Context, req agent.Request, emit agent.Emitter) (*agent.Message, error)
}

type ChatService struct {
	runner  Runner
	metrics *metrics.Metrics
}

func NewChatService(r Runner, m *metrics.Metrics) *ChatService {
	return &ChatService{runner: r, metrics: m}
}

// Stream 은 턴 이벤트를 emit 으로 흘려보내며 결과를 메트릭에 남긴다.
// 실패도 turn-failed 이벤트로 이미 전달되므로 반환 에러는 로깅 용도이다.
func (s *ChatService) Stream(ctx context.Context, sessionID string, msgs []agent.Message, emit agent.Emitter) error {
	start := time.Now()
	msgs = agent.RecentHistory(msgs, agent.MaxHistory)
	_, err := s.runner.Run(ctx, agent.Request{SessionID: sessionID, Messages: msgs}, func(e agent.Event) {
		if s.metrics != nil && e.Type == agent.EventToolResolved && e.Success != nil {
			s.metrics.ToolCalls.WithLabelValues(e.ToolName, strconv.FormatBool(*e.Success)).Inc()
		}
		emit(e)
	})

	if s.metrics != nil {
		outcome := "complete"
		var terr *agent.TurnError
		switch {
		case errors.As(err, &terr):
			outcome = terr.Code
		case err != nil:
			outcome = agent.CodeUpstream
		}
		s.metrics.TurnsTotal.WithLabelValues(outcome).Inc()
		s.metrics.TurnDuration.Observe(time.Since(start).Seconds())
	}
	return err
}
