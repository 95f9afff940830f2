// Package trace carries per-request correlation ids through the context:
// the request id, the widget session id, and a span counter for outbound calls.
package trace

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Info 는 inbound 요청 하나의 추적 정보다. outbox 작업은 요청이 끝난 뒤에
// 실행되지만 detached context 로 같은 Info 를 이어받는다.
type Info struct {
	RequestID string
	SessionID string
	spanSeq   atomic.Int64
}

func GenerateID() string {
	return uuid.NewString()
}

// WithRequest stores a fresh Info. sessionID may be empty for form posts.
func WithRequest(ctx context.Context, requestID, sessionID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, &Info{RequestID: requestID, SessionID: sessionID})
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	if info := infoFromContext(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

func SessionIDFromContext(ctx context.Context) string {
	if info := infoFromContext(ctx); info != nil {
		return info.SessionID
	}
	return ""
}

// CurrentSpanID 는 증가시키지 않고 현재 span 값을 돌려준다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	return strconv.FormatInt(info.spanSeq.Load(), 10)
}

// NextSpanID 는 outbound 호출마다 span 을 1,2,3,... 으로 올린다.
// 미들웨어 밖에서 호출되면 새 RequestID 와 span 1 을 돌려준다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	return info.RequestID, strconv.FormatInt(info.spanSeq.Add(1), 10)
}
