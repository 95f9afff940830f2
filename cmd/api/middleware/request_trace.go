package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/trace"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSpanID    = "X-Span-Id"
	HeaderSessionID = "X-Session-Id"
)

// RequestTrace는 모든 inbound 요청에 Request ID 를 보장하고 컨텍스트/응답 헤더에 싣는다.
// 요청 바디는 환자 연락처를 담고 있으므로 로그에 남기지 않는다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		requestID := req.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}

		sessionID := req.Header.Get(HeaderSessionID)
		ctx := trace.WithRequest(req.Context(), requestID, sessionID)
		c.Request = req.WithContext(ctx)
		c.Writer.Header().Set(HeaderRequestID, requestID)
		c.Writer.Header().Set(HeaderSpanID, trace.CurrentSpanID(ctx))

		c.Next()

		fields := logger.Fields{
			"method":         req.Method,
			"path":           req.URL.Path,
			"route":          c.FullPath(),
			"status":         c.Writer.Status(),
			"duration":       time.Since(start).String(),
			"content_length": req.ContentLength,
			"request_id":     requestID,
			"span_id":        trace.CurrentSpanID(c.Request.Context()),
		}
		if sessionID != "" {
			fields["session_id"] = sessionID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.InfoWithFields("completed request", fields)
	}
}
