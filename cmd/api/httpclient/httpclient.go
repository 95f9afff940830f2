package httpclient

import (
	"net/http"
	"time"

	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/trace"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
)

const (
	headerRequestID = "X-Request-Id"
	headerSpanID    = "X-Span-Id"
	headerSessionID = "X-Session-Id"
)

type Config struct {
	Timeout time.Duration
}

// loggingRoundTripper 는 아웃바운드 호출(스프레드시트 webhook 등)에 trace 헤더를 붙이고 결과를 로깅한다.
// 요청 바디에는 환자 이름/전화번호가 들어가므로 크기만 기록한다.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())
	req = req.Clone(req.Context())
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set(headerSpanID, spanID)
	if sid := trace.SessionIDFromContext(req.Context()); sid != "" {
		req.Header.Set(headerSessionID, sid)
	}

	fields := logger.Fields{
		"method":         req.Method,
		"host":           req.URL.Host,
		"path":           req.URL.Path,
		"content_length": req.ContentLength,
		"request_id":     requestID,
		"span_id":        spanID,
	}

	resp, err := l.inner.RoundTrip(req)
	fields["duration"] = time.Since(start).String()
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logger.DebugWithFields("httpclient request success", fields)
	return resp, nil
}

// New 는 Timeout 이 0 이면 10초를 쓴다.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: http.DefaultTransport},
	}
}

func NewDefault() *http.Client {
	return New(Config{})
}
