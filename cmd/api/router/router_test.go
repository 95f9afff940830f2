package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaisandeepKv/vernon-clinic-sub000/agent"
	"github.com/SaisandeepKv/vernon-clinic-sub000/analysis"
	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/dto"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/metrics"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/middleware"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/services"
	"github.com/SaisandeepKv/vernon-clinic-sub000/outbox"
)

type fakeRunner struct {
	got agent.Request
	err error
}

func (f *fakeRunner) Run(_ context.Context, req agent.Request, emit agent.Emitter) (*agent.Message, error) {
	f.got = req
	if f.err != nil {
		emit(agent.Event{Type: agent.EventTurnFailed, ErrorCode: agent.CodeUpstream, Error: f.err.Error()})
		return nil, &agent.TurnError{Code: agent.CodeUpstream, Cause: f.err}
	}
	ok := true
	emit(agent.Event{Type: agent.EventToolResolved, ToolCallID: "c1", ToolName: "getClinicInfo", Success: &ok})
	emit(agent.Event{Type: agent.EventTextDelta, Delta: "We are open "})
	emit(agent.Event{Type: agent.EventTextDelta, Delta: "Mon-Sat."})
	msg := &agent.Message{ID: "a1", Role: agent.RoleAssistant, Parts: []agent.Part{agent.TextPart("We are open Mon-Sat.")}}
	emit(agent.Event{Type: agent.EventTurnComplete, Message: msg})
	return msg, nil
}

type recordingOutbox struct {
	entries []outbox.Entry
}

func (r *recordingOutbox) Dispatch(_ context.Context, e outbox.Entry) {
	r.entries = append(r.entries, e)
}

type fakeAnalyzer struct {
	report *analysis.Report
	err    error
}

func (f *fakeAnalyzer) Analyze(context.Context, analysis.Submission) (*analysis.Report, error) {
	return f.report, f.err
}

type testServer struct {
	engine *gin.Engine
	runner *fakeRunner
	outbox *recordingOutbox
	m      *metrics.Metrics
}

func newTestServer(t *testing.T, a services.Analyzer, ping func(context.Context) error) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{runner: &fakeRunner{}, outbox: &recordingOutbox{}, m: metrics.New()}
	ts.engine = New(Deps{
		Chat:           services.NewChatService(ts.runner, ts.m),
		Leads:          services.NewLeadService(ts.outbox, ts.m),
		Analysis:       services.NewAnalysisService(a, ts.m),
		Metrics:        ts.m,
		RateLimit:      middleware.RateLimitConfig{RequestsPerMinute: 60, Burst: 2},
		RecordsBackend: "mongo",
		ModelProvider:  "google",
		PingRecords:    ping,
	})
	return ts
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func chatBody(text string) dto.ChatRequestDTO {
	return dto.ChatRequestDTO{
		SessionID: "sess-1",
		Messages: []agent.Message{
			{ID: agent.WelcomeMessageID, Role: agent.RoleAssistant, Parts: []agent.Part{agent.TextPart("Hi! I'm Vera.")}},
			{ID: "u1", Role: agent.RoleUser, Parts: []agent.Part{agent.TextPart(text)}},
		},
	}
}

func TestChat_StreamsEvents(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	rec := ts.do(http.MethodPost, "/api/chat", chatBody("What are your timings?"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")

	body := rec.Body.String()
	assert.Contains(t, body, "text-delta")
	assert.Contains(t, body, "turn-complete")
	assert.Less(t, bytes.Index(rec.Body.Bytes(), []byte("text-delta")), bytes.LastIndex(rec.Body.Bytes(), []byte("turn-complete")))

	assert.Equal(t, "sess-1", ts.runner.got.SessionID)
	assert.Len(t, ts.runner.got.Messages, 2)

	scrape := ts.do(http.MethodGet, "/metrics", nil).Body.String()
	assert.Contains(t, scrape, `vernon_chat_turns_total{outcome="complete"} 1`)
	assert.Contains(t, scrape, `vernon_tool_calls_total{success="true",tool="getClinicInfo"} 1`)
}

func TestChat_LongHistoryIsTrimmed(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	body := chatBody("hello")
	for i := 0; len(body.Messages) < agent.MaxHistory+2; i++ {
		body.Messages = append(body.Messages,
			agent.Message{ID: fmt.Sprintf("a%d", i), Role: agent.RoleAssistant, Parts: []agent.Part{agent.TextPart("ok")}},
			agent.Message{ID: fmt.Sprintf("u%d", i), Role: agent.RoleUser, Parts: []agent.Part{agent.TextPart("and then?")}},
		)
	}

	rec := ts.do(http.MethodPost, "/api/chat", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "turn-complete")

	got := ts.runner.got.Messages
	assert.LessOrEqual(t, len(got), agent.MaxHistory)
	assert.Equal(t, agent.RoleUser, got[0].Role)
	assert.Equal(t, body.Messages[len(body.Messages)-1].ID, got[len(got)-1].ID)
}

func TestChat_FailedTurnStillStreams(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	ts.runner.err = errors.New("model unavailable")

	rec := ts.do(http.MethodPost, "/api/chat", chatBody("hello"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "turn-failed")
	assert.Contains(t, rec.Body.String(), agent.CodeUpstream)

	scrape := ts.do(http.MethodGet, "/metrics", nil).Body.String()
	assert.Contains(t, scrape, `vernon_chat_turns_total{outcome="upstream_error"} 1`)
}

func TestChat_InvalidRequest(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	rec := ts.do(http.MethodPost, "/api/chat", map[string]any{"messages": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body dto.ErrorResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid_request", body.Error)
}

func TestChat_RateLimited(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	for range 2 {
		require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/chat", chatBody("hi")).Code)
	}
	rec := ts.do(http.MethodPost, "/api/chat", chatBody("hi"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate_limited")

	// booking 폼은 제한 대상이 아니다.
	for range 3 {
		rec = ts.do(http.MethodPost, "/api/callback", dto.CallbackRequestDTO{Name: "Priya", Phone: "9988776655"})
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestBooking(t *testing.T) {
	testCases := []struct {
		name       string
		req        dto.BookingRequestDTO
		wantStatus int
		wantErr    string
	}{
		{
			name:       "valid booking with defaults",
			req:        dto.BookingRequestDTO{PatientName: "Ravi Kumar", Phone: "9876543210", Treatment: "Hair Transplant", Location: "Gachibowli", SessionID: "s9"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "short phone",
			req:        dto.BookingRequestDTO{PatientName: "Ravi Kumar", Phone: "98765", Location: "Gachibowli"},
			wantStatus: http.StatusBadRequest,
			wantErr:    "10 digits",
		},
		{
			name:       "unknown branch",
			req:        dto.BookingRequestDTO{PatientName: "Ravi Kumar", Phone: "9876543210", Location: "Mumbai"},
			wantStatus: http.StatusBadRequest,
			wantErr:    "Gachibowli",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, nil, nil)

			rec := ts.do(http.MethodPost, "/api/booking", tc.req)
			require.Equal(t, tc.wantStatus, rec.Code)

			var body dto.BookingResponseDTO
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tc.wantErr != "" {
				assert.False(t, body.Success)
				assert.Contains(t, body.Error, tc.wantErr)
				assert.Empty(t, ts.outbox.entries)
				return
			}

			assert.True(t, body.Success)
			require.NotNil(t, body.BookingDetails)
			assert.Equal(t, "Ravi Kumar", body.BookingDetails.Name)
			assert.Equal(t, "Gachibowli", body.BookingDetails.Location)
			assert.Equal(t, booking.ToBeConfirmed, body.BookingDetails.Date)
			assert.Equal(t, booking.ToBeConfirmed, body.BookingDetails.Time)

			require.Len(t, ts.outbox.entries, 1)
			e := ts.outbox.entries[0]
			assert.Equal(t, outbox.KindBooking, e.Kind)
			assert.Equal(t, outbox.SourceBookingForm, e.Source)
			assert.Equal(t, "s9", e.SessionID)
		})
	}
}

func TestCallback(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	rec := ts.do(http.MethodPost, "/api/callback", dto.CallbackRequestDTO{Name: "A", Phone: "9988776655"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ts.outbox.entries)

	rec = ts.do(http.MethodPost, "/api/callback", dto.CallbackRequestDTO{Name: " Priya ", Phone: "+91 99887 76655", SessionID: "s2"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.CallbackResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, ts.outbox.entries, 1)
	assert.Equal(t, outbox.KindCallback, ts.outbox.entries[0].Kind)
	assert.Equal(t, "Priya", ts.outbox.entries[0].Lead.Name)
}

func TestLeadForms_BindingTags(t *testing.T) {
	testCases := []struct {
		name    string
		path    string
		body    any
		wantErr string
	}{
		{"callback without phone", "/api/callback", map[string]string{"name": "Priya"}, "10 digits"},
		{"callback with one letter name", "/api/callback", map[string]string{"name": "P", "phone": "9988776655"}, "full name"},
		{"booking with unknown branch", "/api/booking", map[string]string{"patientName": "Ravi Kumar", "phone": "9876543210", "location": "Kondapur"}, "Banjara Hills"},
		{"booking without name or phone", "/api/booking", map[string]string{"location": "gachibowli"}, "full name"},
		{"empty body", "/api/callback", nil, "invalid_request"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, nil, nil)

			rec := ts.do(http.MethodPost, tc.path, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body dto.CallbackResponseDTO
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Contains(t, body.Error, tc.wantErr)
			assert.Empty(t, ts.outbox.entries)
		})
	}

	t.Run("slug location binds", func(t *testing.T) {
		ts := newTestServer(t, nil, nil)
		rec := ts.do(http.MethodPost, "/api/booking", dto.BookingRequestDTO{PatientName: "Ravi Kumar", Phone: "+91 98765 43210", Location: "banjara-hills"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, ts.outbox.entries, 1)
		assert.Equal(t, booking.BanjaraHills, ts.outbox.entries[0].Booking.Location)
	})
}

func TestAnalyzeSkin(t *testing.T) {
	testCases := []struct {
		name       string
		analyzer   services.Analyzer
		wantStatus int
		wantCode   string
	}{
		{"unavailable", nil, http.StatusServiceUnavailable, "analysis_unavailable"},
		{"missing lead", &fakeAnalyzer{err: analysis.ErrInvalidLead}, http.StatusBadRequest, "invalid_lead"},
		{"not an image", &fakeAnalyzer{err: analysis.ErrInvalidImage}, http.StatusBadRequest, "invalid_image"},
		{"unreadable", &fakeAnalyzer{err: analysis.ErrUnreadable}, http.StatusUnprocessableEntity, "unreadable_photo"},
		{"timeout", &fakeAnalyzer{err: context.DeadlineExceeded}, http.StatusGatewayTimeout, "analysis_timeout"},
		{"model error", &fakeAnalyzer{err: errors.New("boom")}, http.StatusBadGateway, "analysis_failed"},
		{"success", &fakeAnalyzer{report: &analysis.Report{OverallScore: 78, Summary: "Healthy", Strengths: []string{}, Concerns: []analysis.Concern{}}}, http.StatusOK, "success"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, tc.analyzer, nil)

			rec := ts.do(http.MethodPost, "/api/analyze-skin", dto.AnalyzeSkinRequestDTO{
				Image: "data:image/jpeg;base64,AAAA", Name: "Meera", Phone: "9876543210",
			})
			require.Equal(t, tc.wantStatus, rec.Code)

			var body dto.AnalyzeSkinResponseDTO
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, analysis.Disclaimer, body.Disclaimer)
			assert.Equal(t, tc.wantStatus == http.StatusOK, body.Success)
			if body.Success {
				require.NotNil(t, body.Analysis)
				assert.Equal(t, 78, body.Analysis.OverallScore)
			} else {
				assert.NotEmpty(t, body.Error)
			}

			scrape := ts.do(http.MethodGet, "/metrics", nil).Body.String()
			assert.Contains(t, scrape, `vernon_skin_analysis_total{result="`+tc.wantCode+`"} 1`)
		})
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil, func(context.Context) error { return nil })
	rec := ts.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.HealthResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "mongo", body.Records)

	ts = newTestServer(t, nil, func(context.Context) error { return errors.New("connection refused") })
	rec = ts.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "connection refused", body.Error)
}

func TestRequestTraceHeaders(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(middleware.HeaderRequestID))

	scrape := ts.do(http.MethodGet, "/metrics", nil).Body.String()
	assert.Contains(t, scrape, `vernon_http_requests_total{method="GET",route="/health",status="200"}`)
}
