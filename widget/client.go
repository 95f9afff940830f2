package widget

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/SaisandeepKv/vernon-clinic-sub000/agent"
	"github.com/SaisandeepKv/vernon-clinic-sub000/analysis"
	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
)

const (
	defaultCallTimeout   = 15 * time.Second
	defaultStreamTimeout = 90 * time.Second
	// 분석은 비전 모델 호출을 포함한다.
	defaultAnalyzeTimeout = 60 * time.Second

	maxSSELine = 1 << 20
)

// ErrStreamTruncated means the chat stream ended without turn-complete or turn-failed.
var ErrStreamTruncated = errors.New("chat stream ended before the turn finished")

// HTTPError is a non-2xx answer from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("vernon api request failed: status=%d message=%s", e.StatusCode, e.Message)
}

// APIClient talks to the assistant's HTTP API.
type APIClient struct {
	http *resty.Client
}

type ClientConfig struct {
	BaseURL string
	// UserAgent is optional.
	UserAgent string
}

func NewAPIClient(cfg ClientConfig) *APIClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json")
	if cfg.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &APIClient{http: c}
}

type chatRequest struct {
	SessionID string          `json:"sessionId,omitempty"`
	Messages  []agent.Message `json:"messages"`
}

// StreamChat posts the transcript and calls emit for every server-sent event
// in order. It returns once the terminal event was delivered.
func (c *APIClient) StreamChat(ctx context.Context, sessionID string, msgs []agent.Message, emit agent.Emitter) error {
	ctx, cancel := context.WithTimeout(ctx, defaultStreamTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/event-stream").
		SetHeader("X-Session-Id", sessionID).
		SetBody(chatRequest{SessionID: sessionID, Messages: msgs}).
		SetDoNotParseResponse(true).
		Post("/api/chat")
	if err != nil {
		return fmt.Errorf("chat request: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != 200 {
		b, _ := io.ReadAll(io.LimitReader(body, 2048))
		return &HTTPError{StatusCode: resp.StatusCode(), Message: errorMessage(b)}
	}
	return readEvents(body, emit)
}

// readEvents parses a text/event-stream body. Only data lines matter, the
// event name is repeated inside the JSON payload.
func readEvents(r io.Reader, emit agent.Emitter) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxSSELine)

	var data strings.Builder
	flush := func() (bool, error) {
		if data.Len() == 0 {
			return false, nil
		}
		var e agent.Event
		err := json.Unmarshal([]byte(data.String()), &e)
		data.Reset()
		if err != nil {
			return false, fmt.Errorf("decode chat event: %w", err)
		}
		emit(e)
		return e.Terminal(), nil
	}

	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			done, err := flush()
			if err != nil || done {
				return err
			}
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read chat stream: %w", err)
	}
	if done, err := flush(); err != nil || done {
		return err
	}
	return ErrStreamTruncated
}

type bookingResponse struct {
	Success        bool             `json:"success"`
	Message        string           `json:"message"`
	BookingDetails *booking.Details `json:"bookingDetails"`
	Error          string           `json:"error"`
}

type bookingBody struct {
	booking.Request
	SessionID string `json:"sessionId,omitempty"`
}

// Book submits the booking form.
func (c *APIClient) Book(ctx context.Context, req booking.Request, sessionID string) (*booking.Details, string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()

	var out bookingResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(bookingBody{Request: req, SessionID: sessionID}).
		SetResult(&out).
		SetError(&out).
		Post("/api/booking")
	if err != nil {
		return nil, "", fmt.Errorf("booking request: %w", err)
	}
	if resp.IsError() || !out.Success {
		return nil, "", &HTTPError{StatusCode: resp.StatusCode(), Message: out.Error}
	}
	return out.BookingDetails, out.Message, nil
}

type callbackBody struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	SessionID string `json:"sessionId,omitempty"`
}

type callbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Callback asks the clinic to call the lead back.
func (c *APIClient) Callback(ctx context.Context, lead booking.Lead, sessionID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()

	var out callbackResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(callbackBody{Name: lead.Name, Phone: lead.Phone, SessionID: sessionID}).
		SetResult(&out).
		SetError(&out).
		Post("/api/callback")
	if err != nil {
		return "", fmt.Errorf("callback request: %w", err)
	}
	if resp.IsError() || !out.Success {
		return "", &HTTPError{StatusCode: resp.StatusCode(), Message: out.Error}
	}
	return out.Message, nil
}

// AnalyzeRequest is one photo upload with the lead captured before it.
type AnalyzeRequest struct {
	Image     string `json:"image"`
	MediaType string `json:"mediaType"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	SessionID string `json:"sessionId,omitempty"`
	LeadID    string `json:"leadId,omitempty"`
}

type analyzeResponse struct {
	Success    bool             `json:"success"`
	Analysis   *analysis.Report `json:"analysis"`
	Disclaimer string           `json:"disclaimer"`
	Error      string           `json:"error"`
}

func (c *APIClient) AnalyzeSkin(ctx context.Context, req AnalyzeRequest) (*analysis.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultAnalyzeTimeout)
	defer cancel()

	var out analyzeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post("/api/analyze-skin")
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	if resp.IsError() || !out.Success || out.Analysis == nil {
		return nil, &HTTPError{StatusCode: resp.StatusCode(), Message: out.Error}
	}
	return out.Analysis, nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
