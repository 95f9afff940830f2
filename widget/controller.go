package widget

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/SaisandeepKv/vernon-clinic-sub000/agent"
	"github.com/SaisandeepKv/vernon-clinic-sub000/content"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

const escapeText = "Hi Vernon Skin Clinic, I was chatting with your assistant on the website and would like to talk to someone."

var (
	ErrTurnInFlight   = errors.New("a message is already being answered")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrNothingToRetry = errors.New("no failed turn to retry")
)

// TurnFailedError is returned by Send and Retry when the turn ended in
// turn-failed or the stream broke. EscapeURL hands the user to a human.
type TurnFailedError struct {
	Code      string
	Message   string
	EscapeURL string
}

func (e *TurnFailedError) Error() string {
	return fmt.Sprintf("turn failed (%s): %s", e.Code, e.Message)
}

// ChatAPI streams one assistant turn.
type ChatAPI interface {
	StreamChat(ctx context.Context, sessionID string, msgs []agent.Message, emit agent.Emitter) error
}

// Attachment is an optional photo sent with a user message.
type Attachment struct {
	Data []byte
}

// Controller owns the transcript of one widget. At most one turn is in flight;
// every stream event goes through Reduce.
type Controller struct {
	api   ChatAPI
	store Store
	now   func() time.Time

	onChange func(State)
	inFlight atomic.Bool

	mu      sync.Mutex
	session Session
	state   State
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// OnChange is called with a snapshot after every state change.
func OnChange(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

func NewController(api ChatAPI, store Store, opts ...Option) (*Controller, error) {
	c := &Controller{api: api, store: store, now: time.Now, state: initialState()}
	for _, o := range opts {
		o(c)
	}
	sess, err := EnsureSession(store, c.now())
	if err != nil {
		return nil, fmt.Errorf("ensure session: %w", err)
	}
	c.session = sess
	return c, nil
}

func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ID
}

// State returns a snapshot. Callers may keep it.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() State {
	s := c.state
	s.Messages = slices.Clone(c.state.Messages)
	return s
}

func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	c.state.Draft = text
	s := c.snapshot()
	c.mu.Unlock()
	c.notify(s)
}

// Busy reports whether sending is currently disabled.
func (c *Controller) Busy() bool { return c.inFlight.Load() }

// Send appends the user message and runs one turn. It returns
// ErrTurnInFlight while a previous turn is outstanding.
func (c *Controller) Send(ctx context.Context, text string, image *Attachment) (*agent.Message, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrTurnInFlight
	}
	defer c.inFlight.Store(false)

	text = strings.TrimSpace(text)
	if text == "" && (image == nil || len(image.Data) == 0) {
		return nil, ErrEmptyMessage
	}
	msg := agent.Message{ID: uuid.NewString(), Role: agent.RoleUser}
	if text != "" {
		msg.Parts = append(msg.Parts, agent.TextPart(text))
	}
	if image != nil && len(image.Data) > 0 {
		uri, mt, _, err := prepareUpload(image.Data)
		if err != nil {
			return nil, err
		}
		msg.Parts = append(msg.Parts, agent.Part{Type: agent.PartFile, MediaType: mt, URL: uri})
	}

	sess, err := EnsureSession(c.store, c.now())
	if err != nil {
		return nil, fmt.Errorf("ensure session: %w", err)
	}

	c.mu.Lock()
	if sess.Fresh || sess.ID != c.session.ID {
		// 만료된 세션은 환영 메시지부터 다시 시작한다.
		c.state = initialState()
	}
	c.session = sess
	c.state.Messages = append(slices.Clip(c.state.Messages), msg)
	c.state.Draft = ""
	c.state.Failure = nil
	c.state.Pending = nil
	c.state.Status = StatusStreaming
	s := c.snapshot()
	c.mu.Unlock()
	c.notify(s)

	return c.run(ctx, sess.ID, s.Messages)
}

// Retry resends the transcript after a failed turn without adding a message.
func (c *Controller) Retry(ctx context.Context) (*agent.Message, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrTurnInFlight
	}
	defer c.inFlight.Store(false)

	c.mu.Lock()
	if c.state.Status != StatusError {
		c.mu.Unlock()
		return nil, ErrNothingToRetry
	}
	c.state.Failure = nil
	c.state.Status = StatusStreaming
	s := c.snapshot()
	sid := c.session.ID
	c.mu.Unlock()
	c.notify(s)

	return c.run(ctx, sid, s.Messages)
}

func (c *Controller) run(ctx context.Context, sessionID string, msgs []agent.Message) (*agent.Message, error) {
	var terminal *agent.Event
	msgs = agent.RecentHistory(msgs, agent.MaxHistory)
	err := c.api.StreamChat(ctx, sessionID, msgs, func(e agent.Event) {
		if terminal != nil {
			return
		}
		if e.Terminal() {
			ev := e
			terminal = &ev
		}
		c.apply(e)
	})

	if terminal == nil {
		code := agent.CodeUpstream
		if ctx.Err() != nil {
			code = agent.CodeCancelled
		}
		if err == nil {
			err = ErrStreamTruncated
		}
		logger.WarnWithFields("chat stream failed", logger.Fields{"session_id": sessionID, "error": err.Error()})
		c.apply(agent.Event{Type: agent.EventTurnFailed, ErrorCode: code, Error: err.Error()})
		return nil, &TurnFailedError{Code: code, Message: err.Error(), EscapeURL: c.EscapeLink()}
	}

	if terminal.Type == agent.EventTurnFailed {
		return nil, &TurnFailedError{Code: terminal.ErrorCode, Message: terminal.Error, EscapeURL: c.EscapeLink()}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	last, _ := c.state.LastAssistant()
	return &last, nil
}

func (c *Controller) apply(e agent.Event) {
	c.mu.Lock()
	c.state = Reduce(c.state, e)
	s := c.snapshot()
	c.mu.Unlock()
	c.notify(s)
}

func (c *Controller) notify(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

// Suggestions derives follow-up chips from the latest assistant reply.
func (c *Controller) Suggestions() []string {
	c.mu.Lock()
	last, ok := c.state.LastAssistant()
	c.mu.Unlock()
	if !ok {
		return Suggestions("", false)
	}
	_, booked := BookingResult(last)
	return Suggestions(last.Text(), booked)
}

// EscapeLink is the WhatsApp link offered when the assistant cannot answer.
func (c *Controller) EscapeLink() string {
	return tools.WhatsAppURL(content.PrimaryWhatsApp, escapeText)
}

// ClaimProactive reports whether the proactive greeting may be shown and
// records that it was. It returns true at most once per device.
func (c *Controller) ClaimProactive() bool {
	if ProactiveShown(c.store) {
		return false
	}
	if err := MarkProactiveShown(c.store); err != nil {
		logger.WarnWithFields("failed to persist proactive flag", logger.Fields{"error": err.Error()})
	}
	return true
}

// Reset starts a new session with only the welcome message.
func (c *Controller) Reset() error {
	if !c.inFlight.CompareAndSwap(false, true) {
		return ErrTurnInFlight
	}
	defer c.inFlight.Store(false)

	if err := ClearSession(c.store); err != nil {
		return err
	}
	sess, err := EnsureSession(c.store, c.now())
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.session = sess
	c.state = initialState()
	s := c.snapshot()
	c.mu.Unlock()
	c.notify(s)
	return nil
}
