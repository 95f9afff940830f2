package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

type EventType string

const (
	EventTextDelta     EventType = "text-delta"
	EventToolRequested EventType = "tool-requested"
	EventToolExecuting EventType = "tool-executing"
	EventToolResolved  EventType = "tool-resolved"
	EventTurnComplete  EventType = "turn-complete"
	EventTurnFailed    EventType = "turn-failed"
)

// Event is one item of a turn's stream. Type decides which fields are set.
// The stream always ends with exactly one turn-complete or turn-failed.
type Event struct {
	Type EventType `json:"type"`

	Delta string `json:"delta,omitempty"`

	ToolCallID string          `json:"toolCallId,omitempty"`
	ToolName   string          `json:"toolName,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
	Success    *bool           `json:"success,omitempty"`
	Round      int             `json:"round,omitempty"`

	Message *Message `json:"message,omitempty"`

	ErrorCode string `json:"errorCode,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Terminal reports whether e closes the stream.
func (e Event) Terminal() bool {
	return e.Type == EventTurnComplete || e.Type == EventTurnFailed
}

// Emitter receives turn events. Run never calls it concurrently.
type Emitter func(Event)

// serialize guards emit so concurrently executing tools can report progress.
func serialize(emit Emitter) Emitter {
	if emit == nil {
		return func(Event) {}
	}
	var mu sync.Mutex
	return func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		emit(e)
	}
}

const (
	CodeTimeout   = "timeout"
	CodeUpstream  = "upstream_error"
	CodeCancelled = "cancelled"
)

// TurnError is the terminal failure of a turn.
type TurnError struct {
	Code  string
	Cause error
}

func (e *TurnError) Error() string {
	if e == nil {
		return CodeUpstream
	}
	if e.Cause == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Cause)
}

func (e *TurnError) Unwrap() error { return e.Cause }

// classify maps a model or context failure to a TurnError. turnCtx is the
// context carrying the turn deadline, parent is the caller's.
func classify(parent, turnCtx context.Context, err error) *TurnError {
	switch {
	case parent.Err() != nil:
		return &TurnError{Code: CodeCancelled, Cause: parent.Err()}
	case errors.Is(turnCtx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return &TurnError{Code: CodeTimeout, Cause: err}
	default:
		return &TurnError{Code: CodeUpstream, Cause: err}
	}
}
