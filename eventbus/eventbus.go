// Package eventbus publishes domain events to Kafka and consumes them with
// delayed retries. Publishing from the API is at-most-once: a failed publish
// is reported to the caller, which logs it and moves on. Consumers commit only
// after the handler succeeded or the event was parked on a retry or
// dead-letter topic.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Event is the envelope written as the Kafka message value.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Retry     int             `json:"retry,omitempty"`
	MaxRetry  int             `json:"max_retry,omitempty"`
	LastError string          `json:"last_error,omitempty"`
}

// Handler processes one consumed event. A non-nil error schedules a retry.
type Handler func(ctx context.Context, evt Event) error

type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// NewJSONEvent encodes payload as the event body. An empty id gets a fresh uuid.
func NewJSONEvent(id, eventType string, payload any) (Event, error) {
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal event payload: %w", err)
	}
	return Event{ID: id, Type: eventType, Payload: b}, nil
}

// DecodeJSON unmarshals an event body into T.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("unmarshal event payload: %w", err)
	}
	return out, nil
}
