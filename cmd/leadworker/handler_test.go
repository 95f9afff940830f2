package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaisandeepKv/vernon-clinic-sub000/eventbus"
	"github.com/SaisandeepKv/vernon-clinic-sub000/events"
	"github.com/SaisandeepKv/vernon-clinic-sub000/models"
)

type memSink struct {
	recs []models.Record
	err  error
}

func (m *memSink) Save(_ context.Context, rec models.Record) error {
	if m.err != nil {
		return m.err
	}
	m.recs = append(m.recs, rec)
	return nil
}

func leadEvent(t *testing.T, et events.EventType) eventbus.Event {
	t.Helper()
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	evt, err := eventbus.NewJSONEvent("evt-1", string(et), events.LeadEvent{
		BaseEvent: events.NewBase("evt-1", et, at),
		Channel:   "chatbot",
		SessionID: "sess-1",
		Name:      "Ravi Kumar",
		Phone:     "9876543210",
		Treatment: "Hair Transplant",
		Location:  "Gachibowli",
	})
	require.NoError(t, err)
	return evt
}

func TestLeadHandler(t *testing.T) {
	testCases := []struct {
		name string
		et   events.EventType
		want models.RecordType
	}{
		{"booking", events.BookingReceived, models.RecordBooking},
		{"callback", events.CallbackRequested, models.RecordCallback},
		{"analysis", events.AnalysisRequested, models.RecordAnalysis},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &memSink{}
			require.NoError(t, leadHandler(sink)(context.Background(), leadEvent(t, tc.et)))

			require.Len(t, sink.recs, 1)
			rec := sink.recs[0]
			assert.Equal(t, "evt-1", rec.ID)
			assert.Equal(t, tc.want, rec.Type)
			assert.Equal(t, "chatbot", rec.Source)
			assert.Equal(t, "Gachibowli", rec.Location)
			assert.Equal(t, "sess-1", rec.SessionID)
			assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), rec.CreatedAt)
		})
	}
}

func TestLeadHandler_SkipsAndFailures(t *testing.T) {
	sink := &memSink{}
	h := leadHandler(sink)

	assert.NoError(t, h(context.Background(), eventbus.Event{ID: "x", Type: "newsletter.sent"}))
	assert.NoError(t, h(context.Background(), eventbus.Event{ID: "y", Type: string(events.BookingReceived), Payload: json.RawMessage(`"nope"`)}))
	assert.Empty(t, sink.recs)

	sink.err = errors.New("mongo unavailable")
	err := h(context.Background(), leadEvent(t, events.BookingReceived))
	assert.EqualError(t, err, "mongo unavailable", "store errors are returned so the event is retried")
}
