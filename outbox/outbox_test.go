package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/eventbus"
	"github.com/SaisandeepKv/vernon-clinic-sub000/events"
	"github.com/SaisandeepKv/vernon-clinic-sub000/models"
)

type fakeSink struct {
	mu   sync.Mutex
	recs []models.Record
	err  error
}

func (f *fakeSink) Save(_ context.Context, rec models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
	return f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	events []eventbus.Event
}

func (f *fakePublisher) Publish(_ context.Context, topic string, evt eventbus.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.events = append(f.events, evt)
	return nil
}

func (f *fakePublisher) Close() {}

type panicTask struct{}

func (panicTask) Name() string                      { return "panics" }
func (panicTask) Handles(Kind) bool                 { return true }
func (panicTask) Run(context.Context, Entry) error { panic("boom") }

func sampleBooking() Entry {
	return Entry{
		Kind:      KindBooking,
		Source:    SourceChatbot,
		SessionID: "sess-1",
		Booking: booking.Request{
			PatientName: "Ravi Kumar",
			Phone:       "9876543210",
			Treatment:   "Hair Transplant",
			Location:    booking.Gachibowli,
		},
		At: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestDispatch_AllTasksRun(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := &fakeSink{}
	pub := &fakePublisher{}
	ob := New(time.Second,
		&WebhookTask{URL: srv.URL, Client: srv.Client()},
		&RecordTask{Sink: sink},
		&EventTask{Publisher: pub, Topic: "clinic_leads"},
	)

	ob.Dispatch(context.Background(), sampleBooking())
	ob.Wait()

	assert.Equal(t, "Ravi Kumar", got["patientName"])
	assert.Equal(t, "vernon-website", got["source"])
	assert.Equal(t, "chatbot", got["channel"])
	assert.Equal(t, "2025-06-01T10:00:00Z", got["timestamp"])

	require.Len(t, sink.recs, 1)
	assert.Equal(t, models.RecordBooking, sink.recs[0].Type)
	assert.Equal(t, "chatbot", sink.recs[0].Source)
	assert.Equal(t, "Gachibowli", sink.recs[0].Location)
	assert.Equal(t, "sess-1", sink.recs[0].SessionID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "clinic_leads", pub.topics[0])
	assert.Equal(t, string(events.BookingReceived), pub.events[0].Type)
	lead, err := eventbus.DecodeJSON[events.LeadEvent](pub.events[0])
	require.NoError(t, err)
	assert.Equal(t, pub.events[0].ID, lead.ID)
	assert.Equal(t, "9876543210", lead.Phone)
}

func TestDispatch_WebhookOnlyForBookings(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	sink := &fakeSink{}
	ob := New(time.Second, &WebhookTask{URL: srv.URL}, &RecordTask{Sink: sink})
	ob.Dispatch(context.Background(), Entry{
		Kind:   KindCallback,
		Source: SourceCallbackForm,
		Lead:   booking.Lead{Name: "Asha", Phone: "9123456780"},
	})
	ob.Wait()

	assert.Equal(t, 0, calls)
	require.Len(t, sink.recs, 1)
	assert.Equal(t, models.RecordCallback, sink.recs[0].Type)
	assert.Equal(t, "Asha", sink.recs[0].Name)
	assert.Empty(t, sink.recs[0].Treatment)
}

func TestDispatch_FailuresAreIsolated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := &fakeSink{err: errors.New("mongo down")}
	pub := &fakePublisher{}

	var mu sync.Mutex
	results := map[string]error{}
	ob := New(time.Second,
		panicTask{},
		&WebhookTask{URL: srv.URL},
		&RecordTask{Sink: sink},
		&EventTask{Publisher: pub, Topic: "leads"},
	)
	ob.OnResult(func(task string, _ Kind, err error) {
		mu.Lock()
		results[task] = err
		mu.Unlock()
	})

	assert.NotPanics(t, func() {
		ob.Dispatch(context.Background(), sampleBooking())
		ob.Wait()
	})

	assert.Error(t, results["panics"])
	assert.Error(t, results["sheets_webhook"])
	assert.Error(t, results["records"])
	assert.NoError(t, results["event_publish"])
	assert.Len(t, pub.events, 1)
}

func TestDispatch_SurvivesCallerCancellation(t *testing.T) {
	sink := &fakeSink{}
	ob := New(time.Second, &RecordTask{Sink: sink})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ob.Dispatch(ctx, sampleBooking())
	ob.Wait()

	assert.Len(t, sink.recs, 1)
}

func TestEntryRecord_Analysis(t *testing.T) {
	rec := Entry{
		Kind:   KindAnalysis,
		Source: SourceSkinAnalysis,
		Lead:   booking.Lead{Name: "Meena", Phone: "9988776655"},
	}.Record()

	assert.Equal(t, models.RecordAnalysis, rec.Type)
	assert.Equal(t, "skin-analysis", rec.Source)
	assert.Equal(t, "Meena", rec.Name)
}
