package outbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/SaisandeepKv/vernon-clinic-sub000/eventbus"
	"github.com/SaisandeepKv/vernon-clinic-sub000/events"
	"github.com/SaisandeepKv/vernon-clinic-sub000/models"
)

// WebhookSource is the fixed source tag the spreadsheet expects.
const WebhookSource = "vernon-website"

// WebhookTask posts bookings to the spreadsheet webhook.
type WebhookTask struct {
	URL    string
	Client *http.Client
}

type webhookPayload struct {
	PatientName   string `json:"patientName"`
	Phone         string `json:"phone"`
	Treatment     string `json:"treatment"`
	Location      string `json:"location"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	Notes         string `json:"notes"`
	Channel       string `json:"channel"`
	Timestamp     string `json:"timestamp"`
	Source        string `json:"source"`
}

func (w *WebhookTask) Name() string        { return "sheets_webhook" }
func (w *WebhookTask) Handles(k Kind) bool { return k == KindBooking }

func (w *WebhookTask) Run(ctx context.Context, e Entry) error {
	b := e.Booking
	body, err := json.Marshal(webhookPayload{
		PatientName:   b.PatientName,
		Phone:         b.Phone,
		Treatment:     b.Treatment,
		Location:      string(b.Location),
		PreferredDate: b.PreferredDate,
		PreferredTime: b.PreferredTime,
		Notes:         b.Notes,
		Channel:       e.Source,
		Timestamp:     e.At.UTC().Format(time.RFC3339),
		Source:        WebhookSource,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	// Apps Script webhooks answer 302 to the result page; the default client follows it.
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

// RecordSink is an append-only store for leads.
type RecordSink interface {
	Save(ctx context.Context, rec models.Record) error
}

type RecordTask struct {
	Sink RecordSink
}

func (r *RecordTask) Name() string      { return "records" }
func (r *RecordTask) Handles(Kind) bool { return true }

func (r *RecordTask) Run(ctx context.Context, e Entry) error {
	return r.Sink.Save(ctx, e.Record())
}

// EventTask publishes every lead to the lead topic.
type EventTask struct {
	Publisher eventbus.Publisher
	Topic     string
}

func (t *EventTask) Name() string      { return "event_publish" }
func (t *EventTask) Handles(Kind) bool { return true }

var eventTypes = map[Kind]events.EventType{
	KindBooking:  events.BookingReceived,
	KindCallback: events.CallbackRequested,
	KindAnalysis: events.AnalysisRequested,
}

func (t *EventTask) Run(ctx context.Context, e Entry) error {
	et, ok := eventTypes[e.Kind]
	if !ok {
		return fmt.Errorf("no event type for %q", e.Kind)
	}
	rec := e.Record()
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	payload := events.LeadEvent{
		BaseEvent:     events.NewBase(id, et, e.At),
		Channel:       e.Source,
		SessionID:     e.SessionID,
		Name:          rec.Name,
		Phone:         rec.Phone,
		Treatment:     rec.Treatment,
		Location:      rec.Location,
		PreferredDate: rec.PreferredDate,
		PreferredTime: rec.PreferredTime,
		Notes:         rec.Notes,
	}
	evt, err := eventbus.NewJSONEvent(id, string(et), payload)
	if err != nil {
		return err
	}
	return t.Publisher.Publish(ctx, t.Topic, evt)
}
