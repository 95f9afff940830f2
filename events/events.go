package events

import (
	"time"
)

type EventType string

const (
	BookingReceived   EventType = "booking.received"
	CallbackRequested EventType = "callback.requested"
	AnalysisRequested EventType = "analysis.requested"
)

// Source is stamped on every event leaving this service.
const Source = "vernon-website"

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// LeadEvent carries a validated lead. Channel tells the front desk where the
// lead came from (chatbot, booking-form, callback-form, skin-analysis).
type LeadEvent struct {
	BaseEvent
	Channel       string `json:"channel"`
	SessionID     string `json:"session_id,omitempty"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Treatment     string `json:"treatment,omitempty"`
	Location      string `json:"location,omitempty"`
	PreferredDate string `json:"preferred_date,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

func NewBase(id string, t EventType, at time.Time) BaseEvent {
	return BaseEvent{ID: id, Type: t, Timestamp: at, Source: Source, Version: "1"}
}
