package models

import (
	"time"
)

type RecordType string

const (
	RecordBooking  RecordType = "booking"
	RecordCallback RecordType = "callback"
	RecordAnalysis RecordType = "analysis"
)

// Record is one lead captured by the assistant or a direct form.
// Collection: records (append-only; every submission is a new document)
type Record struct {
	ID            string     `bson:"_id" json:"id"`
	Type          RecordType `bson:"type" json:"type"`
	Source        string     `bson:"source" json:"source"`
	Name          string     `bson:"name" json:"name"`
	Phone         string     `bson:"phone" json:"phone"`
	PhoneDigits   string     `bson:"phone_digits" json:"phone_digits"`
	Treatment     string     `bson:"treatment,omitempty" json:"treatment,omitempty"`
	Location      string     `bson:"location,omitempty" json:"location,omitempty"`
	PreferredDate string     `bson:"preferred_date,omitempty" json:"preferred_date,omitempty"`
	PreferredTime string     `bson:"preferred_time,omitempty" json:"preferred_time,omitempty"`
	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"`
	SessionID     string     `bson:"session_id,omitempty" json:"session_id,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
}
