package main

import (
	"context"

	"github.com/SaisandeepKv/vernon-clinic-sub000/eventbus"
	"github.com/SaisandeepKv/vernon-clinic-sub000/events"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
	"github.com/SaisandeepKv/vernon-clinic-sub000/models"
)

type recordSink interface {
	Save(ctx context.Context, rec models.Record) error
}

var recordTypes = map[events.EventType]models.RecordType{
	events.BookingReceived:   models.RecordBooking,
	events.CallbackRequested: models.RecordCallback,
	events.AnalysisRequested: models.RecordAnalysis,
}

// recordFromEvent maps a lead event to the record the API would have written.
// The event id becomes the record id so redelivery does not duplicate it.
func recordFromEvent(ev events.LeadEvent, rt models.RecordType) models.Record {
	return models.Record{
		ID:            ev.ID,
		Type:          rt,
		Source:        ev.Channel,
		Name:          ev.Name,
		Phone:         ev.Phone,
		Treatment:     ev.Treatment,
		Location:      ev.Location,
		PreferredDate: ev.PreferredDate,
		PreferredTime: ev.PreferredTime,
		Notes:         ev.Notes,
		SessionID:     ev.SessionID,
		CreatedAt:     ev.Timestamp,
	}
}

// leadHandler stores every lead event. Unknown types belong to other consumers
// and are acknowledged without work; undecodable payloads are logged and
// dropped since retrying cannot fix them.
func leadHandler(sink recordSink) eventbus.Handler {
	return func(ctx context.Context, evt eventbus.Event) error {
		rt, ok := recordTypes[events.EventType(evt.Type)]
		if !ok {
			logger.DebugWithFields("ignoring event", logger.Fields{"event_id": evt.ID, "type": evt.Type})
			return nil
		}

		lead, err := eventbus.DecodeJSON[events.LeadEvent](evt)
		if err != nil {
			logger.ErrorWithFields("undecodable lead event", logger.Fields{"event_id": evt.ID, "error": err.Error()})
			return nil
		}
		if lead.ID == "" {
			lead.ID = evt.ID
		}

		if err := sink.Save(ctx, recordFromEvent(lead, rt)); err != nil {
			return err
		}
		logger.InfoWithFields("lead recorded", logger.Fields{
			"event_id": evt.ID,
			"type":     string(rt),
			"channel":  lead.Channel,
			"retry":    evt.Retry,
		})
		return nil
	}
}
