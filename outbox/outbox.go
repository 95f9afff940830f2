// Package outbox runs the side effects of an accepted lead (spreadsheet
// webhook, records write, event publish). Each task runs on its own goroutine
// with its own timeout; failures are logged and never reach the caller.
// There are no retries.
package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
	"github.com/SaisandeepKv/vernon-clinic-sub000/models"
)

type Kind string

const (
	KindBooking  Kind = "booking"
	KindCallback Kind = "callback"
	KindAnalysis Kind = "analysis"
)

const (
	SourceChatbot      = "chatbot"
	SourceBookingForm  = "booking-form"
	SourceCallbackForm = "callback-form"
	SourceSkinAnalysis = "skin-analysis"
)

// Entry is one accepted submission. Booking is set for KindBooking; Lead for
// the other kinds.
type Entry struct {
	// ID 가 있으면 발행 이벤트와 기록의 id 로 쓰인다. 비어 있으면 새로 만든다.
	ID        string
	Kind      Kind
	Source    string
	SessionID string
	Booking   booking.Request
	Lead      booking.Lead
	At        time.Time
}

func (e Entry) contact() booking.Lead {
	if e.Kind == KindBooking {
		return booking.Lead{Name: e.Booking.PatientName, Phone: e.Booking.Phone}
	}
	return e.Lead
}

// Record maps the entry to the persisted document.
func (e Entry) Record() models.Record {
	c := e.contact()
	rec := models.Record{
		ID:        e.ID,
		Type:      models.RecordType(e.Kind),
		Source:    e.Source,
		Name:      c.Name,
		Phone:     c.Phone,
		SessionID: e.SessionID,
		CreatedAt: e.At,
	}
	if e.Kind == KindBooking {
		rec.Treatment = e.Booking.Treatment
		rec.Location = string(e.Booking.Location)
		rec.PreferredDate = e.Booking.PreferredDate
		rec.PreferredTime = e.Booking.PreferredTime
		rec.Notes = e.Booking.Notes
	}
	return rec
}

type Task interface {
	Name() string
	Handles(k Kind) bool
	Run(ctx context.Context, e Entry) error
}

// ResultFunc observes task outcomes (metrics).
type ResultFunc func(task string, kind Kind, err error)

type Outbox struct {
	tasks    []Task
	timeout  time.Duration
	onResult ResultFunc
	wg       sync.WaitGroup
}

func New(timeout time.Duration, tasks ...Task) *Outbox {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Outbox{tasks: tasks, timeout: timeout}
}

func (o *Outbox) OnResult(fn ResultFunc) { o.onResult = fn }

// Dispatch starts every task that handles e.Kind and returns immediately.
// Tasks keep running after ctx is cancelled, bounded by the outbox timeout.
func (o *Outbox) Dispatch(ctx context.Context, e Entry) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	base := context.WithoutCancel(ctx)
	for _, t := range o.tasks {
		if !t.Handles(e.Kind) {
			continue
		}
		o.wg.Add(1)
		go o.run(base, t, e)
	}
}

func (o *Outbox) run(base context.Context, t Task, e Entry) {
	defer o.wg.Done()
	ctx, cancel := context.WithTimeout(base, o.timeout)
	defer cancel()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		err = t.Run(ctx, e)
	}()

	if o.onResult != nil {
		o.onResult(t.Name(), e.Kind, err)
	}
	if err != nil {
		logger.ErrorWithFields("outbox task failed", logger.Fields{
			"task":       t.Name(),
			"kind":       string(e.Kind),
			"source":     e.Source,
			"session_id": e.SessionID,
			"error":      err.Error(),
		})
		return
	}
	logger.DebugWithFields("outbox task done", logger.Fields{"task": t.Name(), "kind": string(e.Kind)})
}

// Wait blocks until every dispatched task has finished. Used at shutdown and in tests.
func (o *Outbox) Wait() { o.wg.Wait() }
