package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/metrics"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
	"github.com/SaisandeepKv/vernon-clinic-sub000/outbox"
	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

// LeadService 는 예약/콜백 폼 제출을 검증하고 outbox 로 넘긴다.
// 검증을 통과하면 sink 결과와 상관없이 성공으로 응답한다.
type LeadService struct {
	outbox  tools.Dispatcher
	metrics *metrics.Metrics
	now     func() time.Time
}

// LeadError 는 폼에 그대로 보여줄 Message 를 함께 담는다.
type LeadError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Cause      error
}

func (e *LeadError) Error() string {
	if e == nil {
		return "invalid_request"
	}
	return e.ErrorCode
}

func NewLeadService(ob tools.Dispatcher, m *metrics.Metrics) *LeadService {
	return &LeadService{outbox: ob, metrics: m, now: time.Now}
}

func (s *LeadService) Book(ctx context.Context, req booking.Request, sessionID string) (booking.Details, *LeadError) {
	if err := req.Validate(); err != nil {
		return booking.Details{}, invalidLead(err)
	}
	req = req.Normalized()

	s.dispatch(ctx, outbox.Entry{
		Kind:      outbox.KindBooking,
		Source:    outbox.SourceBookingForm,
		SessionID: sessionID,
		Booking:   req,
		At:        s.now(),
	})
	logger.InfoWithFields("booking form accepted", logger.Fields{
		"location":   string(req.Location),
		"treatment":  req.Treatment,
		"session_id": sessionID,
	})
	return req.Details(), nil
}

func (s *LeadService) Callback(ctx context.Context, lead booking.Lead, sessionID string) *LeadError {
	if err := lead.Validate(); err != nil {
		return invalidLead(err)
	}
	s.dispatch(ctx, outbox.Entry{
		Kind:      outbox.KindCallback,
		Source:    outbox.SourceCallbackForm,
		SessionID: sessionID,
		Lead:      lead.Normalized(),
		At:        s.now(),
	})
	logger.InfoWithFields("callback request accepted", logger.Fields{"session_id": sessionID})
	return nil
}

func (s *LeadService) dispatch(ctx context.Context, e outbox.Entry) {
	if s.metrics != nil {
		s.metrics.LeadsTotal.WithLabelValues(string(e.Kind), e.Source).Inc()
	}
	if s.outbox != nil {
		s.outbox.Dispatch(ctx, e)
	}
}

// FormError turns a ShouldBindJSON failure into the same 400 the service
// returns for invalid leads. Malformed JSON stays a bare invalid_request.
func FormError(err error) *LeadError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &LeadError{StatusCode: http.StatusBadRequest, ErrorCode: "invalid_request", Cause: err}
	}
	var errs []error
	for _, fe := range verrs {
		switch fe.StructField() {
		case "PatientName", "Name":
			errs = append(errs, booking.ErrInvalidName)
		case "Phone":
			errs = append(errs, booking.ErrInvalidPhone)
		case "Location":
			errs = append(errs, booking.ErrInvalidLocation)
		}
	}
	if len(errs) == 0 {
		return &LeadError{StatusCode: http.StatusBadRequest, ErrorCode: "invalid_request", Cause: err}
	}
	return invalidLead(errors.Join(errs...))
}

func invalidLead(err error) *LeadError {
	var msgs []string
	if errors.Is(err, booking.ErrInvalidName) {
		msgs = append(msgs, "Please enter your full name (at least 2 characters).")
	}
	if errors.Is(err, booking.ErrInvalidPhone) {
		msgs = append(msgs, "Please enter a valid phone number with at least 10 digits.")
	}
	if errors.Is(err, booking.ErrInvalidLocation) {
		msgs = append(msgs, "Please choose one of our clinics: "+strings.Join(booking.LocationNames(), ", ")+".")
	}
	return &LeadError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  "invalid_request",
		Message:    strings.Join(msgs, " "),
		Cause:      err,
	}
}
