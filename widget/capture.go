package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/SaisandeepKv/vernon-clinic-sub000/analysis"
	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
)

type CaptureState string

const (
	CaptureIdle         CaptureState = "idle"
	CaptureLeadFormOpen CaptureState = "lead-form-open"
	CaptureLeadCaptured CaptureState = "lead-captured"
	CaptureSourcePicker CaptureState = "source-picker"
	CaptureUploading    CaptureState = "uploading"
	CaptureSuccess      CaptureState = "analysis-success"
	CaptureFailure      CaptureState = "analysis-failure"
)

type Source string

const (
	SourceCamera  Source = "camera"
	SourceGallery Source = "gallery"
)

var (
	// ErrLeadRequired is returned when the picker or an upload is reached without a valid lead.
	ErrLeadRequired      = errors.New("name and phone are required before choosing a photo")
	ErrInvalidTransition = errors.New("invalid capture flow transition")
)

// SkinAnalyzer is the analysis endpoint.
type SkinAnalyzer interface {
	AnalyzeSkin(ctx context.Context, req AnalyzeRequest) (*analysis.Report, error)
}

// CaptureFlow gates the camera/gallery behind name and phone. The lead is kept
// for the life of the flow, so a retry or another photo does not ask again;
// Reset forgets it.
type CaptureFlow struct {
	mu        sync.Mutex
	api       SkinAnalyzer
	sessionID string

	state  CaptureState
	lead   booking.Lead
	leadID string
	source Source
	report *analysis.Report
	err    error
}

func NewCaptureFlow(api SkinAnalyzer, sessionID string) *CaptureFlow {
	return &CaptureFlow{api: api, sessionID: sessionID, state: CaptureIdle}
}

func (f *CaptureFlow) State() CaptureState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *CaptureFlow) Lead() booking.Lead {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lead
}

func (f *CaptureFlow) Report() *analysis.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.report
}

// Err is the failure of the last upload.
func (f *CaptureFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *CaptureFlow) transitionError(action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, f.state)
}

// Open is the explicit user action (chip or quick-action button) that shows the lead form.
func (f *CaptureFlow) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != CaptureIdle {
		return f.transitionError("open")
	}
	f.state = CaptureLeadFormOpen
	return nil
}

// SubmitLead validates the form. On failure the form stays open.
func (f *CaptureFlow) SubmitLead(name, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != CaptureLeadFormOpen {
		return f.transitionError("submit lead")
	}
	lead := booking.Lead{Name: name, Phone: phone}
	if err := lead.Validate(); err != nil {
		return err
	}
	f.lead = lead.Normalized()
	f.leadID = uuid.NewString()
	f.state = CaptureLeadCaptured
	return nil
}

func (f *CaptureFlow) hasLead() bool {
	return f.lead.Validate() == nil
}

// PickSource enables the camera or the gallery.
func (f *CaptureFlow) PickSource(src Source) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasLead() {
		return ErrLeadRequired
	}
	if f.state != CaptureLeadCaptured && f.state != CaptureSourcePicker {
		return f.transitionError("pick source")
	}
	if src != SourceCamera && src != SourceGallery {
		return fmt.Errorf("unknown photo source %q", src)
	}
	f.source = src
	f.state = CaptureSourcePicker
	return nil
}

// Upload compresses the selected photo and posts it with the lead. Any failure
// moves the flow to CaptureFailure.
func (f *CaptureFlow) Upload(ctx context.Context, image []byte) (*analysis.Report, error) {
	f.mu.Lock()
	if !f.hasLead() {
		f.mu.Unlock()
		return nil, ErrLeadRequired
	}
	if f.state != CaptureSourcePicker {
		err := f.transitionError("upload")
		f.mu.Unlock()
		return nil, err
	}
	f.state = CaptureUploading
	f.err = nil
	lead, leadID, source := f.lead, f.leadID, f.source
	f.mu.Unlock()

	report, err := f.upload(ctx, lead, leadID, source, image)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state, f.err, f.report = CaptureFailure, err, nil
		return nil, err
	}
	f.state, f.report = CaptureSuccess, report
	return report, nil
}

func (f *CaptureFlow) upload(ctx context.Context, lead booking.Lead, leadID string, source Source, image []byte) (*analysis.Report, error) {
	uri, mediaType, compressed, err := prepareUpload(image)
	if err != nil {
		return nil, err
	}
	if !compressed {
		logger.WarnWithFields("photo compression failed, uploading original", logger.Fields{
			"media_type": mediaType,
			"bytes":      len(image),
		})
	}
	logger.DebugWithFields("uploading photo for analysis", logger.Fields{
		"source":     string(source),
		"media_type": mediaType,
		"compressed": compressed,
		"session_id": f.sessionID,
	})
	return f.api.AnalyzeSkin(ctx, AnalyzeRequest{
		Image:     uri,
		MediaType: mediaType,
		Name:      lead.Name,
		Phone:     lead.Phone,
		SessionID: f.sessionID,
		LeadID:    leadID,
	})
}

// Retry goes back to the picker after a failed upload, keeping the lead.
func (f *CaptureFlow) Retry() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != CaptureFailure {
		return f.transitionError("retry")
	}
	f.state, f.err = CaptureSourcePicker, nil
	return nil
}

// AnotherPhoto starts a new analysis for the same lead.
func (f *CaptureFlow) AnotherPhoto() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != CaptureSuccess {
		return f.transitionError("another photo")
	}
	f.state, f.report = CaptureSourcePicker, nil
	return nil
}

// Reset closes the flow and forgets the lead.
func (f *CaptureFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state, f.lead, f.leadID, f.source, f.report, f.err = CaptureIdle, booking.Lead{}, "", "", nil, nil
}

// BookingPrefill opens the booking form as a follow-up to a successful analysis.
// The branch is left for the patient to choose.
func (f *CaptureFlow) BookingPrefill() (booking.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != CaptureSuccess || f.report == nil {
		return booking.Request{}, f.transitionError("booking prefill")
	}

	r := f.report
	treatment := booking.DefaultTreatment
	if len(r.RecommendedTreatments) > 0 {
		treatment = r.RecommendedTreatments[0]
	}
	var concerns []string
	for _, c := range r.Concerns {
		concerns = append(concerns, fmt.Sprintf("%s (%s)", c.Name, c.Severity))
	}
	notes := fmt.Sprintf("Follow-up to AI skin analysis, score %d/100.", r.OverallScore)
	if len(concerns) > 0 {
		notes += " Concerns: " + strings.Join(concerns, ", ") + "."
	}

	return booking.Request{
		PatientName: f.lead.Name,
		Phone:       f.lead.Phone,
		Treatment:   treatment,
		Notes:       notes,
	}, nil
}
