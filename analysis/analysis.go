// Package analysis runs the photo-based skin/hair check behind the lead gate.
//
// The vision model is a black box returning a structured report. The service
// validates the lead, sniffs the image, hands the lead to the outbox and
// then calls the model.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/config"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
	"github.com/SaisandeepKv/vernon-clinic-sub000/media"
	"github.com/SaisandeepKv/vernon-clinic-sub000/outbox"
)

const Disclaimer = "This AI analysis is for general information only and is not a medical diagnosis. " +
	"Please consult one of our dermatologists for an accurate assessment and treatment plan."

var (
	ErrInvalidLead  = errors.New("valid name and phone are required before analysis")
	ErrInvalidImage = errors.New("invalid image")
	// ErrUnreadable means the model could not assess the photo (blurred, not skin or hair).
	ErrUnreadable = errors.New("photo could not be analyzed")
)

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

func (s Severity) rank() int {
	switch s {
	case SeveritySevere:
		return 0
	case SeverityModerate:
		return 1
	default:
		return 2
	}
}

type Concern struct {
	Name        string   `json:"name"`
	Severity    Severity `json:"severity"`
	Area        string   `json:"area"`
	Description string   `json:"description"`
}

type HairAnalysis struct {
	HairType       string `json:"hairType,omitempty"`
	ScalpCondition string `json:"scalpCondition,omitempty"`
	HairDensity    string `json:"hairDensity,omitempty"`
	HairLossStage  string `json:"hairLossStage,omitempty"`
}

type Report struct {
	OverallScore          int           `json:"overallScore"`
	Summary               string        `json:"summary"`
	Strengths             []string      `json:"strengths"`
	Concerns              []Concern     `json:"concerns"`
	SkinType              string        `json:"skinType,omitempty"`
	HairAnalysis          *HairAnalysis `json:"hairAnalysis,omitempty"`
	PersonalizedMessage   string        `json:"personalizedMessage,omitempty"`
	RecommendedTreatments []string      `json:"recommendedTreatments,omitempty"`
	Unreadable            bool          `json:"-"`
}

// normalize clamps the score, lowercases severities and ranks concerns
// most severe first, keeping model order within a severity.
func (r *Report) normalize() {
	r.OverallScore = max(0, min(100, r.OverallScore))
	for i := range r.Concerns {
		s := Severity(strings.ToLower(strings.TrimSpace(string(r.Concerns[i].Severity))))
		if s != SeveritySevere && s != SeverityModerate {
			s = SeverityMild
		}
		r.Concerns[i].Severity = s
	}
	slices.SortStableFunc(r.Concerns, func(a, b Concern) int { return a.Severity.rank() - b.Severity.rank() })
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Concerns == nil {
		r.Concerns = []Concern{}
	}
}

// Analyzer is the vision model.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, mediaType string) (*Report, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, e outbox.Entry)
}

type Submission struct {
	Image     string // data URI
	MediaType string
	Name      string
	Phone     string
	SessionID string
	// LeadID 는 위젯의 캡처 플로우마다 한 번 만들어져 재시도와 추가 사진에도 유지된다.
	LeadID string
}

// leadKey identifies one captured lead. Without a LeadID the session and the
// phone digits stand in; with neither, every upload counts as a new lead.
func (sub Submission) leadKey(lead booking.Lead) string {
	if sub.LeadID != "" {
		return "lead:" + sub.LeadID
	}
	if sub.SessionID != "" {
		return "session:" + sub.SessionID + ":" + booking.NormalizePhone(lead.Phone)
	}
	return ""
}

// LeadDedupeWindow is how long a recorded lead suppresses repeats of itself.
const LeadDedupeWindow = 24 * time.Hour

type Service struct {
	analyzer Analyzer
	outbox   Dispatcher
	now      func() time.Time

	mu       sync.Mutex
	recorded map[string]time.Time
}

func NewService(a Analyzer, ob Dispatcher) *Service {
	return &Service{analyzer: a, outbox: ob, now: time.Now, recorded: map[string]time.Time{}}
}

// firstSighting reports whether key has not been recorded within
// LeadDedupeWindow, and marks it recorded.
func (s *Service) firstSighting(key string, now time.Time) bool {
	if key == "" {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, at := range s.recorded {
		if now.Sub(at) >= LeadDedupeWindow {
			delete(s.recorded, k)
		}
	}
	if _, ok := s.recorded[key]; ok {
		return false
	}
	s.recorded[key] = now
	return true
}

// Analyze validates the submission and returns the model's report. The lead
// is recorded once, as soon as it and the image are valid, whatever the model
// does; retries and further photos of the same lead only run the model.
func (s *Service) Analyze(ctx context.Context, sub Submission) (*Report, error) {
	lead := booking.Lead{Name: sub.Name, Phone: sub.Phone}
	if err := lead.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLead, err)
	}
	mediaType, data, err := media.DecodeImage(sub.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	now := s.now()
	if s.outbox != nil && s.firstSighting(sub.leadKey(lead), now) {
		s.outbox.Dispatch(ctx, outbox.Entry{
			ID:        sub.LeadID,
			Kind:      outbox.KindAnalysis,
			Source:    outbox.SourceSkinAnalysis,
			SessionID: sub.SessionID,
			Lead:      lead.Normalized(),
			At:        now,
		})
	}

	start := time.Now()
	report, err := s.analyzer.Analyze(ctx, data, mediaType)
	if err != nil {
		logger.ErrorWithFields("skin analysis failed", logger.Fields{
			"media_type": mediaType,
			"bytes":      len(data),
			"error":      err.Error(),
		})
		return nil, err
	}
	if report.Unreadable {
		return nil, ErrUnreadable
	}
	report.normalize()

	logger.InfoWithFields("skin analysis completed", logger.Fields{
		"score":       report.OverallScore,
		"concerns":    len(report.Concerns),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return report, nil
}

// NewAnalyzer builds the vision model selected by llm.provider.
func NewAnalyzer(ctx context.Context, cfg config.AppConfig) (Analyzer, error) {
	switch cfg.LLM.Provider {
	case "", "google":
		if cfg.Secrets.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
		return NewGeminiAnalyzer(ctx, cfg.Secrets.GeminiAPIKey, cfg.LLM.AnalysisModel)
	case "openai":
		if cfg.Secrets.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIAnalyzer(cfg.Secrets.OpenAIAPIKey, cfg.LLM.AnalysisModel), nil
	}
	return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
}
