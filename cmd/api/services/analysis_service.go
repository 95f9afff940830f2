package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/SaisandeepKv/vernon-clinic-sub000/analysis"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/metrics"
)

type Analyzer interface {
	Analyze(ctx context.Context, sub analysis.Submission) (*analysis.Report, error)
}

type AnalysisService struct {
	analyzer Analyzer
	metrics  *metrics.Metrics
}

type AnalysisError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Cause      error
}

func (e *AnalysisError) Error() string {
	if e == nil {
		return "analysis_failed"
	}
	return e.ErrorCode
}

// NewAnalysisService 는 analyzer 가 nil 이면(모델 키 미설정) 503 을 돌려주는 서비스를 만든다.
func NewAnalysisService(a Analyzer, m *metrics.Metrics) *AnalysisService {
	return &AnalysisService{analyzer: a, metrics: m}
}

func (s *AnalysisService) Analyze(ctx context.Context, sub analysis.Submission) (*analysis.Report, *AnalysisError) {
	if s.analyzer == nil {
		return nil, s.fail(&AnalysisError{
			StatusCode: http.StatusServiceUnavailable,
			ErrorCode:  "analysis_unavailable",
			Message:    "Photo analysis is not available right now. Please book a free consultation instead.",
		})
	}

	report, err := s.analyzer.Analyze(ctx, sub)
	if err != nil {
		return nil, s.fail(normalizeAnalysisError(err))
	}
	if s.metrics != nil {
		s.metrics.AnalysisRuns.WithLabelValues("success").Inc()
	}
	return report, nil
}

func (s *AnalysisService) fail(e *AnalysisError) *AnalysisError {
	if s.metrics != nil {
		s.metrics.AnalysisRuns.WithLabelValues(e.ErrorCode).Inc()
	}
	return e
}

func normalizeAnalysisError(err error) *AnalysisError {
	switch {
	case errors.Is(err, analysis.ErrInvalidLead):
		return &AnalysisError{StatusCode: http.StatusBadRequest, ErrorCode: "invalid_lead", Cause: err,
			Message: "Please share your name and a valid 10-digit phone number before uploading a photo."}
	case errors.Is(err, analysis.ErrInvalidImage):
		return &AnalysisError{StatusCode: http.StatusBadRequest, ErrorCode: "invalid_image", Cause: err,
			Message: "Please upload a JPEG, PNG, WebP or HEIC photo."}
	case errors.Is(err, analysis.ErrUnreadable):
		return &AnalysisError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: "unreadable_photo", Cause: err,
			Message: "We couldn't read that photo. Please try again in good light with the area in focus."}
	case errors.Is(err, context.DeadlineExceeded):
		return &AnalysisError{StatusCode: http.StatusGatewayTimeout, ErrorCode: "analysis_timeout", Cause: err,
			Message: "The analysis took too long. Please try again."}
	default:
		return &AnalysisError{StatusCode: http.StatusBadGateway, ErrorCode: "analysis_failed", Cause: err,
			Message: "Something went wrong while analysing your photo. Please try again."}
	}
}
