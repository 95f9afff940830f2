package dto

import "github.com/SaisandeepKv/vernon-clinic-sub000/analysis"

type AnalyzeSkinRequestDTO struct {
	// data:image/jpeg;base64,...
	Image     string `json:"image" binding:"required"`
	MediaType string `json:"mediaType" example:"image/jpeg"`
	Name      string `json:"name" example:"Meera"`
	Phone     string `json:"phone" example:"9876543210"`
	SessionID string `json:"sessionId,omitempty"`
	LeadID    string `json:"leadId,omitempty"`
}

type AnalyzeSkinResponseDTO struct {
	Success    bool             `json:"success"`
	Analysis   *analysis.Report `json:"analysis,omitempty"`
	Disclaimer string           `json:"disclaimer"`
	Error      string           `json:"error,omitempty"`
}
