package tools

import (
	"time"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/content"
)

type TreatmentSummary struct {
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	CategorySlug string        `json:"categorySlug"`
	Description  string        `json:"description"`
	Duration     string        `json:"duration"`
	Sessions     string        `json:"sessions"`
	Downtime     string        `json:"downtime"`
	FAQs         []content.FAQ `json:"faqs,omitempty"`
}

type SearchTreatmentsOutput struct {
	Found               bool               `json:"found"`
	Treatments          []TreatmentSummary `json:"treatments,omitempty"`
	Message             string             `json:"message,omitempty"`
	AvailableCategories []string           `json:"availableCategories,omitempty"`
}

type Recommendation struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Description    string `json:"description"`
	RelevanceScore int    `json:"relevanceScore"`
	Duration       string `json:"duration"`
	Sessions       string `json:"sessions"`
	Downtime       string `json:"downtime"`
}

type RecommendTreatmentOutput struct {
	Found           bool             `json:"found"`
	Concern         string           `json:"concern"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Message         string           `json:"message,omitempty"`
	Suggestion      string           `json:"suggestion,omitempty"`
}

type FormattedPrice struct {
	Min  string `json:"min"`
	Max  string `json:"max"`
	Unit string `json:"unit"`
}

type EstimateCostOutput struct {
	Found               bool            `json:"found"`
	Treatment           string          `json:"treatment,omitempty"`
	PriceRange          *FormattedPrice `json:"priceRange,omitempty"`
	Disclaimer          string          `json:"disclaimer,omitempty"`
	FreeConsultation    bool            `json:"freeConsultation,omitempty"`
	Message             string          `json:"message,omitempty"`
	AvailableTreatments []string        `json:"availableTreatments,omitempty"`
}

type FindRelatedVideosOutput struct {
	Found      bool            `json:"found"`
	Videos     []content.Video `json:"videos,omitempty"`
	Message    string          `json:"message,omitempty"`
	ChannelURL string          `json:"channelUrl,omitempty"`
}

type GetClinicInfoOutput struct {
	Found     bool                  `json:"found"`
	Query     ClinicInfoQuery       `json:"query"`
	Locations []content.Location    `json:"locations,omitempty"`
	Doctors   []content.Doctor      `json:"doctors,omitempty"`
	Hours     []content.BranchHours `json:"hours,omitempty"`
	Emergency string                `json:"emergencyContact,omitempty"`
}

type BlogResult struct {
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Excerpt        string    `json:"excerpt"`
	Category       string    `json:"category"`
	Author         string    `json:"author"`
	PublishedAt    time.Time `json:"publishedAt"`
	ContentPreview string    `json:"contentPreview"`
	URL            string    `json:"url"`
}

type SearchBlogContentOutput struct {
	Found   bool         `json:"found"`
	Posts   []BlogResult `json:"posts,omitempty"`
	Message string       `json:"message,omitempty"`
}

type BookAppointmentOutput struct {
	Success        bool             `json:"success"`
	Message        string           `json:"message"`
	BookingDetails *booking.Details `json:"bookingDetails,omitempty"`
}

type GenerateWhatsAppLinkOutput struct {
	Success     bool   `json:"success"`
	URL         string `json:"url"`
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

func (o SearchTreatmentsOutput) Succeeded() bool     { return o.Found }
func (o RecommendTreatmentOutput) Succeeded() bool   { return o.Found }
func (o EstimateCostOutput) Succeeded() bool         { return o.Found }
func (o FindRelatedVideosOutput) Succeeded() bool    { return o.Found }
func (o GetClinicInfoOutput) Succeeded() bool        { return o.Found }
func (o SearchBlogContentOutput) Succeeded() bool    { return o.Found }
func (o BookAppointmentOutput) Succeeded() bool      { return o.Success }
func (o GenerateWhatsAppLinkOutput) Succeeded() bool { return o.Success }
