package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/content"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
	"github.com/SaisandeepKv/vernon-clinic-sub000/outbox"
)

// Dispatcher accepts side effects for best-effort delivery. It must not block
// on the downstream sinks.
type Dispatcher interface {
	Dispatch(ctx context.Context, e outbox.Entry)
}

type Registry struct {
	store  *content.Store
	outbox Dispatcher
	now    func() time.Time
}

func NewRegistry(store *content.Store, ob Dispatcher) *Registry {
	return &Registry{store: store, outbox: ob, now: time.Now}
}

// Execute runs a decoded call. Failures the model can act on (not found,
// invalid contact details) come back as outputs, never as errors.
func (r *Registry) Execute(ctx context.Context, call Call) Output {
	switch c := call.(type) {
	case SearchTreatmentsInput:
		return r.searchTreatments(c)
	case RecommendTreatmentInput:
		return r.recommendTreatment(c)
	case EstimateCostInput:
		return r.estimateCost(c)
	case FindRelatedVideosInput:
		return r.findRelatedVideos(c)
	case GetClinicInfoInput:
		return r.getClinicInfo(c)
	case SearchBlogContentInput:
		return r.searchBlogContent(c)
	case BookAppointmentInput:
		return r.bookAppointment(ctx, c)
	case GenerateWhatsAppLinkInput:
		return r.generateWhatsAppLink(c)
	}
	panic(fmt.Sprintf("tools: no executor for %T", call))
}

func (r *Registry) searchTreatments(in SearchTreatmentsInput) SearchTreatmentsOutput {
	matches := r.store.SearchTreatments(in.Query)
	if len(matches) == 0 {
		return SearchTreatmentsOutput{
			Found:               false,
			Message:             fmt.Sprintf("No treatments matched %q. Our dermatologists can suggest the right option at a consultation.", in.Query),
			AvailableCategories: r.store.CategoryNames(),
		}
	}
	if len(matches) > MaxTreatmentResults {
		matches = matches[:MaxTreatmentResults]
	}
	out := SearchTreatmentsOutput{Found: true, Treatments: make([]TreatmentSummary, 0, len(matches))}
	for _, t := range matches {
		out.Treatments = append(out.Treatments, TreatmentSummary{
			Name:         t.Name,
			Slug:         t.Slug,
			CategorySlug: t.CategorySlug,
			Description:  t.ShortDescription,
			Duration:     t.Duration,
			Sessions:     t.Sessions,
			Downtime:     t.Downtime,
			FAQs:         t.FAQs,
		})
	}
	return out
}

func (r *Registry) recommendTreatment(in RecommendTreatmentInput) RecommendTreatmentOutput {
	scored := r.store.ScoreTreatments(in.Concern)
	if len(scored) == 0 {
		return RecommendTreatmentOutput{
			Found:      false,
			Concern:    in.Concern,
			Message:    "No specific treatment matched this concern.",
			Suggestion: "Book a consultation so a dermatologist can examine the skin in person and recommend a plan.",
		}
	}
	if len(scored) > MaxRecommendations {
		scored = scored[:MaxRecommendations]
	}
	out := RecommendTreatmentOutput{Found: true, Concern: in.Concern}
	for _, s := range scored {
		out.Recommendations = append(out.Recommendations, Recommendation{
			Name:           s.Name,
			Slug:           s.Slug,
			Description:    s.ShortDescription,
			RelevanceScore: s.Score,
			Duration:       s.Duration,
			Sessions:       s.Sessions,
			Downtime:       s.Downtime,
		})
	}
	return out
}

func (r *Registry) estimateCost(in EstimateCostInput) EstimateCostOutput {
	p, key, ok := r.store.ResolvePrice(in.TreatmentID)
	if !ok {
		return EstimateCostOutput{
			Found:               false,
			Message:             fmt.Sprintf("No price is listed for %q.", in.TreatmentID),
			AvailableTreatments: r.store.PriceKeys(),
		}
	}
	return EstimateCostOutput{
		Found:     true,
		Treatment: key,
		PriceRange: &FormattedPrice{
			Min:  content.FormatINR(p.Min),
			Max:  content.FormatINR(p.Max),
			Unit: p.Unit,
		},
		Disclaimer:       "Prices are indicative. The final cost depends on the area, number of sessions and the doctor's assessment.",
		FreeConsultation: true,
		Message:          "A consultation gives an exact quote for your skin and goals.",
	}
}

func (r *Registry) findRelatedVideos(in FindRelatedVideosInput) FindRelatedVideosOutput {
	vids := r.store.SearchVideos(in.Topic, in.Language)
	if len(vids) == 0 {
		return FindRelatedVideosOutput{
			Found:      false,
			Message:    fmt.Sprintf("No videos found about %q.", in.Topic),
			ChannelURL: content.ChannelURL,
		}
	}
	if len(vids) > MaxVideoResults {
		vids = vids[:MaxVideoResults]
	}
	return FindRelatedVideosOutput{Found: true, Videos: vids, ChannelURL: content.ChannelURL}
}

func (r *Registry) getClinicInfo(in GetClinicInfoInput) GetClinicInfoOutput {
	out := GetClinicInfoOutput{Query: in.Query, Emergency: content.EmergencyPhone}
	switch in.Query {
	case ClinicAllLocations:
		out.Locations = r.store.Locations()
	case ClinicDoctors:
		out.Doctors = r.store.Doctors()
	case ClinicHours:
		out.Hours = r.store.Hours()
	default:
		if l, ok := r.store.Location(string(in.Query)); ok {
			out.Locations = []content.Location{l}
		}
	}
	out.Found = len(out.Locations)+len(out.Doctors)+len(out.Hours) > 0
	return out
}

func (r *Registry) searchBlogContent(in SearchBlogContentInput) SearchBlogContentOutput {
	posts := r.store.SearchBlog(in.Query)
	if len(posts) == 0 {
		return SearchBlogContentOutput{
			Found:   false,
			Message: fmt.Sprintf("No articles found about %q.", in.Query),
		}
	}
	if len(posts) > MaxBlogResults {
		posts = posts[:MaxBlogResults]
	}
	out := SearchBlogContentOutput{Found: true}
	for _, p := range posts {
		out.Posts = append(out.Posts, BlogResult{
			Title:          p.Title,
			Slug:           p.Slug,
			Excerpt:        p.Excerpt,
			Category:       p.Category,
			Author:         p.Author,
			PublishedAt:    p.PublishedAt,
			ContentPreview: p.Preview(BlogPreviewLength),
			URL:            "/blog/" + p.Slug,
		})
	}
	return out
}

const invalidContactMessage = "I couldn't submit the booking because I need your full name (at least 2 characters) " +
	"and a valid phone number with at least 10 digits. Could you please share them?"

func (r *Registry) bookAppointment(ctx context.Context, in BookAppointmentInput) BookAppointmentOutput {
	req := in.Request()
	if err := req.Validate(); err != nil {
		logger.DebugWithFields("booking rejected", logger.Fields{"error": err.Error()})
		return BookAppointmentOutput{Success: false, Message: invalidContactMessage}
	}

	req = req.Normalized()
	details := req.Details()

	// accepted once validated; sinks run detached
	if r.outbox != nil {
		r.outbox.Dispatch(ctx, outbox.Entry{
			Kind:      outbox.KindBooking,
			Source:    outbox.SourceChatbot,
			SessionID: SessionFrom(ctx),
			Booking:   req,
			At:        r.now(),
		})
	}
	logger.InfoWithFields("booking accepted", logger.Fields{
		"source":    outbox.SourceChatbot,
		"location":  details.Location,
		"treatment": details.Treatment,
	})

	return BookAppointmentOutput{
		Success: true,
		Message: fmt.Sprintf("Thank you, %s! Your appointment request for %s at our %s clinic has been received. "+
			"Our team will call you on %s %s to confirm your slot.",
			details.Name, details.Treatment, details.Location, details.Phone, ContactWindowDescription),
		BookingDetails: &details,
	}
}

// WhatsAppURL builds a wa.me deep link with the text percent-encoded.
func WhatsAppURL(number, text string) string {
	return "https://wa.me/" + number + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

func (r *Registry) generateWhatsAppLink(in GenerateWhatsAppLinkInput) GenerateWhatsAppLinkOutput {
	number := r.store.WhatsAppNumber(in.Location)

	text := "Hi Vernon Skin Clinic! " + strings.TrimSpace(in.Summary)
	if loc, ok := booking.ParseLocation(in.Location); ok {
		text += " (" + string(loc) + " branch)"
	}
	return GenerateWhatsAppLinkOutput{
		Success:     true,
		URL:         WhatsAppURL(number, text),
		PhoneNumber: number,
		Message:     "Tap the link to continue on WhatsApp with our team.",
	}
}
