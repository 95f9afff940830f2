// Package tools is the closed set of operations the assistant may invoke.
//
// Every tool has a Name, a Definition (description + input schema shown to
// the model), a typed input that implements Call and a typed output that
// implements Output. Decode turns the model's raw arguments into a Call and
// Registry.Execute dispatches it with a single type switch.
package tools

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

type Name string

const (
	SearchTreatments     Name = "searchTreatments"
	RecommendTreatment   Name = "recommendTreatment"
	EstimateCost         Name = "estimateCost"
	FindRelatedVideos    Name = "findRelatedVideos"
	GetClinicInfo        Name = "getClinicInfo"
	SearchBlogContent    Name = "searchBlogContent"
	BookAppointment      Name = "bookAppointment"
	GenerateWhatsAppLink Name = "generateWhatsAppLink"
)

// Names lists every tool in the order they are advertised to the model.
var Names = []Name{
	SearchTreatments,
	RecommendTreatment,
	EstimateCost,
	FindRelatedVideos,
	GetClinicInfo,
	SearchBlogContent,
	BookAppointment,
	GenerateWhatsAppLink,
}

func (n Name) Valid() bool { return slices.Contains(Names, n) }

// Sensitive tools carry side effects or hand the user off, and are gated by the orchestrator.
func (n Name) Sensitive() bool { return n == BookAppointment || n == GenerateWhatsAppLink }

// Result caps
const (
	MaxTreatmentResults      = 5
	MaxRecommendations       = 4
	MaxVideoResults          = 3
	MaxBlogResults           = 3
	BlogPreviewLength        = 500
	ContactWindowDescription = "within 30 minutes during working hours (10 AM - 8 PM)"
)

var ErrUnknownTool = errors.New("unknown tool")

// InputError reports arguments that failed to parse or validate.
type InputError struct {
	Tool Name
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %v", e.Tool, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Call is a decoded, validated tool invocation. Only input types in this
// package implement it.
type Call interface {
	Tool() Name
	isCall()
}

// Output is a tool result. Succeeded reports the found/success discriminator.
type Output interface {
	Succeeded() bool
}

// Rejection is returned to the model in place of a tool result when the call
// was refused before execution (bad input, guardrail, cap).
type Rejection struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (Rejection) Succeeded() bool { return false }

func Reject(reason string) Rejection { return Rejection{Success: false, Error: reason} }

type sessionKey struct{}

// WithSession attaches the chat session id so side effects can be tagged with it.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

func SessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
