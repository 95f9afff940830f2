package tools

import (
	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
)

// Schema is the subset of JSON Schema the model adapters understand. It
// marshals to valid JSON Schema as-is.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	MinLength   *int64             `json:"minLength,omitempty"`
}

type Definition struct {
	Name        Name    `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters"`
}

func str(desc string) *Schema { return &Schema{Type: "string", Description: desc} }

func strMin(desc string, n int64) *Schema {
	return &Schema{Type: "string", Description: desc, MinLength: &n}
}

func enum(desc string, values []string) *Schema {
	return &Schema{Type: "string", Description: desc, Enum: values}
}

func object(required []string, props map[string]*Schema) *Schema {
	return &Schema{Type: "object", Properties: props, Required: required}
}

// Definitions returns the declarations for every tool in Names order.
func Definitions() []Definition {
	defs := make([]Definition, 0, len(Names))
	for _, n := range Names {
		defs = append(defs, Define(n))
	}
	return defs
}

// Define returns the declaration of one tool.
func Define(n Name) Definition {
	switch n {
	case SearchTreatments:
		return Definition{
			Name:        n,
			Description: "Search the clinic's treatments by keyword (condition, body area, treatment or technology name). Use for questions like 'what do you offer for X'.",
			Parameters: object([]string{"query"}, map[string]*Schema{
				"query": strMin("Keywords to search for, e.g. 'acne scars' or 'laser'", 1),
			}),
		}
	case RecommendTreatment:
		return Definition{
			Name:        n,
			Description: "Rank treatments for a patient's described skin or hair concern. Use when the user describes a problem and asks what would help.",
			Parameters: object([]string{"concern"}, map[string]*Schema{
				"concern": strMin("The concern in the patient's words, e.g. 'dark spots on cheeks'", 2),
			}),
		}
	case EstimateCost:
		return Definition{
			Name:        n,
			Description: "Get the indicative price range for a treatment. Use for any cost, price or fee question.",
			Parameters: object([]string{"treatmentId"}, map[string]*Schema{
				"treatmentId": strMin("Treatment id or name, e.g. 'botox' or 'hair-transplant'", 1),
			}),
		}
	case FindRelatedVideos:
		return Definition{
			Name:        n,
			Description: "Find clinic videos about a topic. Use when the user wants to watch or see a procedure or results.",
			Parameters: object([]string{"topic"}, map[string]*Schema{
				"topic":    strMin("Topic to find videos about", 1),
				"language": enum("Optional language filter", []string{"english", "hindi", "telugu"}),
			}),
		}
	case GetClinicInfo:
		return Definition{
			Name:        n,
			Description: "Look up clinic branches, a single branch, the doctors, or opening hours.",
			Parameters: object([]string{"query"}, map[string]*Schema{
				"query": enum("Which information to return", ClinicInfoQueries),
			}),
		}
	case SearchBlogContent:
		return Definition{
			Name:        n,
			Description: "Search the clinic's blog for articles and aftercare guides.",
			Parameters: object([]string{"query"}, map[string]*Schema{
				"query": strMin("Keywords to search for", 1),
			}),
		}
	case BookAppointment:
		return Definition{
			Name: n,
			Description: "Submit an appointment request. Only call when the user has typed their own full name and phone number in this conversation. " +
				"Never invent or guess these values.",
			Parameters: object([]string{"patientName", "phone", "treatment", "location"}, map[string]*Schema{
				"patientName":   strMin("Patient's full name exactly as the user typed it", 2),
				"phone":         strMin("Patient's phone number exactly as the user typed it (10+ digits)", 10),
				"treatment":     str("Treatment of interest, or 'General consultation'"),
				"location":      enum("Clinic branch", booking.LocationNames()),
				"preferredDate": str("Preferred date if the user gave one"),
				"preferredTime": str("Preferred time if the user gave one"),
				"notes":         str("Anything else the user mentioned"),
			}),
		}
	case GenerateWhatsAppLink:
		return Definition{
			Name:        n,
			Description: "Create a WhatsApp chat link with the clinic team. Only call when the user explicitly asks for WhatsApp or to talk to a person.",
			Parameters: object([]string{"summary"}, map[string]*Schema{
				"summary":  strMin("Short summary of what the user needs, pre-filled into the message", 1),
				"location": enum("Branch to route the chat to", booking.LocationNames()),
			}),
		}
	}
	panic("tools: no definition for " + string(n))
}
