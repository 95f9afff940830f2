package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
)

type SearchTreatmentsInput struct {
	Query string `json:"query" validate:"required,min=1"`
}

type RecommendTreatmentInput struct {
	Concern string `json:"concern" validate:"required,min=2"`
}

type EstimateCostInput struct {
	TreatmentID string `json:"treatmentId" validate:"required,min=1"`
}

type FindRelatedVideosInput struct {
	Topic    string `json:"topic" validate:"required,min=1"`
	Language string `json:"language,omitempty" validate:"omitempty,oneof=english hindi telugu"`
}

// ClinicInfoQuery selects which slice of clinic information to return.
type ClinicInfoQuery string

const (
	ClinicAllLocations ClinicInfoQuery = "all-locations"
	ClinicBanjaraHills ClinicInfoQuery = "banjara-hills"
	ClinicJubileeHills ClinicInfoQuery = "jubilee-hills"
	ClinicGachibowli   ClinicInfoQuery = "gachibowli"
	ClinicDoctors      ClinicInfoQuery = "doctors"
	ClinicHours        ClinicInfoQuery = "hours"
)

var ClinicInfoQueries = []string{
	string(ClinicAllLocations),
	string(ClinicBanjaraHills),
	string(ClinicJubileeHills),
	string(ClinicGachibowli),
	string(ClinicDoctors),
	string(ClinicHours),
}

type GetClinicInfoInput struct {
	Query ClinicInfoQuery `json:"query" validate:"required,oneof=all-locations banjara-hills jubilee-hills gachibowli doctors hours"`
}

type SearchBlogContentInput struct {
	Query string `json:"query" validate:"required,min=1"`
}

// BookAppointmentInput only checks shape here. Name and phone are re-checked
// in Execute so a short name or phone yields success=false with a prompt for
// corrected details instead of a schema error.
type BookAppointmentInput struct {
	PatientName   string `json:"patientName"`
	Phone         string `json:"phone"`
	Treatment     string `json:"treatment"`
	Location      string `json:"location" validate:"required,location"`
	PreferredDate string `json:"preferredDate,omitempty"`
	PreferredTime string `json:"preferredTime,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

func (in BookAppointmentInput) Request() booking.Request {
	return booking.Request{
		PatientName:   in.PatientName,
		Phone:         in.Phone,
		Treatment:     in.Treatment,
		Location:      booking.Location(in.Location),
		PreferredDate: in.PreferredDate,
		PreferredTime: in.PreferredTime,
		Notes:         in.Notes,
	}
}

type GenerateWhatsAppLinkInput struct {
	Summary  string `json:"summary" validate:"required,min=1"`
	Location string `json:"location,omitempty" validate:"omitempty,location"`
}

func (SearchTreatmentsInput) Tool() Name     { return SearchTreatments }
func (RecommendTreatmentInput) Tool() Name   { return RecommendTreatment }
func (EstimateCostInput) Tool() Name         { return EstimateCost }
func (FindRelatedVideosInput) Tool() Name    { return FindRelatedVideos }
func (GetClinicInfoInput) Tool() Name        { return GetClinicInfo }
func (SearchBlogContentInput) Tool() Name    { return SearchBlogContent }
func (BookAppointmentInput) Tool() Name      { return BookAppointment }
func (GenerateWhatsAppLinkInput) Tool() Name { return GenerateWhatsAppLink }

func (SearchTreatmentsInput) isCall()     {}
func (RecommendTreatmentInput) isCall()   {}
func (EstimateCostInput) isCall()         {}
func (FindRelatedVideosInput) isCall()    {}
func (GetClinicInfoInput) isCall()        {}
func (SearchBlogContentInput) isCall()    {}
func (BookAppointmentInput) isCall()      {}
func (GenerateWhatsAppLinkInput) isCall() {}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := booking.NewValidator()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode parses raw model arguments for the named tool and validates them.
// Unknown fields are ignored; missing or malformed required fields are not.
func Decode(name Name, raw json.RawMessage) (Call, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	switch name {
	case SearchTreatments:
		return decodeInto[SearchTreatmentsInput](name, raw)
	case RecommendTreatment:
		return decodeInto[RecommendTreatmentInput](name, raw)
	case EstimateCost:
		return decodeInto[EstimateCostInput](name, raw)
	case FindRelatedVideos:
		return decodeInto[FindRelatedVideosInput](name, raw)
	case GetClinicInfo:
		return decodeInto[GetClinicInfoInput](name, raw)
	case SearchBlogContent:
		return decodeInto[SearchBlogContentInput](name, raw)
	case BookAppointment:
		return decodeInto[BookAppointmentInput](name, raw)
	case GenerateWhatsAppLink:
		return decodeInto[GenerateWhatsAppLinkInput](name, raw)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

func decodeInto[T Call](name Name, raw json.RawMessage) (Call, error) {
	var in T
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, &InputError{Tool: name, Err: fmt.Errorf("arguments are not valid JSON for this tool: %w", err)}
	}
	if err := validate.Struct(in); err != nil {
		return nil, &InputError{Tool: name, Err: describeValidation(err)}
	}
	return in, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "location":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), strings.Join(booking.LocationNames(), ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
