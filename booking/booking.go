// Package booking holds the appointment and lead payloads shared by the chat
// tools and the direct forms, together with the name/phone rules both must pass
// before anything is forwarded to a downstream sink.
package booking

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MinNameLength    = 2
	MinPhoneDigits   = 10
	DefaultTreatment = "General consultation"
	ToBeConfirmed    = "To be confirmed"
)

var (
	ErrInvalidName     = errors.New("name must be at least 2 characters")
	ErrInvalidPhone    = errors.New("phone must contain at least 10 digits")
	ErrInvalidLocation = errors.New("unknown clinic location")
)

// Location is one of the clinic branches a booking can be routed to.
type Location string

const (
	BanjaraHills Location = "Banjara Hills"
	JubileeHills Location = "Jubilee Hills"
	Gachibowli   Location = "Gachibowli"
)

// Locations lists every branch in display order.
var Locations = []Location{BanjaraHills, JubileeHills, Gachibowli}

// Slug returns the URL form used by the content store, e.g. "banjara-hills".
func (l Location) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(l)), " ", "-")
}

// ParseLocation accepts the display name or the slug, case-insensitively.
func ParseLocation(s string) (Location, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, l := range Locations {
		if s == strings.ToLower(string(l)) || s == l.Slug() {
			return l, true
		}
	}
	return "", false
}

// LocationNames returns the branch names as plain strings (for schemas and enums).
func LocationNames() []string {
	out := make([]string, 0, len(Locations))
	for _, l := range Locations {
		out = append(out, string(l))
	}
	return out
}

// NormalizePhone strips everything but digits. "+91 98765-43210" -> "919876543210".
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func ValidPhone(phone string) bool {
	return len(NormalizePhone(phone)) >= MinPhoneDigits
}

func ValidName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= MinNameLength
}

// Lead is the name/phone pair collected before photo analysis or a callback.
type Lead struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Validate reports every failing field, joined.
func (l Lead) Validate() error {
	var errs []error
	if !ValidName(l.Name) {
		errs = append(errs, ErrInvalidName)
	}
	if !ValidPhone(l.Phone) {
		errs = append(errs, ErrInvalidPhone)
	}
	return errors.Join(errs...)
}

func (l Lead) Normalized() Lead {
	return Lead{Name: strings.TrimSpace(l.Name), Phone: strings.TrimSpace(l.Phone)}
}

// Request is the payload of the bookAppointment tool and of the booking form.
type Request struct {
	PatientName   string   `json:"patientName"`
	Phone         string   `json:"phone"`
	Treatment     string   `json:"treatment"`
	Location      Location `json:"location"`
	PreferredDate string   `json:"preferredDate,omitempty"`
	PreferredTime string   `json:"preferredTime,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// Validate re-checks name and phone regardless of who filled them in, then the branch.
func (r Request) Validate() error {
	var errs []error
	if err := (Lead{Name: r.PatientName, Phone: r.Phone}).Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, ok := ParseLocation(string(r.Location)); !ok {
		errs = append(errs, ErrInvalidLocation)
	}
	return errors.Join(errs...)
}

// Normalized trims free text, canonicalises the branch name and fills the
// default treatment.
func (r Request) Normalized() Request {
	out := Request{
		PatientName:   strings.TrimSpace(r.PatientName),
		Phone:         strings.TrimSpace(r.Phone),
		Treatment:     strings.TrimSpace(r.Treatment),
		Location:      r.Location,
		PreferredDate: strings.TrimSpace(r.PreferredDate),
		PreferredTime: strings.TrimSpace(r.PreferredTime),
		Notes:         strings.TrimSpace(r.Notes),
	}
	if loc, ok := ParseLocation(string(r.Location)); ok {
		out.Location = loc
	}
	if out.Treatment == "" {
		out.Treatment = DefaultTreatment
	}
	return out
}

// Details is the echo returned to the patient once a booking is accepted.
type Details struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Treatment string `json:"treatment"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Notes     string `json:"notes,omitempty"`
}

func (r Request) Details() Details {
	n := r.Normalized()
	d := Details{
		Name:      n.PatientName,
		Phone:     n.Phone,
		Treatment: n.Treatment,
		Location:  string(n.Location),
		Date:      n.PreferredDate,
		Time:      n.PreferredTime,
		Notes:     n.Notes,
	}
	if d.Date == "" {
		d.Date = ToBeConfirmed
	}
	if d.Time == "" {
		d.Time = ToBeConfirmed
	}
	return d
}
