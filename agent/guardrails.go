package agent

import (
	"errors"
	"strings"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

var (
	ErrPhoneNotFromUser    = errors.New("the phone number was not provided by the user in this conversation; ask the user for it")
	ErrNameNotFromUser     = errors.New("the patient name was not provided by the user in this conversation; ask the user for it")
	ErrHandoffNotRequested = errors.New("the user has not asked for WhatsApp or a human; do not send a handoff link")
	ErrTooManyToolCalls    = errors.New("too many tools in one response; answer with the results you already have")
)

var handoffPhrases = []string{
	"whatsapp",
	"whats app",
	"human",
	"real person",
	"representative",
	"talk to someone",
	"speak to someone",
	"talk to a person",
	"speak to a person",
	"talk to your team",
	"connect me",
	"call me",
}

// checkBooking rejects bookings whose contact details the model did not get
// from the user. The phone's last ten digits must occur in the digits of one
// user message and every word of the name must occur in user text.
func checkBooking(in tools.BookAppointmentInput, userTexts []string) error {
	phone := booking.NormalizePhone(in.Phone)
	if len(phone) > booking.MinPhoneDigits {
		phone = phone[len(phone)-booking.MinPhoneDigits:]
	}
	if phone == "" {
		return ErrPhoneNotFromUser
	}
	found := false
	for _, t := range userTexts {
		if strings.Contains(booking.NormalizePhone(t), phone) {
			found = true
			break
		}
	}
	if !found {
		return ErrPhoneNotFromUser
	}

	said := strings.ToLower(strings.Join(userTexts, "\n"))
	words := strings.Fields(strings.ToLower(in.PatientName))
	if len(words) == 0 {
		return ErrNameNotFromUser
	}
	for _, w := range words {
		if !strings.Contains(said, w) {
			return ErrNameNotFromUser
		}
	}
	return nil
}

func checkHandoff(latestUserText string) error {
	t := strings.ToLower(latestUserText)
	for _, p := range handoffPhrases {
		if strings.Contains(t, p) {
			return nil
		}
	}
	return ErrHandoffNotRequested
}

// guard applies the conversation-level rules for sensitive tools.
func guard(call tools.Call, msgs []Message) error {
	switch in := call.(type) {
	case tools.BookAppointmentInput:
		// invalid details never reach the sinks; the registry answers those
		// with its own request for corrected details
		if in.Request().Validate() != nil {
			return nil
		}
		return checkBooking(in, UserTexts(msgs))
	case tools.GenerateWhatsAppLinkInput:
		return checkHandoff(LatestUserText(msgs))
	}
	return nil
}
