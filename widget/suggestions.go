package widget

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/SaisandeepKv/vernon-clinic-sub000/content"
)

const maxSuggestions = 3

// ChipAnalyzePhoto opens the photo capture flow when tapped.
const ChipAnalyzePhoto = "Analyze my skin from a photo"

var (
	bookingChips = []string{"How should I prepare for my visit?", "How do I get to the clinic?"}
	genericChips = []string{"Show me popular treatments", "Book a consultation"}
)

type suggestionRule struct {
	name     string
	keywords []string
	chips    []string
}

// rules are checked in order and the first match wins. A reply mentioning
// both hair transplant and pigmentation gets the hair chips.
var rules = buildRules(content.NewStore())

func buildRules(store *content.Store) []suggestionRule {
	var locs, docs []string
	for _, l := range store.Locations() {
		locs = append(locs, strings.ToLower(l.Name))
	}
	for _, d := range store.Doctors() {
		name := strings.ToLower(d.Name)
		docs = append(docs, name, strings.TrimSpace(strings.TrimPrefix(name, "dr.")))
	}

	return []suggestionRule{
		{
			name:     "hair",
			keywords: []string{"hair transplant", "hair loss", "hair fall", "hairline", "baldness", "prp", "scalp"},
			chips:    []string{"What does a hair transplant cost?", "Is PRP right for me?", "Book a hair consultation"},
		},
		{
			name:     "laser",
			keywords: []string{"laser", "pigmentation", "melasma", "dark spots", "tanning"},
			chips:    []string{"How many laser sessions will I need?", "Is laser safe for Indian skin?", "What does laser treatment cost?"},
		},
		{
			name:     "acne",
			keywords: []string{"acne", "scar", "pimple", "breakout"},
			chips:    []string{"Can acne scars be removed?", ChipAnalyzePhoto, "Book an acne consultation"},
		},
		{
			name:     "cost",
			keywords: []string{"cost", "price", "pricing", "₹", "emi", "fees"},
			chips:    []string{"Do you offer EMI options?", "Which treatment fits my budget?", "Book a consultation"},
		},
		{
			name:     "location",
			keywords: locs,
			chips:    []string{"What are your clinic timings?", "How do I get there?", "Book at this branch"},
		},
		{
			name:     "doctor",
			keywords: docs,
			chips:    []string{"Book with this doctor", "What does the doctor specialise in?", "Which branch is the doctor at?"},
		},
	}
}

// Suggestions returns the follow-up chips for the last assistant reply.
// Exactly one category is used; without a match the generic pair is returned.
func Suggestions(lastAssistantText string, hasBookingResult bool) []string {
	if hasBookingResult {
		return clone(bookingChips)
	}
	text := strings.ToLower(lastAssistantText)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if hasWordPrefix(text, kw) {
				return clone(r.chips[:min(len(r.chips), maxSuggestions)])
			}
		}
	}
	return clone(genericChips)
}

// hasWordPrefix reports whether kw occurs in text at the start of a word, so
// "scar" matches "scarring" but "emi" does not match "chemical".
func hasWordPrefix(text, kw string) bool {
	if kw == "" {
		return false
	}
	for off := 0; ; {
		i := strings.Index(text[off:], kw)
		if i < 0 {
			return false
		}
		i += off
		if i == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		off = i + 1
	}
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
