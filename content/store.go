package content

import (
	"slices"
	"sort"
	"strings"
	"unicode"
)

// Store answers catalogue queries. A Store is never mutated after construction,
// so one value is shared by every request.
type Store struct {
	categories []Category
	treatments []Treatment
	prices     []priceEntry
	doctors    []Doctor
	locations  []Location
	videos     []Video
	posts      []BlogPost
}

// NewStore returns the store backed by the built-in clinic tables.
func NewStore() *Store {
	return &Store{
		categories: categories,
		treatments: treatments,
		prices:     prices,
		doctors:    doctors,
		locations:  locations,
		videos:     videos,
		posts:      blogPosts,
	}
}

// WithVideos returns a copy of the store with the video table replaced.
func (s *Store) WithVideos(v []Video) *Store {
	cp := *s
	cp.videos = slices.Clone(v)
	return &cp
}

func (s *Store) Treatments() []Treatment { return s.treatments }
func (s *Store) Categories() []Category  { return s.categories }
func (s *Store) Doctors() []Doctor       { return s.doctors }
func (s *Store) Locations() []Location   { return s.locations }
func (s *Store) Videos() []Video         { return s.videos }
func (s *Store) BlogPosts() []BlogPost   { return s.posts }

func (s *Store) CategoryNames() []string {
	out := make([]string, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c.Name)
	}
	return out
}

func (s *Store) categoryName(slug string) string {
	for _, c := range s.categories {
		if c.Slug == slug {
			return c.Name
		}
	}
	return ""
}

// Location looks a branch up by slug or display name.
func (s *Store) Location(slugOrName string) (Location, bool) {
	q := strings.ToLower(strings.TrimSpace(slugOrName))
	for _, l := range s.locations {
		if l.Slug == q || strings.ToLower(l.Name) == q {
			return l, true
		}
	}
	return Location{}, false
}

func (s *Store) Hours() []BranchHours {
	out := make([]BranchHours, 0, len(s.locations))
	for _, l := range s.locations {
		out = append(out, BranchHours{Location: l.Name, Hours: l.Hours})
	}
	return out
}

// WhatsAppNumber returns the branch number, or the primary line when the branch is unknown or empty.
func (s *Store) WhatsAppNumber(location string) string {
	if l, ok := s.Location(location); ok && l.WhatsApp != "" {
		return l.WhatsApp
	}
	if l, ok := s.Location(strings.ReplaceAll(location, " ", "-")); ok && l.WhatsApp != "" {
		return l.WhatsApp
	}
	return PrimaryWhatsApp
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "you": {}, "your": {}, "with": {}, "what": {},
	"which": {}, "have": {}, "has": {}, "are": {}, "can": {}, "how": {}, "about": {},
	"any": {}, "does": {}, "treatment": {}, "treatments": {}, "clinic": {}, "get": {},
	"need": {}, "want": {}, "best": {}, "there": {},
}

// keywords splits a query into lowercase search terms. Punctuation separates
// terms; stopwords and terms shorter than three characters are dropped.
func keywords(q string) []string {
	fields := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// queryTokens lists every token of q, lowercased: whitespace separated words
// and the letter/digit runs inside them. Nothing is dropped, so a query that
// grows by a word keeps all of its old tokens.
func queryTokens(q string) []string {
	lower := strings.ToLower(q)
	var out []string
	add := func(f string) {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	for _, f := range strings.Fields(lower) {
		add(f)
	}
	for _, f := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		add(f)
	}
	return out
}

func containsAny(needle string, haystacks []string) bool {
	for _, h := range haystacks {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}

// matchCount counts how many ranking terms hit at least one haystack.
func matchCount(terms []string, haystacks []string) int {
	n := 0
	for _, t := range terms {
		if containsAny(t, haystacks) {
			n++
		}
	}
	return n
}

// matches reports whether any query token or the whole phrase hits. The phrase
// catches multi-word tags like "acne scars".
func matches(tokens []string, phrase string, haystacks []string) bool {
	if containsAny(phrase, haystacks) {
		return true
	}
	for _, t := range tokens {
		if containsAny(t, haystacks) {
			return true
		}
	}
	return false
}

func (s *Store) treatmentHaystacks(t Treatment) []string {
	hs := []string{
		strings.ToLower(t.Name),
		strings.ToLower(t.ShortDescription),
		strings.ToLower(s.categoryName(t.CategorySlug)),
	}
	for _, tag := range t.SuitableFor {
		hs = append(hs, strings.ToLower(tag))
	}
	for _, tech := range t.Technology {
		hs = append(hs, strings.ToLower(tech))
	}
	return hs
}

// SearchTreatments returns every treatment whose name, description, category,
// suitability tags or technology mention any token of the query. Treatments
// hitting more keywords come first; ties keep table order. Stopwords and short
// tokens still match but do not count for ranking, so adding a word to a
// query never matches fewer treatments.
func (s *Store) SearchTreatments(query string) []Treatment {
	phrase := strings.ToLower(strings.TrimSpace(query))
	if phrase == "" {
		return nil
	}
	tokens := queryTokens(query)
	terms := keywords(query)

	type hit struct {
		t     Treatment
		count int
	}
	var hits []hit
	for _, t := range s.treatments {
		hs := s.treatmentHaystacks(t)
		if matches(tokens, phrase, hs) {
			hits = append(hits, hit{t, matchCount(terms, hs)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].count > hits[j].count })

	out := make([]Treatment, len(hits))
	for i, h := range hits {
		out[i] = h.t
	}
	return out
}

type ScoredTreatment struct {
	Treatment
	Score int `json:"relevanceScore"`
}

// ScoreTreatments ranks treatments for a free-text concern:
//
//	+3 for each suitability tag that contains the concern (or is contained by it)
//	+2 when the name matches
//	+1 when the short description mentions it
//	+1 for each FAQ question and each FAQ answer that mentions it
//
// Zero scores are dropped; equal scores keep table order.
func (s *Store) ScoreTreatments(concern string) []ScoredTreatment {
	c := strings.ToLower(strings.TrimSpace(concern))
	if c == "" {
		return nil
	}

	var out []ScoredTreatment
	for _, t := range s.treatments {
		score := 0
		for _, tag := range t.SuitableFor {
			tag = strings.ToLower(tag)
			if strings.Contains(tag, c) || strings.Contains(c, tag) {
				score += 3
			}
		}
		name := strings.ToLower(t.Name)
		if strings.Contains(name, c) || strings.Contains(c, name) {
			score += 2
		}
		if strings.Contains(strings.ToLower(t.ShortDescription), c) {
			score++
		}
		for _, f := range t.FAQs {
			if strings.Contains(strings.ToLower(f.Question), c) {
				score++
			}
			if strings.Contains(strings.ToLower(f.Answer), c) {
				score++
			}
		}
		if score > 0 {
			out = append(out, ScoredTreatment{Treatment: t, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// SearchVideos matches the topic against title, topic and tags. An empty
// language matches every language.
func (s *Store) SearchVideos(topic, language string) []Video {
	phrase := strings.ToLower(strings.TrimSpace(topic))
	terms := keywords(topic)
	lang := strings.ToLower(strings.TrimSpace(language))

	var out []Video
	for _, v := range s.videos {
		if lang != "" && strings.ToLower(v.Language) != lang {
			continue
		}
		hs := []string{strings.ToLower(v.Title), strings.ToLower(v.Topic)}
		for _, tag := range v.Tags {
			hs = append(hs, strings.ToLower(tag))
		}
		if phrase == "" || matchCount(terms, hs) > 0 || containsAny(phrase, hs) {
			out = append(out, v)
		}
	}
	return out
}

func (s *Store) SearchBlog(query string) []BlogPost {
	phrase := strings.ToLower(strings.TrimSpace(query))
	if phrase == "" {
		return nil
	}
	terms := keywords(query)

	var out []BlogPost
	for _, p := range s.posts {
		hs := []string{
			strings.ToLower(p.Title),
			strings.ToLower(p.Excerpt),
			strings.ToLower(p.Category),
		}
		for _, tag := range p.Tags {
			hs = append(hs, strings.ToLower(tag))
		}
		if matchCount(terms, hs) > 0 || containsAny(phrase, hs) {
			out = append(out, p)
		}
	}
	return out
}
