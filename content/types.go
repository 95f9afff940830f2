// Package content is the clinic's read-only catalogue: treatments, prices,
// doctors, branches, videos and blog posts. The tables are fixtures loaded
// once per process and queried by the assistant's tools.
package content

import "time"

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Category struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Treatment struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	CategorySlug     string   `json:"categorySlug"`
	ShortDescription string   `json:"shortDescription"`
	Duration         string   `json:"duration"`
	Sessions         string   `json:"sessions"`
	Downtime         string   `json:"downtime"`
	SuitableFor      []string `json:"suitableFor"`
	Technology       []string `json:"technology,omitempty"`
	FAQs             []FAQ    `json:"faqs,omitempty"`
}

// PriceRange is in whole rupees.
type PriceRange struct {
	Min  int    `json:"min"`
	Max  int    `json:"max"`
	Unit string `json:"unit"`
}

type priceEntry struct {
	key   string
	price PriceRange
}

type Doctor struct {
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Qualifications  string   `json:"qualifications"`
	Specializations []string `json:"specializations"`
	ExperienceYears int      `json:"experienceYears"`
	Locations       []string `json:"locations"`
}

type Location struct {
	Slug     string   `json:"slug"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Phone    string   `json:"phone"`
	WhatsApp string   `json:"whatsapp"`
	Hours    string   `json:"hours"`
	Services []string `json:"services"`
	MapURL   string   `json:"mapUrl"`
}

type Video struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Topic    string   `json:"topic"`
	Tags     []string `json:"tags,omitempty"`
	Language string   `json:"language"`
}

type BlogPost struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"publishedAt"`
	// HTML body
	Content string `json:"-"`
}

// BranchHours is one row of the opening-hours listing.
type BranchHours struct {
	Location string `json:"location"`
	Hours    string `json:"hours"`
}
