package models

import "time"

// EventRecord is the aggregate as the backend returns it. List views may hand
// back a summary projection with the nested collections stripped; hydration
// detects that and refetches the full record.
type EventRecord struct {
	ID            string        `json:"id"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Category      string        `json:"category"`
	Subcategory   string        `json:"subcategory"`
	EventType     string        `json:"event_type"`
	PublishState  PublishState  `json:"publish_state"`
	StartsAt      time.Time     `json:"starts_at"`
	EndsAt        time.Time     `json:"ends_at"`
	Flyer         *ImageRecord  `json:"flyer,omitempty"`
	Images        []ImageRecord `json:"images,omitempty"`
	Venue         *Venue        `json:"venue,omitempty"`
	Tickets       []Ticket      `json:"tickets,omitempty"`
	Artists       []Artist      `json:"artists,omitempty"`
	Sponsors      []Sponsor     `json:"sponsors,omitempty"`
	Terms         string        `json:"terms"`
	AgeRestricted bool          `json:"age_restricted"`
	Accessible    bool          `json:"accessible"`
	Advisories    []string      `json:"advisories,omitempty"`
	FAQs          []QA          `json:"faqs,omitempty"`
	OrganizerNote string        `json:"organizer_note,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ReviewItem is one row of the review screen checklist.
type ReviewItem struct {
	Field  string `json:"field"`
	Filled bool   `json:"filled"`
}

// ReviewSummary is the read-only projection served to the review step.
type ReviewSummary struct {
	EventID      string       `json:"event_id"`
	Slug         string       `json:"slug"`
	PublishState PublishState `json:"publish_state"`
	Checklist    []ReviewItem `json:"checklist"`
}
