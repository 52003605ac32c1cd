package models

type PublishState string

const (
	PublishStateDraft     PublishState = "DRAFT"
	PublishStatePublished PublishState = "PUBLISHED"
)

// DetailsForm is the step-1 payload: the identity of the event itself.
type DetailsForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	EventType   string `json:"event_type"`
}

// ScheduleForm carries the four raw date/time inputs exactly as the user
// typed them. They are only parsed for validation; change detection compares
// the raw strings so timezone re-serialization never looks like an edit.
type ScheduleForm struct {
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	EndDate   string `json:"end_date"`
	EndTime   string `json:"end_time"`
}

type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type AdditionalInfoForm struct {
	Terms         string   `json:"terms"`
	AgeRestricted bool     `json:"age_restricted"`
	Accessible    bool     `json:"accessible"`
	Advisories    []string `json:"advisories"`
	FAQs          []QA     `json:"faqs"`
	OrganizerNote string   `json:"organizer_note"`
}

// DraftEvent is the in-memory aggregate built up across the wizard steps.
// EventID stays empty until the step-1 create call succeeds; once assigned it
// never changes and every sub-resource is keyed against it.
type DraftEvent struct {
	LocalID      string             `json:"local_id"`
	EventID      string             `json:"event_id"`
	Slug         string             `json:"slug"`
	Details      DetailsForm        `json:"details"`
	Schedule     ScheduleForm       `json:"schedule"`
	Tickets      []Ticket           `json:"tickets"`
	Venue        Venue              `json:"venue"`
	Sponsors     SponsorBundle      `json:"sponsors"`
	Artists      []Artist           `json:"artists"`
	Additional   AdditionalInfoForm `json:"additional_info"`
	PublishState PublishState       `json:"publish_state"`
	Cover        *MediaAttachment   `json:"cover,omitempty"`
	Gallery      []*MediaAttachment `json:"gallery,omitempty"`
}

// Created reports whether the aggregate exists backend-side.
func (d *DraftEvent) Created() bool {
	return d.EventID != ""
}

// GalleryCount counts gallery attachments that are still visible, i.e. staged
// or persisted but not deleted.
func (d *DraftEvent) GalleryCount() int {
	n := 0
	for _, att := range d.Gallery {
		if att.State != MediaDeleted {
			n++
		}
	}
	return n
}

func (d *DraftEvent) HasCover() bool {
	return d.Cover != nil && d.Cover.State != MediaDeleted
}
