package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ms-composer/internal/models"
)

// EventClient talks to the aggregate-root endpoints. Step-specific updates
// all go through PUT /event/{id} with partial bodies; the backend merges.
type EventClient struct {
	*Client
}

func NewEventClient(c *Client) *EventClient {
	return &EventClient{Client: c}
}

type eventCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	EventType   string `json:"event_type,omitempty"`
}

func (c *EventClient) CreateEvent(ctx context.Context, f models.DetailsForm) (*models.EventRecord, error) {
	var rec models.EventRecord
	req := eventCreateRequest{
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		Subcategory: f.Subcategory,
		EventType:   f.EventType,
	}
	if err := c.do(ctx, http.MethodPost, "/event/create-event", req, &rec); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &rec, nil
}

func (c *EventClient) UpdateDetails(ctx context.Context, eventID string, f models.DetailsForm) error {
	body := map[string]interface{}{
		"title":       f.Title,
		"description": f.Description,
		"category":    f.Category,
		"subcategory": f.Subcategory,
		"event_type":  f.EventType,
	}
	return c.update(ctx, eventID, body)
}

func (c *EventClient) UpdateSchedule(ctx context.Context, eventID string, startsAt, endsAt time.Time) error {
	body := map[string]interface{}{
		"starts_at": startsAt,
		"ends_at":   endsAt,
	}
	return c.update(ctx, eventID, body)
}

func (c *EventClient) UpdateAdditionalInfo(ctx context.Context, eventID string, f models.AdditionalInfoForm, state models.PublishState) error {
	body := map[string]interface{}{
		"terms":          f.Terms,
		"age_restricted": f.AgeRestricted,
		"accessible":     f.Accessible,
		"advisories":     f.Advisories,
		"faqs":           f.FAQs,
		"organizer_note": f.OrganizerNote,
		"publish_state":  state,
	}
	return c.update(ctx, eventID, body)
}

// ReplaceSponsors swaps the whole sponsor list in one write. An empty slice
// (not nil) clears previously saved sponsors.
func (c *EventClient) ReplaceSponsors(ctx context.Context, eventID string, sponsors []models.Sponsor) error {
	if sponsors == nil {
		sponsors = []models.Sponsor{}
	}
	return c.update(ctx, eventID, map[string]interface{}{"sponsors": sponsors})
}

// ReplaceArtists pushes the denormalized artist list onto the event root.
func (c *EventClient) ReplaceArtists(ctx context.Context, eventID string, artists []models.Artist) error {
	if artists == nil {
		artists = []models.Artist{}
	}
	return c.do(ctx, http.MethodPost, "/event/"+url.PathEscape(eventID)+"/artists", map[string]interface{}{"artists": artists}, nil)
}

func (c *EventClient) SetPublishState(ctx context.Context, eventID string, state models.PublishState) error {
	return c.update(ctx, eventID, map[string]interface{}{"publish_state": state})
}

func (c *EventClient) update(ctx context.Context, eventID string, body map[string]interface{}) error {
	if err := c.do(ctx, http.MethodPut, "/event/"+url.PathEscape(eventID), body, nil); err != nil {
		return fmt.Errorf("failed to update event %s: %w", eventID, err)
	}
	return nil
}

func (c *EventClient) GetEvent(ctx context.Context, eventID string) (*models.EventRecord, error) {
	var rec models.EventRecord
	if err := c.do(ctx, http.MethodGet, "/event/"+url.PathEscape(eventID), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *EventClient) GetEventBySlug(ctx context.Context, slug string) (*models.EventRecord, error) {
	var rec models.EventRecord
	if err := c.do(ctx, http.MethodGet, "/event/slug/"+url.PathEscape(slug), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
