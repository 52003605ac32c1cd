package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ms-composer/internal/draft/diff"
	"ms-composer/internal/draft/session"
	"ms-composer/internal/logger"
	"ms-composer/internal/media"
	"ms-composer/internal/models"
	"ms-composer/internal/utils"
)

var (
	ErrDraftNotFound  = errors.New("draft not found")
	ErrAlreadyAtFirst = errors.New("already at the first step")
	ErrNotAtReview    = errors.New("submit is only allowed from the review step")
)

// EventAPI is the aggregate-root surface the orchestrator needs.
type EventAPI interface {
	CreateEvent(ctx context.Context, f models.DetailsForm) (*models.EventRecord, error)
	UpdateDetails(ctx context.Context, eventID string, f models.DetailsForm) error
	UpdateSchedule(ctx context.Context, eventID string, startsAt, endsAt time.Time) error
	UpdateAdditionalInfo(ctx context.Context, eventID string, f models.AdditionalInfoForm, state models.PublishState) error
	ReplaceSponsors(ctx context.Context, eventID string, sponsors []models.Sponsor) error
	ReplaceArtists(ctx context.Context, eventID string, artists []models.Artist) error
	SetPublishState(ctx context.Context, eventID string, state models.PublishState) error
	GetEvent(ctx context.Context, eventID string) (*models.EventRecord, error)
	GetEventBySlug(ctx context.Context, slug string) (*models.EventRecord, error)
}

type VenueAPI interface {
	CreateVenue(ctx context.Context, v models.Venue) (*models.Venue, error)
	UpdateVenue(ctx context.Context, v models.Venue) error
}

type TicketAPI interface {
	CreateTicket(ctx context.Context, t models.Ticket) (*models.Ticket, error)
	DeleteTicket(ctx context.Context, ticketID string) error
}

type ArtistAPI interface {
	CreateArtist(ctx context.Context, a models.Artist) (*models.Artist, error)
}

type MediaAPI interface {
	PersistFlyer(ctx context.Context, eventID, stagedURL string) (*models.ImageRecord, error)
	PersistGalleryImage(ctx context.Context, eventID, stagedURL string) (*models.ImageRecord, error)
	UploadFlyer(ctx context.Context, eventID, filename string, data []byte) (*models.ImageRecord, error)
	UploadGalleryImage(ctx context.Context, eventID, filename string, data []byte) (*models.ImageRecord, error)
	DeleteFlyer(ctx context.Context, eventID string) error
	DeleteGalleryImage(ctx context.Context, eventID, imageID string) error
}

type KafkaPublisher interface {
	PublishDraftCreated(draftID, eventID string) error
	PublishStepSaved(draftID, eventID, step string) error
	PublishEventPublished(eventID, slug string) error
}

// Draft is one wizard run. The session carries the durable slice of this
// state; everything else is rebuilt by hydration after a reload.
type Draft struct {
	ID       string
	EditMode bool
	Step     models.Step
	Event    models.DraftEvent
	Session  *session.DraftSession

	snapshots *diff.Registry
}

// Service is the step orchestrator: it owns the wizard state machine and is
// the only component that calls the sub-resource clients.
type Service struct {
	Events   EventAPI
	Venues   VenueAPI
	Tickets  TicketAPI
	Artists  ArtistAPI
	Media    MediaAPI
	Stager   media.Stager
	Sessions session.Store
	Kafka    KafkaPublisher
	Logger   *logger.Logger

	// PublicEventURL is the base of the public event page, used for the
	// share QR generated at publish time.
	PublicEventURL string

	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewService(events EventAPI, venues VenueAPI, tickets TicketAPI, artists ArtistAPI, mediaAPI MediaAPI, stager media.Stager, sessions session.Store, kafka KafkaPublisher, log *logger.Logger, publicEventURL string) *Service {
	return &Service{
		Events:         events,
		Venues:         venues,
		Tickets:        tickets,
		Artists:        artists,
		Media:          mediaAPI,
		Stager:         stager,
		Sessions:       sessions,
		Kafka:          kafka,
		Logger:         log,
		PublicEventURL: publicEventURL,
		drafts:         make(map[string]*Draft),
	}
}

// StartDraft opens a fresh creation flow. When resume is set and the prior
// session still exists, the interrupted draft is picked up instead; a prior
// id without the resume signal is explicitly discarded.
func (s *Service) StartDraft(ctx context.Context, priorID string, resume bool) (*Draft, error) {
	if resume && priorID != "" {
		sess, err := s.Sessions.Get(ctx, priorID)
		if err == nil {
			d := &Draft{
				ID:        priorID,
				Step:      models.StepDetails,
				Session:   sess,
				snapshots: diff.NewRegistry(),
			}
			d.Event.LocalID = priorID
			if sess.EventID != "" {
				if err := s.hydrate(ctx, d, sess.EventID); err != nil {
					return nil, fmt.Errorf("failed to resume draft %s: %w", priorID, err)
				}
			}
			s.register(d)
			s.Logger.LogStep(d.ID, "resume", fmt.Sprintf("resumed draft (event_id=%q)", sess.EventID))
			return d, nil
		}
		if !errors.Is(err, session.ErrSessionNotFound) {
			return nil, err
		}
		// Expired or never saved; fall through to a fresh start.
	}

	if priorID != "" && !resume {
		// Abandoned draft: drop its identifiers so they can't leak into the
		// new flow.
		if err := s.Sessions.Delete(ctx, priorID); err != nil {
			s.Logger.Warn("SESSION", fmt.Sprintf("failed to discard session %s: %v", priorID, err))
		}
	}

	id := utils.GenerateDraftID()
	sess := session.New(id)
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create draft session: %w", err)
	}

	d := &Draft{
		ID:        id,
		Step:      models.StepDetails,
		Session:   sess,
		snapshots: diff.NewRegistry(),
	}
	d.Event.LocalID = id
	s.register(d)
	s.Logger.LogStep(id, "start", "fresh draft started")
	return d, nil
}

func (s *Service) register(d *Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = d
}

func (s *Service) GetDraft(draftID string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[draftID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

// Back moves one step backwards. Backward navigation is always allowed and
// never validated.
func (s *Service) Back(draftID string) (models.Step, error) {
	d, err := s.GetDraft(draftID)
	if err != nil {
		return 0, err
	}
	if d.Step == models.StepDetails {
		return d.Step, ErrAlreadyAtFirst
	}
	d.Step = d.Step.Prev()
	return d.Step, nil
}

// saveSession persists the durable slice for fresh drafts. Edit mode keeps
// the session purely in memory.
func (s *Service) saveSession(ctx context.Context, d *Draft) {
	if d.EditMode {
		return
	}
	if err := s.Sessions.Save(ctx, d.Session); err != nil {
		s.Logger.Error("SESSION", fmt.Sprintf("failed to save session %s: %v", d.ID, err))
	}
}

// ---------------- TICKETS ----------------
// Tickets bypass change detection entirely: every add is an immediate create
// and every remove an immediate delete.

func (s *Service) AddTicket(ctx context.Context, draftID string, t models.Ticket) (*models.Ticket, error) {
	d, err := s.GetDraft(draftID)
	if err != nil {
		return nil, err
	}
	if !d.Event.Created() {
		return nil, invalid(errors.New("save the event details before adding tickets"))
	}
	if err := validateTicket(t); err != nil {
		return nil, err
	}

	t.EventID = d.Event.EventID
	created, err := s.Tickets.CreateTicket(ctx, t)
	if err != nil {
		return nil, err
	}
	d.Event.Tickets = append(d.Event.Tickets, *created)
	s.Logger.LogStep(d.ID, "tickets", fmt.Sprintf("ticket %s created", created.ID))
	return created, nil
}

func (s *Service) RemoveTicket(ctx context.Context, draftID, ticketID string) error {
	d, err := s.GetDraft(draftID)
	if err != nil {
		return err
	}

	idx := -1
	for i, t := range d.Event.Tickets {
		if t.ID == ticketID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("ticket %s is not part of this draft", ticketID)
	}

	if err := s.Tickets.DeleteTicket(ctx, ticketID); err != nil {
		return err
	}
	d.Event.Tickets = append(d.Event.Tickets[:idx], d.Event.Tickets[idx+1:]...)
	s.Logger.LogStep(d.ID, "tickets", fmt.Sprintf("ticket %s deleted", ticketID))
	return nil
}

// ---------------- REVIEW & SUBMIT ----------------

func (s *Service) Review(draftID string) (*models.ReviewSummary, error) {
	d, err := s.GetDraft(draftID)
	if err != nil {
		return nil, err
	}

	e := &d.Event
	checklist := []models.ReviewItem{
		{Field: "title", Filled: e.Details.Title != ""},
		{Field: "description", Filled: e.Details.Description != ""},
		{Field: "category", Filled: e.Details.Category != "" && e.Details.Subcategory != ""},
		{Field: "cover_image", Filled: e.HasCover()},
		{Field: "gallery", Filled: e.GalleryCount() > 0},
		{Field: "schedule", Filled: e.Schedule.StartDate != "" && e.Schedule.EndDate != ""},
		{Field: "tickets", Filled: len(e.Tickets) > 0},
		{Field: "venue", Filled: e.Venue.Name != ""},
		{Field: "sponsors", Filled: len(e.Sponsors.Sponsors) > 0},
		{Field: "artists", Filled: len(diff.NormalizeArtists(e.Artists)) > 0},
		{Field: "terms", Filled: e.Additional.Terms != ""},
	}

	return &models.ReviewSummary{
		EventID:      e.EventID,
		Slug:         e.Slug,
		PublishState: e.PublishState,
		Checklist:    checklist,
	}, nil
}

// SubmitResult is handed back to the review screen after the terminal write.
type SubmitResult struct {
	EventID      string              `json:"event_id"`
	Slug         string              `json:"slug"`
	PublishState models.PublishState `json:"publish_state"`
	ShareURL     string              `json:"share_url,omitempty"`
	ShareQRPNG   []byte              `json:"share_qr_png,omitempty"`
}

// Submit flips the publish state from the review step. Publishing also mints
// a share QR for the public event page and discards the creation session.
func (s *Service) Submit(ctx context.Context, draftID string, target models.PublishState) (*SubmitResult, error) {
	d, err := s.GetDraft(draftID)
	if err != nil {
		return nil, err
	}
	if d.Step != models.StepReview {
		return nil, ErrNotAtReview
	}
	if target != models.PublishStateDraft && target != models.PublishStatePublished {
		return nil, invalid(fmt.Errorf("unknown publish state %q", target))
	}

	if err := s.Events.SetPublishState(ctx, d.Event.EventID, target); err != nil {
		return nil, err
	}
	d.Event.PublishState = target

	result := &SubmitResult{
		EventID:      d.Event.EventID,
		Slug:         d.Event.Slug,
		PublishState: target,
	}

	if target == models.PublishStatePublished {
		result.ShareURL = s.PublicEventURL + "/" + d.Event.Slug
		png, qerr := shareQR(result.ShareURL)
		if qerr != nil {
			s.Logger.Warn("WIZARD", fmt.Sprintf("failed to generate share QR: %v", qerr))
		} else {
			result.ShareQRPNG = png
		}
		if s.Kafka != nil {
			if err := s.Kafka.PublishEventPublished(d.Event.EventID, d.Event.Slug); err != nil {
				s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish event.published: %v", err))
			}
		}
	}

	if !d.EditMode {
		if err := s.Sessions.Delete(ctx, d.ID); err != nil {
			s.Logger.Warn("SESSION", fmt.Sprintf("failed to discard session %s after submit: %v", d.ID, err))
		}
	}

	s.Logger.LogStep(d.ID, "submit", fmt.Sprintf("event %s submitted as %s", d.Event.EventID, target))
	return result, nil
}
