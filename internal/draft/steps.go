package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ms-composer/internal/backend"
	"ms-composer/internal/draft/diff"
	"ms-composer/internal/models"
)

// StepInput carries the form payload for the step being advanced. Only the
// field matching the current step is consulted; a nil field means "advance
// with the state already held in the draft".
type StepInput struct {
	Details    *models.DetailsForm        `json:"details,omitempty"`
	Schedule   *models.ScheduleForm       `json:"schedule,omitempty"`
	Venue      *models.Venue              `json:"venue,omitempty"`
	Sponsors   *models.SponsorBundle      `json:"sponsors,omitempty"`
	Artists    []models.Artist            `json:"artists,omitempty"`
	Additional *models.AdditionalInfoForm `json:"additional_info,omitempty"`
}

// StepResult reports where the wizard landed and whether the backend was
// written. Wrote=false on a detected-unchanged step is the idempotence
// guarantee at work, not an error.
type StepResult struct {
	Step    models.Step `json:"step"`
	Wrote   bool        `json:"wrote"`
	EventID string      `json:"event_id,omitempty"`
	Slug    string      `json:"slug,omitempty"`
}

type stepFunc func(ctx context.Context, d *Draft, in *StepInput) (bool, error)

// Next runs the current step's transition: validate, diff, write if needed,
// refresh the canonical snapshot, advance. Any error keeps the wizard on the
// current step with the draft state intact so the user can retry.
func (s *Service) Next(ctx context.Context, draftID string, in *StepInput) (*StepResult, error) {
	d, err := s.GetDraft(draftID)
	if err != nil {
		return nil, err
	}
	if in == nil {
		in = &StepInput{}
	}

	transitions := map[models.Step]stepFunc{
		models.StepDetails:        s.stepDetails,
		models.StepSchedule:       s.stepSchedule,
		models.StepTickets:        s.stepTickets,
		models.StepVenue:          s.stepVenue,
		models.StepSponsors:       s.stepSponsors,
		models.StepArtists:        s.stepArtists,
		models.StepAdditionalInfo: s.stepAdditionalInfo,
	}

	transition, ok := transitions[d.Step]
	if !ok {
		return nil, fmt.Errorf("cannot advance past the %s step", d.Step)
	}

	wrote, err := transition(ctx, d, in)
	if err != nil {
		s.Logger.LogStep(d.ID, d.Step.String(), fmt.Sprintf("blocked: %v", err))
		return nil, err
	}

	if wrote && s.Kafka != nil {
		if kerr := s.Kafka.PublishStepSaved(d.ID, d.Event.EventID, d.Step.String()); kerr != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish step_saved: %v", kerr))
		}
	}

	from := d.Step
	d.Step = d.Step.Next()
	s.Logger.LogStep(d.ID, from.String(), fmt.Sprintf("advanced to %s (wrote=%v)", d.Step, wrote))

	return &StepResult{
		Step:    d.Step,
		Wrote:   wrote,
		EventID: d.Event.EventID,
		Slug:    d.Event.Slug,
	}, nil
}

// stepDetails is the only transition that may create the aggregate. The first
// successful save creates the event and persists whatever media was staged
// while no id existed yet.
func (s *Service) stepDetails(ctx context.Context, d *Draft, in *StepInput) (bool, error) {
	f := d.Event.Details
	if in.Details != nil {
		f = *in.Details
	}
	if err := validateDetails(f, d.Event.HasCover()); err != nil {
		return false, err
	}
	d.Event.Details = f

	normalized := diff.NormalizeDetails(f)
	if d.Event.Created() && !d.snapshots.Changed(models.StepDetails, normalized) {
		// Unchanged details are a no-op write, but staged media may still be
		// waiting for the id.
		if err := s.persistStagedMedia(ctx, d); err != nil {
			return false, err
		}
		return false, nil
	}

	if !d.Event.Created() {
		rec, err := s.Events.CreateEvent(ctx, f)
		if err != nil {
			return false, err
		}
		d.Event.EventID = rec.ID
		d.Event.Slug = rec.Slug
		d.Event.PublishState = models.PublishStateDraft
		d.Session.EventID = rec.ID
		d.Session.Started = true
		s.saveSession(ctx, d)

		if s.Kafka != nil {
			if err := s.Kafka.PublishDraftCreated(d.ID, rec.ID); err != nil {
				s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish draft_created: %v", err))
			}
		}
		fmt.Printf("Created draft event %s for draft %s\n", rec.ID, d.ID)
	} else {
		if err := s.Events.UpdateDetails(ctx, d.Event.EventID, f); err != nil {
			return false, err
		}
	}

	if err := s.persistStagedMedia(ctx, d); err != nil {
		// The aggregate write succeeded but media did not; leave the
		// snapshot unset so the retry runs through here again.
		return false, err
	}

	d.snapshots.Set(models.StepDetails, normalized)
	return true, nil
}

func (s *Service) stepSchedule(ctx context.Context, d *Draft, in *StepInput) (bool, error) {
	f := d.Event.Schedule
	if in.Schedule != nil {
		f = *in.Schedule
	}
	if err := validateSchedule(f); err != nil {
		return false, err
	}
	d.Event.Schedule = f

	normalized := diff.NormalizeSchedule(f)
	if !d.snapshots.Changed(models.StepSchedule, normalized) {
		return false, nil
	}

	startsAt, endsAt, err := parseScheduleWindow(f)
	if err != nil {
		return false, invalid(err)
	}
	if err := s.Events.UpdateSchedule(ctx, d.Event.EventID, startsAt, endsAt); err != nil {
		return false, err
	}

	d.snapshots.Set(models.StepSchedule, normalized)
	return true, nil
}

// stepTickets only gates: the actual writes happened at add/remove time.
func (s *Service) stepTickets(_ context.Context, d *Draft, _ *StepInput) (bool, error) {
	if len(d.Event.Tickets) == 0 {
		return false, invalid(errors.New("at least one ticket is required"))
	}
	return false, nil
}

// stepVenue upserts: update in place while the held id resolves, otherwise
// clear it and create, so a stale id can't orphan duplicate venues.
func (s *Service) stepVenue(ctx context.Context, d *Draft, in *StepInput) (bool, error) {
	v := d.Event.Venue
	if in.Venue != nil {
		id := v.ID
		v = *in.Venue
		if v.ID == "" {
			v.ID = id
		}
	}
	if err := validateVenue(v); err != nil {
		return false, err
	}
	d.Event.Venue = v

	normalized := diff.NormalizeVenue(v)
	if !d.snapshots.Changed(models.StepVenue, normalized) {
		return false, nil
	}

	v.EventID = d.Event.EventID
	if v.ID != "" {
		err := s.Venues.UpdateVenue(ctx, v)
		if errors.Is(err, backend.ErrNotFound) {
			s.Logger.Warn("VENUE", fmt.Sprintf("venue id %s is stale, recreating", v.ID))
			v.ID = ""
		} else if err != nil {
			return false, err
		}
	}
	if v.ID == "" {
		created, err := s.Venues.CreateVenue(ctx, v)
		if err != nil {
			return false, err
		}
		v.ID = created.ID
	}

	d.Event.Venue = v
	d.snapshots.Set(models.StepVenue, normalized)
	return true, nil
}

func (s *Service) stepSponsors(ctx context.Context, d *Draft, in *StepInput) (bool, error) {
	b := d.Event.Sponsors
	if in.Sponsors != nil {
		b = *in.Sponsors
	}

	if !b.Sponsored {
		d.Event.Sponsors = models.SponsorBundle{}
		if !d.snapshots.Has(models.StepSponsors) {
			// Toggle off with nothing ever saved: nothing to clear.
			d.snapshots.Set(models.StepSponsors, []diff.Sponsor{})
			return false, nil
		}
		empty := []diff.Sponsor{}
		if !d.snapshots.Changed(models.StepSponsors, empty) {
			return false, nil
		}
		// Something was saved earlier; issue the explicit clear.
		if err := s.Events.ReplaceSponsors(ctx, d.Event.EventID, nil); err != nil {
			return false, err
		}
		d.snapshots.Set(models.StepSponsors, empty)
		return true, nil
	}

	if err := validateSponsors(b.Sponsors); err != nil {
		return false, err
	}
	d.Event.Sponsors = b

	normalized := diff.NormalizeSponsors(b.Sponsors)
	if !d.snapshots.Changed(models.StepSponsors, normalized) {
		return false, nil
	}

	payload := make([]models.Sponsor, len(normalized))
	for i, sp := range normalized {
		payload[i] = models.Sponsor{
			Name:       sp.Name,
			LogoURL:    sp.LogoURL,
			WebsiteURL: sp.WebsiteURL,
			IsPrimary:  sp.IsPrimary,
		}
	}
	if err := s.Events.ReplaceSponsors(ctx, d.Event.EventID, payload); err != nil {
		return false, err
	}

	d.snapshots.Set(models.StepSponsors, normalized)
	return true, nil
}

// stepArtists creates each not-yet-created named artist in list order, then
// pushes the filtered list onto the event root. A failure mid-sequence stops
// the creates; already-created positions are remembered in the session, so a
// retry picks up where it halted instead of duplicating artists.
func (s *Service) stepArtists(ctx context.Context, d *Draft, in *StepInput) (bool, error) {
	list := d.Event.Artists
	if in.Artists != nil {
		list = in.Artists
	}
	if err := validateArtists(list); err != nil {
		return false, err
	}
	d.Event.Artists = list

	normalized := diff.NormalizeArtists(list)
	if !d.snapshots.Changed(models.StepArtists, normalized) {
		return false, nil
	}

	for i := range list {
		if strings.TrimSpace(list[i].Name) == "" {
			continue
		}
		if d.Session.ArtistCreated(i) {
			continue
		}
		created, err := s.Artists.CreateArtist(ctx, list[i])
		if err != nil {
			return false, fmt.Errorf("failed to create artist %d (%s): %w", i, list[i].Name, err)
		}
		if created != nil && created.ID != "" {
			list[i].ID = created.ID
		}
		d.Session.MarkArtistCreated(i)
		s.saveSession(ctx, d)
	}

	filtered := make([]models.Artist, 0, len(list))
	for _, a := range list {
		if strings.TrimSpace(a.Name) != "" {
			filtered = append(filtered, a)
		}
	}
	if err := s.Events.ReplaceArtists(ctx, d.Event.EventID, filtered); err != nil {
		return false, err
	}

	d.Event.Artists = list
	d.snapshots.Set(models.StepArtists, normalized)
	return true, nil
}

// stepAdditionalInfo writes the free-text bundle in one update. The write
// pins the publish state to DRAFT unless the event is already published;
// only the final submit may flip it.
func (s *Service) stepAdditionalInfo(ctx context.Context, d *Draft, in *StepInput) (bool, error) {
	f := d.Event.Additional
	if in.Additional != nil {
		f = *in.Additional
	}
	if err := validateAdditionalInfo(f); err != nil {
		return false, err
	}
	d.Event.Additional = f

	normalized := diff.NormalizeAdditionalInfo(f)
	if !d.snapshots.Changed(models.StepAdditionalInfo, normalized) {
		return false, nil
	}

	state := models.PublishStateDraft
	if d.Event.PublishState == models.PublishStatePublished {
		state = models.PublishStatePublished
	}
	if err := s.Events.UpdateAdditionalInfo(ctx, d.Event.EventID, f, state); err != nil {
		return false, err
	}
	d.Event.PublishState = state

	d.snapshots.Set(models.StepAdditionalInfo, normalized)
	return true, nil
}
