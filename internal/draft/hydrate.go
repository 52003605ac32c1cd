package draft

import (
	"context"
	"errors"
	"fmt"

	"ms-composer/internal/backend"
	"ms-composer/internal/draft/diff"
	"ms-composer/internal/draft/session"
	"ms-composer/internal/models"
	"ms-composer/internal/utils"
)

// EditEvent opens an edit session against an already-persisted event,
// resolving by slug first and falling back to an id lookup. Edit mode never
// touches the session store; the backend is the source of truth.
func (s *Service) EditEvent(ctx context.Context, ref string) (*Draft, error) {
	rec, err := s.Events.GetEventBySlug(ctx, ref)
	if errors.Is(err, backend.ErrNotFound) {
		rec, err = s.Events.GetEvent(ctx, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event %s: %w", ref, err)
	}

	rec, err = s.ensureComplete(ctx, rec)
	if err != nil {
		return nil, err
	}

	id := utils.GenerateDraftID()
	d := &Draft{
		ID:        id,
		EditMode:  true,
		Step:      models.StepDetails,
		Session:   session.New(id),
		snapshots: diff.NewRegistry(),
	}
	d.Event.LocalID = id
	s.applyRecord(d, rec)
	s.register(d)
	s.Logger.LogStep(id, "edit", fmt.Sprintf("editing event %s", rec.ID))
	return d, nil
}

// hydrate rebuilds a resumed draft from the backend aggregate.
func (s *Service) hydrate(ctx context.Context, d *Draft, eventID string) error {
	rec, err := s.Events.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	rec, err = s.ensureComplete(ctx, rec)
	if err != nil {
		return err
	}
	s.applyRecord(d, rec)
	return nil
}

// ensureComplete refetches when the record looks like a summary projection
// with the nested data stripped. One transparent extra fetch; harmless when
// the event genuinely has no venue or images yet.
func (s *Service) ensureComplete(ctx context.Context, rec *models.EventRecord) (*models.EventRecord, error) {
	if !hydrationIncomplete(rec) {
		return rec, nil
	}
	s.Logger.Debug("HYDRATE", fmt.Sprintf("event %s came back as a summary projection, refetching", rec.ID))
	full, err := s.Events.GetEvent(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to refetch full event %s: %w", rec.ID, err)
	}
	return full, nil
}

func hydrationIncomplete(rec *models.EventRecord) bool {
	if rec.Description == "" {
		return true
	}
	if rec.Venue == nil {
		return true
	}
	return rec.Flyer == nil && len(rec.Images) == 0
}

// applyRecord reconstructs the draft state and every per-step canonical
// snapshot from the backend aggregate, so that advancing any step without
// edits produces zero writes.
func (s *Service) applyRecord(d *Draft, rec *models.EventRecord) {
	e := &d.Event
	e.EventID = rec.ID
	e.Slug = rec.Slug
	e.PublishState = rec.PublishState
	if e.PublishState == "" {
		e.PublishState = models.PublishStateDraft
	}

	e.Details = models.DetailsForm{
		Title:       rec.Title,
		Description: rec.Description,
		Category:    rec.Category,
		Subcategory: rec.Subcategory,
		EventType:   rec.EventType,
	}
	d.snapshots.Set(models.StepDetails, diff.NormalizeDetails(e.Details))

	if !rec.StartsAt.IsZero() {
		e.Schedule = models.ScheduleForm{
			StartDate: rec.StartsAt.Format(dateLayout),
			StartTime: rec.StartsAt.Format(timeLayout),
			EndDate:   rec.EndsAt.Format(dateLayout),
			EndTime:   rec.EndsAt.Format(timeLayout),
		}
		d.snapshots.Set(models.StepSchedule, diff.NormalizeSchedule(e.Schedule))
	}

	e.Tickets = rec.Tickets

	if rec.Venue != nil {
		e.Venue = *rec.Venue
		d.snapshots.Set(models.StepVenue, diff.NormalizeVenue(e.Venue))
	}

	e.Sponsors = models.SponsorBundle{
		Sponsored: len(rec.Sponsors) > 0,
		Sponsors:  rec.Sponsors,
	}
	d.snapshots.Set(models.StepSponsors, diff.NormalizeSponsors(rec.Sponsors))

	e.Artists = rec.Artists
	for i := range rec.Artists {
		d.Session.MarkArtistCreated(i)
	}
	d.snapshots.Set(models.StepArtists, diff.NormalizeArtists(rec.Artists))

	e.Additional = models.AdditionalInfoForm{
		Terms:         rec.Terms,
		AgeRestricted: rec.AgeRestricted,
		Accessible:    rec.Accessible,
		Advisories:    rec.Advisories,
		FAQs:          rec.FAQs,
		OrganizerNote: rec.OrganizerNote,
	}
	d.snapshots.Set(models.StepAdditionalInfo, diff.NormalizeAdditionalInfo(e.Additional))

	if rec.Flyer != nil && !d.Session.IsImageDeleted(rec.Flyer.ID) {
		e.Cover = &models.MediaAttachment{
			ID:    rec.Flyer.ID,
			URL:   rec.Flyer.URL,
			Kind:  models.MediaKindCover,
			State: models.MediaPersisted,
		}
	}

	e.Gallery = nil
	for _, img := range rec.Images {
		// Deletion permanence: a locally deleted image stays gone even when
		// the refetch raced the delete.
		if d.Session.IsImageDeleted(img.ID) {
			continue
		}
		e.Gallery = append(e.Gallery, &models.MediaAttachment{
			ID:    img.ID,
			URL:   img.URL,
			Kind:  models.MediaKindGallery,
			State: models.MediaPersisted,
		})
	}
}
