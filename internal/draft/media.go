package draft

import (
	"context"
	"fmt"
	"sync"

	"ms-composer/internal/media"
	"ms-composer/internal/models"
	"ms-composer/internal/utils"
)

// StageCover runs phase 1 for the cover image. If the aggregate already
// exists the attachment is persisted immediately; otherwise it waits, staged,
// for the step-1 create.
func (s *Service) StageCover(ctx context.Context, draftID string, file media.File) (*models.MediaAttachment, error) {
	d, err := s.GetDraft(draftID)
	if err != nil {
		return nil, err
	}
	if err := media.ValidateImage(file.Name, file.Data); err != nil {
		return nil, invalid(err)
	}

	att, err := s.stage(ctx, file, models.MediaKindCover)
	if err != nil {
		return nil, err
	}
	if d.Event.Created() {
		if err := s.persistAttachment(ctx, d, att); err != nil {
			return nil, err
		}
	}

	d.Event.Cover = att
	return att, nil
}

// StageGalleryImages stages several gallery files in parallel. All uploads
// must finish before the step that needs them can advance, so the call only
// returns once every file settled; attachments that made it are kept even
// when a sibling upload failed.
func (s *Service) StageGalleryImages(ctx context.Context, draftID string, files []media.File) ([]*models.MediaAttachment, error) {
	d, err := s.GetDraft(draftID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, invalid(fmt.Errorf("no files given"))
	}
	if d.Event.GalleryCount()+len(files) > media.MaxGalleryImages {
		return nil, invalid(fmt.Errorf("gallery is capped at %d images", media.MaxGalleryImages))
	}
	for _, f := range files {
		if err := media.ValidateImage(f.Name, f.Data); err != nil {
			return nil, invalid(err)
		}
	}

	type result struct {
		att *models.MediaAttachment
		err error
	}
	results := make([]result, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f media.File) {
			defer wg.Done()
			att, err := s.stage(ctx, f, models.MediaKindGallery)
			results[i] = result{att: att, err: err}
		}(i, f)
	}
	wg.Wait()

	var staged []*models.MediaAttachment
	var firstErr error
	for _, r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		staged = append(staged, r.att)
	}

	for _, att := range staged {
		if d.Event.Created() {
			if err := s.persistAttachment(ctx, d, att); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		d.Event.Gallery = append(d.Event.Gallery, att)
	}

	if firstErr != nil {
		return staged, fmt.Errorf("gallery upload incomplete: %w", firstErr)
	}
	return staged, nil
}

// stage runs the transient upload. A failed staging with an existing event is
// not fatal: the attachment keeps its bytes and the direct-upload fallback
// persists it.
func (s *Service) stage(ctx context.Context, file media.File, kind models.MediaKind) (*models.MediaAttachment, error) {
	att := &models.MediaAttachment{
		Kind:     kind,
		State:    models.MediaStaged,
		FileName: file.Name,
		Data:     file.Data,
	}

	staged, err := s.Stager.Stage(ctx, file.Name, file.Data)
	if err != nil {
		s.Logger.Warn("MEDIA", fmt.Sprintf("staging %s failed: %v", file.Name, err))
		att.TempID = utils.GenerateLocalID()
		return att, nil
	}
	att.TempID = staged.TempID
	att.URL = staged.URL
	return att, nil
}

// persistStagedMedia runs phase 2 for everything still staged, now that an
// event id is guaranteed.
func (s *Service) persistStagedMedia(ctx context.Context, d *Draft) error {
	if d.Event.Cover != nil && d.Event.Cover.State == models.MediaStaged {
		if err := s.persistAttachment(ctx, d, d.Event.Cover); err != nil {
			return err
		}
	}
	for _, att := range d.Event.Gallery {
		if att.State != models.MediaStaged {
			continue
		}
		if err := s.persistAttachment(ctx, d, att); err != nil {
			return err
		}
	}
	return nil
}

// persistAttachment attaches one staged upload by URL, falling back to a
// direct file upload when the staged URL went missing.
func (s *Service) persistAttachment(ctx context.Context, d *Draft, att *models.MediaAttachment) error {
	eventID := d.Event.EventID
	var (
		img *models.ImageRecord
		err error
	)

	if att.URL != "" {
		switch att.Kind {
		case models.MediaKindCover:
			img, err = s.Media.PersistFlyer(ctx, eventID, att.URL)
		default:
			img, err = s.Media.PersistGalleryImage(ctx, eventID, att.URL)
		}
	} else {
		// Staged upload missing: re-upload the original bytes.
		switch att.Kind {
		case models.MediaKindCover:
			img, err = s.Media.UploadFlyer(ctx, eventID, att.FileName, att.Data)
		default:
			img, err = s.Media.UploadGalleryImage(ctx, eventID, att.FileName, att.Data)
		}
	}
	if err != nil {
		return err
	}

	att.ID = img.ID
	if img.URL != "" {
		att.URL = img.URL
	}
	att.State = models.MediaPersisted
	att.Data = nil
	return nil
}

// DeleteCover removes the cover image. Staged-only covers are dropped
// locally; persisted ones are deleted backend-side first.
func (s *Service) DeleteCover(ctx context.Context, draftID string) error {
	d, err := s.GetDraft(draftID)
	if err != nil {
		return err
	}
	if d.Event.Cover == nil {
		return nil
	}

	if d.Event.Cover.State == models.MediaPersisted {
		if err := s.Media.DeleteFlyer(ctx, d.Event.EventID); err != nil {
			return err
		}
		if d.Event.Cover.ID != "" {
			d.Session.MarkImageDeleted(d.Event.Cover.ID)
			s.saveSession(ctx, d)
		}
	}
	d.Event.Cover = nil
	return nil
}

// DeleteGalleryImage removes one gallery image by backend id or, for a
// staged-only upload, by its transient id. The backend id lands in the
// session's deleted set so a racing refetch can never bring it back.
func (s *Service) DeleteGalleryImage(ctx context.Context, draftID, imageID string) error {
	d, err := s.GetDraft(draftID)
	if err != nil {
		return err
	}

	for i, att := range d.Event.Gallery {
		switch {
		case att.ID == imageID && att.State == models.MediaPersisted:
			if err := s.Media.DeleteGalleryImage(ctx, d.Event.EventID, imageID); err != nil {
				return err
			}
			att.State = models.MediaDeleted
			d.Session.MarkImageDeleted(imageID)
			s.saveSession(ctx, d)
			d.Event.Gallery = append(d.Event.Gallery[:i], d.Event.Gallery[i+1:]...)
			return nil
		case att.TempID == imageID && att.State == models.MediaStaged:
			// Never reached the backend; dropping it locally is enough.
			d.Event.Gallery = append(d.Event.Gallery[:i], d.Event.Gallery[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("image %s is not part of this draft", imageID)
}
