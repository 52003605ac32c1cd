package session

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("draft session not found")

// DraftSession is the slice of wizard state that must survive page reloads
// for an in-progress creation: the backend event id once assigned, whether
// the draft was started, which media ids were deleted locally, and which
// artist list positions already have a backend artist. Edit mode never reads
// or writes the store; it always re-resolves from the backend.
type DraftSession struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id,omitempty"`
	Started          bool      `json:"started"`
	DeletedImageIDs  []string  `json:"deleted_image_ids,omitempty"`
	CreatedArtistIdx []int     `json:"created_artist_idx,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func New(id string) *DraftSession {
	now := time.Now().UTC()
	return &DraftSession{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkImageDeleted records a locally issued delete so a racing refetch can
// never resurrect the image.
func (s *DraftSession) MarkImageDeleted(imageID string) {
	if imageID == "" || s.IsImageDeleted(imageID) {
		return
	}
	s.DeletedImageIDs = append(s.DeletedImageIDs, imageID)
}

func (s *DraftSession) IsImageDeleted(imageID string) bool {
	for _, id := range s.DeletedImageIDs {
		if id == imageID {
			return true
		}
	}
	return false
}

// MarkArtistCreated records that the artist at the given list position has a
// backend record, so a retried save skips it.
func (s *DraftSession) MarkArtistCreated(index int) {
	if s.ArtistCreated(index) {
		return
	}
	s.CreatedArtistIdx = append(s.CreatedArtistIdx, index)
}

func (s *DraftSession) ArtistCreated(index int) bool {
	for _, i := range s.CreatedArtistIdx {
		if i == index {
			return true
		}
	}
	return false
}

// Store persists draft sessions across reloads of the same creation flow.
type Store interface {
	Get(ctx context.Context, id string) (*DraftSession, error)
	Save(ctx context.Context, session *DraftSession) error
	Delete(ctx context.Context, id string) error
}
