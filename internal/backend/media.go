package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"ms-composer/internal/models"
)

// MediaClient covers the event's image endpoints plus the stage-only temp
// upload that is not tied to any event id.
type MediaClient struct {
	*Client
}

func NewMediaClient(c *Client) *MediaClient {
	return &MediaClient{Client: c}
}

// TempUpload is the result of a stage-only upload: a stable URL plus the
// transient identifier assigned by the storage layer.
type TempUpload struct {
	TempID string `json:"temp_id"`
	URL    string `json:"url"`
}

// StageTemp uploads file bytes to transient storage. No event coupling.
func (c *MediaClient) StageTemp(ctx context.Context, filename string, data []byte) (*TempUpload, error) {
	var up TempUpload
	if err := c.doMultipart(ctx, "/upload/temp", "file", filename, data, &up); err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	return &up, nil
}

// UploadFlyer is the direct-file fallback for the cover image, used when a
// staged URL went missing.
func (c *MediaClient) UploadFlyer(ctx context.Context, eventID, filename string, data []byte) (*models.ImageRecord, error) {
	var img models.ImageRecord
	path := "/event/" + url.PathEscape(eventID) + "/flyer"
	if err := c.doMultipart(ctx, path, "file", filename, data, &img); err != nil {
		return nil, fmt.Errorf("failed to upload flyer: %w", err)
	}
	return &img, nil
}

func (c *MediaClient) UploadGalleryImage(ctx context.Context, eventID, filename string, data []byte) (*models.ImageRecord, error) {
	var img models.ImageRecord
	path := "/event/" + url.PathEscape(eventID) + "/gallery"
	if err := c.doMultipart(ctx, path, "file", filename, data, &img); err != nil {
		return nil, fmt.Errorf("failed to upload gallery image: %w", err)
	}
	return &img, nil
}

// PersistFlyer attaches an already-staged URL as the event's cover image.
// Much cheaper than re-uploading the binary.
func (c *MediaClient) PersistFlyer(ctx context.Context, eventID, stagedURL string) (*models.ImageRecord, error) {
	var img models.ImageRecord
	path := "/event/" + url.PathEscape(eventID) + "/flyer/persist"
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"url": stagedURL}, &img); err != nil {
		return nil, fmt.Errorf("failed to persist flyer: %w", err)
	}
	return &img, nil
}

func (c *MediaClient) PersistGalleryImage(ctx context.Context, eventID, stagedURL string) (*models.ImageRecord, error) {
	var img models.ImageRecord
	path := "/event/" + url.PathEscape(eventID) + "/gallery/persist"
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"url": stagedURL}, &img); err != nil {
		return nil, fmt.Errorf("failed to persist gallery image: %w", err)
	}
	return &img, nil
}

// DeleteFlyer removes the cover image. Already-gone counts as success.
func (c *MediaClient) DeleteFlyer(ctx context.Context, eventID string) error {
	path := "/event/" + url.PathEscape(eventID) + "/flyer"
	err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// DeleteGalleryImage removes one gallery image by attachment id. A 404 means
// something else already deleted it, which is the outcome we wanted.
func (c *MediaClient) DeleteGalleryImage(ctx context.Context, eventID, imageID string) error {
	path := "/event/" + url.PathEscape(eventID) + "/images/" + url.PathEscape(imageID)
	err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
