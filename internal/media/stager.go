package media

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// MaxGalleryImages caps the total gallery size per event.
const MaxGalleryImages = 10

// File is one upload as received from the browser.
type File struct {
	Name string
	Data []byte
}

// StagedFile is a phase-1 result: the file sits in transient storage under a
// stable URL before any event exists to attach it to.
type StagedFile struct {
	TempID string
	URL    string
}

// Stager uploads a file to transient storage. Implementations: the backend's
// temp-upload endpoint and Cloudinary.
type Stager interface {
	Stage(ctx context.Context, filename string, data []byte) (*StagedFile, error)
}

// ValidateImage rejects non-image files before any bytes leave the client.
func ValidateImage(filename string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("file %s is empty", filename)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("file %s is not an image (detected %s)", filename, contentType)
	}
	return nil
}
