package models

type MediaState string

const (
	// MediaStaged means the file sits in transient storage with a stable URL
	// but is not yet linked to any event.
	MediaStaged MediaState = "STAGED"
	// MediaPersisted means the attachment is linked to the event and has a
	// backend attachment id.
	MediaPersisted MediaState = "PERSISTED"
	// MediaDeleted means the delete call has been issued for the attachment;
	// it must never be shown again even if a refetch race returns it.
	MediaDeleted MediaState = "DELETED"
)

type MediaKind string

const (
	MediaKindCover   MediaKind = "COVER"
	MediaKindGallery MediaKind = "GALLERY"
)

// MediaAttachment tracks one image through the stage -> persist -> delete
// lifecycle. Data keeps the original bytes around until the attachment is
// persisted, as the fallback when the staged upload went missing.
type MediaAttachment struct {
	ID       string     `json:"id,omitempty"`
	TempID   string     `json:"temp_id,omitempty"`
	URL      string     `json:"url"`
	Kind     MediaKind  `json:"kind"`
	State    MediaState `json:"state"`
	FileName string     `json:"file_name,omitempty"`
	Data     []byte     `json:"-"`
}

// ImageRecord is the backend's representation of a persisted image.
type ImageRecord struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
