package media

import (
	"context"

	"ms-composer/internal/backend"
)

// TempStager stages uploads through the backend's /upload/temp endpoint.
type TempStager struct {
	Media *backend.MediaClient
}

func NewTempStager(media *backend.MediaClient) *TempStager {
	return &TempStager{Media: media}
}

func (s *TempStager) Stage(ctx context.Context, filename string, data []byte) (*StagedFile, error) {
	up, err := s.Media.StageTemp(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	return &StagedFile{TempID: up.TempID, URL: up.URL}, nil
}
