package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStager stages uploads straight into a Cloudinary folder, skipping
// the backend's temp storage entirely.
type CloudinaryStager struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStager(folder string) (*CloudinaryStager, error) {
	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %v", err)
	}
	return &CloudinaryStager{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStager) Stage(ctx context.Context, filename string, data []byte) (*StagedFile, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	uploadResp, err := s.cld.Upload.Upload(uploadCtx, bytes.NewReader(data), uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("upload error: %v", err)
	}

	return &StagedFile{
		TempID: uploadResp.PublicID,
		URL:    uploadResp.SecureURL,
	}, nil
}
