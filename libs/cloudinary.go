package libs

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	log "github.com/sirupsen/logrus"
)

// imageTransformation asks the media host for automatic quality and format.
const imageTransformation = "q_auto,f_auto"

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

// Upload sends a local file to the configured folder and returns its permanent
// URL and public id.
func (u *CloudinaryUploader) Upload(ctx context.Context, localPath string) (string, string, error) {
	resp, err := u.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:         u.folder,
		ResourceType:   "image",
		Transformation: imageTransformation,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if resp == nil {
		return "", "", errors.New("cloudinary response is nil")
	}
	if resp.Error.Message != "" {
		return "", "", fmt.Errorf("cloudinary rejected upload: %s", resp.Error.Message)
	}

	url := resp.SecureURL
	if url == "" {
		url = resp.URL
	}
	if url == "" {
		return "", "", errors.New("both SecureURL and URL are empty")
	}

	log.WithField("public_id", resp.PublicID).Debug("image uploaded to cloudinary")
	return url, resp.PublicID, nil
}

func (u *CloudinaryUploader) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	result, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary deletion failed: %s", result.Result)
	}
	return nil
}
