package services

import (
	"context"
	"errors"
	"fmt"
	"handmade-store/utils"
	"io"
	"mime/multipart"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMediaNotConfigured = errors.New("image hosting is not configured")
	ErrNoFiles            = errors.New("no files uploaded")
)

const maxParallelUploads = 3

// MediaUploader stores a local file on the remote media host.
type MediaUploader interface {
	Upload(ctx context.Context, localPath string) (url string, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

type UploadService struct {
	uploader MediaUploader
	tmpDir   string
	maxSize  int64
}

// NewUploadService builds the gateway. A nil uploader means the media host
// credentials are missing and every upload fails with ErrMediaNotConfigured.
func NewUploadService(uploader MediaUploader, tmpDir string, maxSize int64) *UploadService {
	return &UploadService{
		uploader: uploader,
		tmpDir:   tmpDir,
		maxSize:  maxSize,
	}
}

// Configured reports whether media host credentials were supplied.
func (s *UploadService) Configured() bool {
	return s.uploader != nil
}

type uploadedImage struct {
	url      string
	publicID string
}

// UploadImages forwards every file to the media host and returns the URLs in
// input order. The batch is all-or-nothing: on any failure the images already
// stored remotely are removed again. Temp files never outlive the call.
func (s *UploadService) UploadImages(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if s.uploader == nil {
		return nil, ErrMediaNotConfigured
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	for _, fh := range files {
		if err := utils.ValidateImageFile(fh, s.maxSize); err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("%s: %v", fh.Filename, err)}
		}
	}

	if err := os.MkdirAll(s.tmpDir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	results := make([]*uploadedImage, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			img, err := s.uploadOne(gctx, fh)
			if err != nil {
				return err
			}
			results[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.rollback(results)
		return nil, err
	}

	urls := make([]string, len(results))
	for i, img := range results {
		urls[i] = img.url
	}
	return urls, nil
}

func (s *UploadService) uploadOne(ctx context.Context, fh *multipart.FileHeader) (*uploadedImage, error) {
	tmpPath := utils.TempUploadPath(s.tmpDir, fh.Filename)
	defer func() {
		if err := utils.DeleteFile(tmpPath); err != nil {
			log.WithError(err).WithField("path", tmpPath).Error("failed to remove temp upload")
		}
	}()

	if err := writeTempFile(fh, tmpPath); err != nil {
		return nil, err
	}

	url, publicID, err := s.uploader.Upload(ctx, tmpPath)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", fh.Filename, err)
	}
	return &uploadedImage{url: url, publicID: publicID}, nil
}

func writeTempFile(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	return dst.Close()
}

func (s *UploadService) rollback(results []*uploadedImage) {
	for _, img := range results {
		if img == nil {
			continue
		}
		if err := s.uploader.Delete(context.Background(), img.publicID); err != nil {
			log.WithError(err).WithField("public_id", img.publicID).Warn("failed to roll back uploaded image")
		}
	}
}
