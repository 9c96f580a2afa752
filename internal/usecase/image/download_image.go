package image

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"

	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

type imageDownloaderSrv struct {
	repo   port.ImageRepository
	strg   port.Storage
	bucket string
}

// compile-time check: *imageDownloaderSrv must satisfy port.ImageDownloader
var _ port.ImageDownloader = (*imageDownloaderSrv)(nil)

func NewImageDownloader(repo port.ImageRepository, strg port.Storage, bucket string) port.ImageDownloader {
	return &imageDownloaderSrv{repo: repo, strg: strg, bucket: bucket}
}

// DownloadImage opens the stored file of a completed record. Records that
// are not completed yet return ErrNotCompleted along with their status.
func (s *imageDownloaderSrv) DownloadImage(ctx context.Context, id uuid.UUID) (port.DownloadImageOutput, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return port.DownloadImageOutput{}, ErrNotFound
		}
		return port.DownloadImageOutput{}, err
	}
	if img.Status != model.ImageStatusCompleted || img.StoredFile == nil {
		return port.DownloadImageOutput{Status: img.Status}, ErrNotCompleted
	}

	key := *img.StoredFile
	f, err := s.strg.GetFile(ctx, s.bucket, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return port.DownloadImageOutput{}, fmt.Errorf("stored file %q of image %q is missing: %w", key, id, err)
		}
		return port.DownloadImageOutput{}, fmt.Errorf("opening stored file %q: %w", key, err)
	}

	return port.DownloadImageOutput{
		Status:      img.Status,
		File:        f,
		Filename:    path.Base(key),
		ContentType: img.Metadata.MimeType,
		SizeBytes:   img.Metadata.SizeBytes,
		ModTime:     img.UpdatedAt,
	}, nil
}
