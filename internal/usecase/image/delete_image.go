package image

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

type imageDeleterSrv struct {
	repo   port.ImageRepository
	cache  port.Cache
	strg   port.Storage
	bucket string
}

// compile-time check: *imageDeleterSrv must satisfy port.ImageDeleter
var _ port.ImageDeleter = (*imageDeleterSrv)(nil)

func NewImageDeleter(repo port.ImageRepository, cache port.Cache, strg port.Storage, bucket string) port.ImageDeleter {
	return &imageDeleterSrv{repo: repo, cache: cache, strg: strg, bucket: bucket}
}

// DeleteImage removes the stored file, then the record, then the cached status.
// Only terminal records can be deleted; a file that is already gone is fine.
func (s *imageDeleterSrv) DeleteImage(ctx context.Context, id uuid.UUID) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !img.Status.IsTerminal() {
		return fmt.Errorf("%w: image %q is %s", ErrInProgress, id, img.Status)
	}

	if img.StoredFile != nil {
		if err := s.strg.RemoveFile(ctx, s.bucket, *img.StoredFile); err != nil && !errors.Is(err, ErrObjectNotFound) {
			return fmt.Errorf("removing stored file %q: %w", *img.StoredFile, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.cache.DeleteImageStatus(ctx, id); err != nil {
		logger.Warnf(ctx, "failed deleting cached status for image #%s: %v", id, err)
	}
	return nil
}
