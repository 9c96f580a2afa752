package image

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fhuszti/images-ms-go/internal/api_context"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
)

type imageProcessorSrv struct {
	repo   port.ImageRepository
	stager port.Stager
	tc     port.Transcoder
	store  imageStore
	lc     *lifecycle
}

// compile-time check: *imageProcessorSrv must satisfy port.ImageProcessor
var _ port.ImageProcessor = (*imageProcessorSrv)(nil)

func NewImageProcessor(
	repo port.ImageRepository,
	stager port.Stager,
	tc port.Transcoder,
	strg port.Storage,
	bucket string,
	cache port.Cache,
	events port.EventPublisher,
) port.ImageProcessor {
	return &imageProcessorSrv{
		repo:   repo,
		stager: stager,
		tc:     tc,
		store:  imageStore{strg: strg, bucket: bucket},
		lc:     newLifecycle(repo, cache, events),
	}
}

// ProcessImage runs one processing attempt for a staged upload.
//
// A returned error means nothing was claimed (unknown record, duplicate
// delivery or a storage error before the claim) and the staged upload was
// left alone. Once the record is claimed every outcome is reported through
// the output, the record ends up completed or failed and the staged upload
// is removed.
func (s *imageProcessorSrv) ProcessImage(ctx context.Context, in port.ProcessImageInput) (port.ProcessImageOutput, error) {
	ctx = api_context.WithID(ctx, in.ID)
	out := port.ProcessImageOutput{ID: in.ID}

	img, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		} else {
			err = fmt.Errorf("%w: loading image %q: %w", ErrTransientIO, in.ID, err)
		}
		out.Error = err.Error()
		return out, err
	}
	out.Status = img.Status

	if err := s.lc.claim(ctx, img); err != nil {
		out.Error = err.Error()
		return out, err
	}
	out.Status = img.Status
	defer s.cleanup(ctx, in.StagedPath)

	err = s.transcodeAndStore(ctx, img, in)
	if err != nil {
		logger.Errorf(ctx, "❌  Processing image #%s failed: %v", img.ID, err)
		if fErr := s.lc.fail(ctx, img, err.Error()); fErr != nil {
			logger.Errorf(ctx, "❌  Marking image #%s as failed: %v", img.ID, fErr)
		}
		out.Status = model.ImageStatusFailed
		out.Error = err.Error()
		return out, nil
	}

	out.Status = img.Status
	return out, nil
}

func (s *imageProcessorSrv) transcodeAndStore(ctx context.Context, img *model.Image, in port.ProcessImageInput) error {
	src, err := s.stager.Open(in.StagedPath)
	if err != nil {
		return fmt.Errorf("%w: opening staged upload %q: %w", ErrTransientIO, in.StagedPath, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warnf(ctx, "failed to close staged upload %q: %v", in.StagedPath, err)
		}
	}()

	res, err := s.tc.Transcode(src)
	if err != nil {
		return fmt.Errorf("transcoding %q: %w", in.OriginalName, err)
	}

	key, meta, err := s.store.save(ctx, img.ID, s.tc.Filename(in.OriginalName), res)
	if err != nil {
		return err
	}

	if err := s.lc.complete(ctx, img, key, meta); err != nil {
		s.store.discard(ctx, key)
		return err
	}
	return nil
}

// cleanup removes the staged upload. A failure here never changes the
// outcome of the attempt.
func (s *imageProcessorSrv) cleanup(ctx context.Context, stagedPath string) {
	if err := s.stager.Remove(stagedPath); err != nil {
		logger.Warnf(ctx, "⚠️  %v: %q: %v", ErrCleanup, stagedPath, err)
	}
}
