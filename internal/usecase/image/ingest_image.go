package image

import (
	"context"
	"fmt"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
)

type imageIngesterSrv struct {
	validator  port.ImageValidator
	stager     port.Stager
	repo       port.ImageRepository
	dispatcher port.TaskDispatcher
	genID      port.UUIDGen
}

// compile-time check: *imageIngesterSrv must satisfy port.ImageIngester
var _ port.ImageIngester = (*imageIngesterSrv)(nil)

func NewImageIngester(v port.ImageValidator, st port.Stager, repo port.ImageRepository, d port.TaskDispatcher, genID port.UUIDGen) port.ImageIngester {
	return &imageIngesterSrv{validator: v, stager: st, repo: repo, dispatcher: d, genID: genID}
}

func (s *imageIngesterSrv) IngestImage(ctx context.Context, in port.IngestImageInput) (port.IngestImageOutput, error) {
	name := cleanName(in.OriginalName)

	violations, err := s.validator.Validate(in.Reader, in.Size)
	if err != nil {
		return port.IngestImageOutput{}, err
	}
	if len(violations) > 0 {
		return port.IngestImageOutput{}, &ValidationError{Violations: violations}
	}

	stagedPath, err := s.stager.Stage(in.Reader, name)
	if err != nil {
		return port.IngestImageOutput{}, fmt.Errorf("%w: staging upload %q: %w", ErrTransientIO, name, err)
	}

	img := &model.Image{
		ID:           s.genID(),
		Status:       model.ImageStatusPending,
		OriginalName: name,
		StagedPath:   &stagedPath,
	}
	if err := s.repo.Create(ctx, img); err != nil {
		// the upload was never accepted, so nothing else will reclaim the staged bytes
		if rmErr := s.stager.Remove(stagedPath); rmErr != nil {
			logger.Warnf(ctx, "failed removing staged upload %q: %v", stagedPath, rmErr)
		}
		return port.IngestImageOutput{}, fmt.Errorf("creating record for upload %q: %w", name, err)
	}

	out := port.IngestImageOutput{ID: img.ID, Status: img.Status, StagedPath: stagedPath}

	ticket := port.ProcessTicket{ID: img.ID, StagedPath: stagedPath, OriginalName: name}
	if err := s.dispatcher.EnqueueProcessImage(ctx, ticket); err != nil {
		// accepted all the same: the record stays pending with its staged path
		// and the backlog requeuer enqueues it later
		logger.Warnf(ctx, "⚠️  image #%s accepted but not queued, left for the backlog: %v", img.ID, err)
		return out, nil
	}

	logger.Infof(ctx, "image #%s staged at %q and queued for processing", img.ID, stagedPath)
	return out, nil
}
