package image

import (
	"context"
	"fmt"

	"github.com/fhuszti/images-ms-go/internal/api_context"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
)

type backlogRequeuerSrv struct {
	repo   port.ImageRepository
	stager port.Stager
	tasks  port.TaskDispatcher
	lc     *lifecycle
}

// compile-time check: *backlogRequeuerSrv must satisfy port.BacklogRequeuer
var _ port.BacklogRequeuer = (*backlogRequeuerSrv)(nil)

func NewBacklogRequeuer(repo port.ImageRepository, stager port.Stager, tasks port.TaskDispatcher, cache port.Cache, events port.EventPublisher) port.BacklogRequeuer {
	return &backlogRequeuerSrv{
		repo:   repo,
		stager: stager,
		tasks:  tasks,
		lc:     newLifecycle(repo, cache, events),
	}
}

// RequeueBacklog re-enqueues pending records whose task was lost and fails
// records whose worker died while they were processing.
func (s *backlogRequeuerSrv) RequeueBacklog(ctx context.Context, in port.RequeueBacklogInput) (port.RequeueBacklogOutput, error) {
	var out port.RequeueBacklogOutput

	pending, err := s.repo.ListByStatusBefore(ctx, model.ImageStatusPending, in.PendingBefore)
	if err != nil {
		return out, fmt.Errorf("listing stale pending images: %w", err)
	}
	if len(pending) == 0 {
		logger.Info(ctx, "no pending images found to requeue")
	}
	for _, img := range pending {
		requeued, err := s.requeuePending(api_context.WithID(ctx, img.ID), img)
		if err != nil {
			logger.Warnf(ctx, "failed to recover pending image #%s: %v", img.ID, err)
			continue
		}
		if requeued {
			out.Requeued++
		} else {
			out.Failed++
		}
	}

	stuck, err := s.repo.ListByStatusBefore(ctx, model.ImageStatusProcessing, in.ProcessingBefore)
	if err != nil {
		return out, fmt.Errorf("listing stuck processing images: %w", err)
	}
	if len(stuck) == 0 {
		logger.Info(ctx, "no stuck processing images found")
	}
	for _, img := range stuck {
		ictx := api_context.WithID(ctx, img.ID)
		stagedPath := img.StagedPath
		if err := s.lc.fail(ictx, img, "processing did not finish in time"); err != nil {
			logger.Warnf(ictx, "failed to mark stuck image #%s as failed: %v", img.ID, err)
			continue
		}
		out.Failed++
		if stagedPath != nil {
			if err := s.stager.Remove(*stagedPath); err != nil {
				logger.Warnf(ictx, "⚠️  %v: %q: %v", ErrCleanup, *stagedPath, err)
			}
		}
	}

	return out, nil
}

// requeuePending reports whether img was enqueued again. Records that can no
// longer be processed are claimed and failed instead.
func (s *backlogRequeuerSrv) requeuePending(ctx context.Context, img *model.Image) (bool, error) {
	if img.SourceURL != nil {
		logger.Infof(ctx, "requeueing import of image #%s", img.ID)
		return true, s.tasks.EnqueueFetchImage(ctx, img.ID, *img.SourceURL)
	}

	if img.StagedPath != nil {
		exists, err := s.stager.Exists(*img.StagedPath)
		if err != nil {
			return false, err
		}
		if exists {
			logger.Infof(ctx, "requeueing processing of image #%s", img.ID)
			return true, s.tasks.EnqueueProcessImage(ctx, port.ProcessTicket{
				ID:           img.ID,
				StagedPath:   *img.StagedPath,
				OriginalName: img.OriginalName,
			})
		}
	}

	if err := s.lc.claim(ctx, img); err != nil {
		return false, err
	}
	return false, s.lc.fail(ctx, img, "staged upload is missing")
}
