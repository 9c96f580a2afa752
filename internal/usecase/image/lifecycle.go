package image

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
)

// lifecycle owns every status transition of an image record:
// pending -> processing -> completed | failed.
// Transitions are compare-and-swap updates, so a lost race surfaces as
// ErrAlreadyClaimed instead of overwriting another worker's outcome.
type lifecycle struct {
	repo   port.ImageRepository
	cache  port.Cache
	events port.EventPublisher
	now    func() time.Time
}

func newLifecycle(repo port.ImageRepository, cache port.Cache, events port.EventPublisher) *lifecycle {
	return &lifecycle{repo: repo, cache: cache, events: events, now: time.Now}
}

func (l *lifecycle) claim(ctx context.Context, img *model.Image) error {
	next := *img
	next.Status = model.ImageStatusProcessing
	return l.transition(ctx, img, &next, model.ImageStatusPending)
}

func (l *lifecycle) complete(ctx context.Context, img *model.Image, storedFile string, meta model.Metadata) error {
	next := *img
	next.Status = model.ImageStatusCompleted
	next.StoredFile = &storedFile
	next.Metadata = meta
	next.StagedPath = nil
	next.FailureMessage = nil
	if err := l.transition(ctx, img, &next, model.ImageStatusProcessing); err != nil {
		return err
	}
	l.publish(ctx, img)
	return nil
}

func (l *lifecycle) fail(ctx context.Context, img *model.Image, reason string) error {
	next := *img
	next.Status = model.ImageStatusFailed
	next.StoredFile = nil
	next.StagedPath = nil
	next.FailureMessage = &reason
	if err := l.transition(ctx, img, &next, model.ImageStatusProcessing); err != nil {
		return err
	}
	l.publish(ctx, img)
	return nil
}

func (l *lifecycle) transition(ctx context.Context, img, next *model.Image, expected model.ImageStatus) error {
	ok, err := l.repo.ConditionalUpdate(ctx, next, expected)
	if err != nil {
		return fmt.Errorf("%w: moving image %q from %s to %s: %w", ErrTransientIO, img.ID, expected, next.Status, err)
	}
	if !ok {
		return fmt.Errorf("%w: image %q is no longer %s", ErrAlreadyClaimed, img.ID, expected)
	}
	*img = *next

	if err := l.cache.DeleteImageStatus(ctx, img.ID); err != nil {
		logger.Warnf(ctx, "failed deleting cached status for image #%s: %v", img.ID, err)
	}
	return nil
}

func (l *lifecycle) publish(ctx context.Context, img *model.Image) {
	e := port.ImageProcessedEvent{
		ID:     img.ID,
		Status: string(img.Status),
		At:     l.now().UTC(),
	}
	if img.StoredFile != nil {
		e.StoredFile = *img.StoredFile
	}
	if img.FailureMessage != nil {
		e.Error = *img.FailureMessage
	}
	if err := l.events.PublishImageProcessed(ctx, e); err != nil {
		logger.Warnf(ctx, "failed publishing processed event for image #%s: %v", img.ID, err)
	}
}
