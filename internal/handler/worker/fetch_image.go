package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/images-ms-go/internal/api_context"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/task"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
	"github.com/fhuszti/images-ms-go/internal/uuid"
	"github.com/hibiken/asynq"
)

// FetchImageHandler handles an image:fetch task.
func FetchImageHandler(ctx context.Context, p task.FetchImagePayload, svc port.URLImporter, report FailureReporter) error {
	id, err := uuid.Parse(p.ImageID)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid image ID %q: %v", p.ImageID, err)
		return fmt.Errorf("invalid image id %q: %w", p.ImageID, asynq.SkipRetry)
	}
	ctx = api_context.WithID(ctx, id)

	res := svc.FetchAndStore(ctx, port.FetchImageInput{ID: id, URL: p.URL})
	if res.OK {
		logger.Infof(ctx, "✅  Successfully imported image #%s from %q", id, p.URL)
		return nil
	}

	switch {
	case res.Status == model.ImageStatusFailed:
		// the record carries the failure; a retry would find it terminal
		report(ctx, fmt.Errorf("importing image %s from %q: %w", id, p.URL, res.Err))
		return nil
	case errors.Is(res.Err, imageUC.ErrAlreadyClaimed):
		logger.Infof(ctx, "image #%s already claimed, skipping duplicate delivery", id)
		return nil
	case errors.Is(res.Err, imageUC.ErrNotFound):
		logger.Warnf(ctx, "image #%s no longer exists, dropping task", id)
		return nil
	}

	logger.Errorf(ctx, "❌  Failed to import image #%s: %v", id, res.Err)
	if res.Err == nil {
		return fmt.Errorf("importing image %s from %q did not succeed", id, p.URL)
	}
	return res.Err
}
