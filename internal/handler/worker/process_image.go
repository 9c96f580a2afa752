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

// ProcessImageHandler handles an image:process task.
// Only errors worth a redelivery are returned: duplicates, unknown records
// and attempts that already failed the record are acknowledged.
func ProcessImageHandler(ctx context.Context, p task.ProcessImagePayload, svc port.ImageProcessor, report FailureReporter) error {
	id, err := uuid.Parse(p.ImageID)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid image ID %q: %v", p.ImageID, err)
		return fmt.Errorf("invalid image id %q: %w", p.ImageID, asynq.SkipRetry)
	}
	ctx = api_context.WithID(ctx, id)

	out, err := svc.ProcessImage(ctx, port.ProcessImageInput{
		ID:           id,
		StagedPath:   p.StagedPath,
		OriginalName: p.OriginalName,
	})
	if err != nil {
		switch {
		case errors.Is(err, imageUC.ErrAlreadyClaimed):
			logger.Infof(ctx, "image #%s already claimed, skipping duplicate delivery", id)
			return nil
		case errors.Is(err, imageUC.ErrNotFound):
			logger.Warnf(ctx, "image #%s no longer exists, dropping task", id)
			return nil
		}
		logger.Errorf(ctx, "❌  Failed to process image #%s: %v", id, err)
		return err
	}

	if out.Status == model.ImageStatusFailed {
		report(ctx, fmt.Errorf("processing image %s: %s", id, out.Error))
		return nil
	}

	logger.Infof(ctx, "✅  Successfully processed image #%s", id)
	return nil
}
