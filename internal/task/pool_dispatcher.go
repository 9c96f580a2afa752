package task

import (
	"context"
	"time"

	"github.com/fhuszti/images-ms-go/internal/api_context"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

// PoolDispatcher runs image work in-process when no Redis is configured.
// Jobs outlive the request that enqueued them but stop when base is cancelled.
type PoolDispatcher struct {
	base      context.Context
	pool      *WorkerPool
	processor port.ImageProcessor
	importer  port.URLImporter
	timeout   time.Duration
}

var _ port.TaskDispatcher = (*PoolDispatcher)(nil)

func NewPoolDispatcher(base context.Context, pool *WorkerPool, processor port.ImageProcessor, importer port.URLImporter, timeout time.Duration) *PoolDispatcher {
	return &PoolDispatcher{
		base:      base,
		pool:      pool,
		processor: processor,
		importer:  importer,
		timeout:   timeout,
	}
}

func (d *PoolDispatcher) EnqueueProcessImage(ctx context.Context, t port.ProcessTicket) error {
	return d.pool.Submit(d.base, func(ctx context.Context) {
		ctx, cancel := d.jobContext(ctx, t.ID)
		defer cancel()

		out, err := d.processor.ProcessImage(ctx, port.ProcessImageInput{
			ID:           t.ID,
			StagedPath:   t.StagedPath,
			OriginalName: t.OriginalName,
		})
		if err != nil {
			logger.Warnf(ctx, "in-process image processing did not run: %v", err)
			return
		}
		logger.Debugf(ctx, "in-process image processing ended at status %q", out.Status)
	})
}

func (d *PoolDispatcher) EnqueueFetchImage(ctx context.Context, id uuid.UUID, url string) error {
	return d.pool.Submit(d.base, func(ctx context.Context) {
		ctx, cancel := d.jobContext(ctx, id)
		defer cancel()

		res := d.importer.FetchAndStore(ctx, port.FetchImageInput{ID: id, URL: url})
		if !res.OK {
			logger.Warnf(ctx, "in-process import of %q failed: %v", url, res.Err)
		}
	})
}

func (d *PoolDispatcher) jobContext(ctx context.Context, id uuid.UUID) (context.Context, context.CancelFunc) {
	ctx = api_context.WithID(ctx, id)
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}
