package task

import (
	"context"

	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
	"github.com/hibiken/asynq"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type Dispatcher struct {
	client enqueuer
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) EnqueueProcessImage(ctx context.Context, t port.ProcessTicket) error {
	task, err := NewProcessImageTask(ProcessImagePayload{
		ImageID:      t.ID.String(),
		StagedPath:   t.StagedPath,
		OriginalName: t.OriginalName,
	})
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task)
	return err
}

func (d *Dispatcher) EnqueueFetchImage(ctx context.Context, id uuid.UUID, url string) error {
	task, err := NewFetchImageTask(FetchImagePayload{ImageID: id.String(), URL: url})
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task)
	return err
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
