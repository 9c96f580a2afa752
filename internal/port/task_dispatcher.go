package port

import (
	"context"

	"github.com/fhuszti/images-ms-go/internal/uuid"
)

// ProcessTicket is the claim ticket handed to the job queue after an upload
// has been accepted.
type ProcessTicket struct {
	ID           uuid.UUID
	StagedPath   string
	OriginalName string
}

// TaskDispatcher enqueues asynchronous image work.
type TaskDispatcher interface {
	EnqueueProcessImage(ctx context.Context, t ProcessTicket) error
	EnqueueFetchImage(ctx context.Context, id uuid.UUID, url string) error
}
