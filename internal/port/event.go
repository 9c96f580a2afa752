package port

import (
	"context"
	"time"

	"github.com/fhuszti/images-ms-go/internal/uuid"
)

// ImageProcessedEvent is emitted once a record reaches a terminal status.
type ImageProcessedEvent struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	StoredFile string    `json:"stored_file,omitempty"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// EventPublisher broadcasts image lifecycle events.
type EventPublisher interface {
	PublishImageProcessed(ctx context.Context, e ImageProcessedEvent) error
	Close() error
}
