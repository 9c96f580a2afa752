package event

import (
	"context"

	"github.com/fhuszti/images-ms-go/internal/port"
)

type noopPublisher struct{}

// NewNoopPublisher drops every event. Used when no bus is configured.
func NewNoopPublisher() port.EventPublisher { return noopPublisher{} }

func (noopPublisher) PublishImageProcessed(context.Context, port.ImageProcessedEvent) error {
	return nil
}

func (noopPublisher) Close() error { return nil }
