package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/nats-io/nats.go"
)

type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

type natsPublisher struct {
	nc      natsConn
	subject string
}

var _ port.EventPublisher = (*natsPublisher)(nil)

// NewNATSPublisher connects to url and publishes on subject.
func NewNATSPublisher(url, subject string) (port.EventPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("images-ms"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %q: %w", url, err)
	}
	return &natsPublisher{nc: nc, subject: subject}, nil
}

func (p *natsPublisher) PublishImageProcessed(ctx context.Context, e port.ImageProcessedEvent) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, b)
}

func (p *natsPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
