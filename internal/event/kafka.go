package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	w messageWriter
}

var _ port.EventPublisher = (*kafkaPublisher)(nil)

// NewKafkaPublisher writes events to topic, keyed by image id so every
// event of one image lands on the same partition.
func NewKafkaPublisher(brokers []string, topic string) port.EventPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            5,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &kafkaPublisher{w: w}
}

func (p *kafkaPublisher) PublishImageProcessed(ctx context.Context, e port.ImageProcessedEvent) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.ID.String()),
		Value: b,
		Time:  e.At,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.w.Close()
}
