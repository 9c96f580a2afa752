package event

import (
	"context"
	"fmt"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
)

const (
	BusNATS  = "nats"
	BusKafka = "kafka"
)

// NewPublisher picks the publisher for bus; an empty bus yields the noop one.
func NewPublisher(bus, natsURL string, kafkaBrokers []string, topic string) (port.EventPublisher, error) {
	ctx := context.Background()
	switch bus {
	case "":
		logger.Info(ctx, "no event bus configured, completion events are dropped")
		return NewNoopPublisher(), nil
	case BusNATS:
		p, err := NewNATSPublisher(natsURL, topic)
		if err != nil {
			return nil, err
		}
		logger.Infof(ctx, "✅  publishing completion events on NATS subject %q", topic)
		return p, nil
	case BusKafka:
		if len(kafkaBrokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS is required when EVENT_BUS is %q", BusKafka)
		}
		logger.Infof(ctx, "✅  publishing completion events on Kafka topic %q", topic)
		return NewKafkaPublisher(kafkaBrokers, topic), nil
	default:
		return nil, fmt.Errorf("unknown event bus %q", bus)
	}
}
