package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// AMQPClient is the part of pkg/rabbitmq.Client used for publishing.
type AMQPClient interface {
	Publish(ctx context.Context, routingKey, messageID string, body []byte) error
	Close() error
}

// RabbitPublisher publishes events to a topic exchange, using the event
// type as routing key.
type RabbitPublisher struct {
	client AMQPClient
}

func NewRabbitPublisher(client AMQPClient) *RabbitPublisher {
	return &RabbitPublisher{client: client}
}

func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	return p.client.Publish(ctx, e.Type, e.ID, body)
}

func (p *RabbitPublisher) Close() error { return p.client.Close() }

// KafkaProducer is the part of pkg/kafka.Producer used for publishing.
type KafkaProducer interface {
	Produce(ctx context.Context, topic, key string, value []byte) error
	Close() error
}

// KafkaPublisher writes events to one topic per aggregate, keyed by the
// aggregate id so related events keep their order.
type KafkaPublisher struct {
	producer KafkaProducer
}

func NewKafkaPublisher(producer KafkaProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	return p.producer.Produce(ctx, Topic(e.Type), e.Key, body)
}

func (p *KafkaPublisher) Close() error { return p.producer.Close() }
