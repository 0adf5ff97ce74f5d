package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
)

// Consumer reads a set of topics as a member of a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	log    *slog.Logger
}

func NewConsumer(brokers []string, groupID string, topics []string, log *slog.Logger) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if log == nil {
		log = slog.Default()
	}
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Consumer{reader: r, log: log}, nil
}

// Consume hands every message to handler until ctx is cancelled. Offsets
// are committed after handling; a message the handler rejects is logged and
// skipped so one bad record cannot stall the partition.
func (c *Consumer) Consume(ctx context.Context, handler func(key, value []byte) error) error {
	c.log.Info("waiting for events", "topics", c.reader.Config().GroupTopics, "group", c.reader.Config().GroupID)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("kafka: fetch failed: %w", err)
		}
		if err := handler(msg.Key, msg.Value); err != nil {
			c.log.Error("event handling failed", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "error", err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("kafka: commit failed: %w", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
