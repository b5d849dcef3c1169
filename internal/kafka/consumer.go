package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Handler processes one message. Its error is logged against the topic; the
// message is committed either way.
type Handler func(context.Context, kafka.Message) error

type Consumer struct {
	topic  string
	group  string
	reader messageReader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		topic: topic,
		group: groupID,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Topic() string {
	return c.topic
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads until ctx is done. ReadMessage commits each message for the
// group before the handler runs, so a failed message is logged and skipped
// rather than redelivered. Only a read failure stops the loop.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	log.Printf("kafka: consuming %s as %s", c.topic, c.group)
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("read %s: %w", c.topic, err)
		}

		if err := handler(ctx, msg); err != nil {
			log.Printf("WARNING: kafka: %s partition %d offset %d: handler failed: %v", c.topic, msg.Partition, msg.Offset, err)
		}
	}
}
