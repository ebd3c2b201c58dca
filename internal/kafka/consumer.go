package kafka

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

type MessageHandler func(context.Context, kafka.Message) error

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads until ctx is canceled. Handler errors are logged and the
// message is skipped; notifications are fire-and-forget.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if err := handler(ctx, msg); err != nil {
			log.Printf("WARNING: handler failed topic=%s partition=%d offset=%d key=%s: %v",
				msg.Topic, msg.Partition, msg.Offset, string(msg.Key), err)
		}
	}
}

// BookingEventHandler decodes each message into a BookingEvent before
// handing it to handle. Undecodable messages are logged and dropped.
func BookingEventHandler(handle func(context.Context, BookingEvent) error) MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		event, err := DecodeBookingEvent(msg)
		if err != nil {
			log.Printf("WARNING: %v", err)
			return nil
		}
		return handle(ctx, event)
	}
}
