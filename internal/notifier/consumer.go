package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/havenhouse/hms/internal/model"
)

// Consumer reads notification events from Kafka and hands them to the
// notifier service.
type Consumer struct {
	topic         string
	svc           Service
	consumerGroup sarama.ConsumerGroup
	log           *slog.Logger
}

func NewConsumer(
	topic string,
	consumerGroup sarama.ConsumerGroup,
	svc Service,
	log *slog.Logger,
) *Consumer {
	return &Consumer{
		topic:         topic,
		consumerGroup: consumerGroup,
		svc:           svc,
		log:           log,
	}
}

// Start runs the consumer loop until the context is cancelled or the
// consumer group is closed.
func (c *Consumer) Start(ctx context.Context) error {
	defer func() {
		if err := c.consumerGroup.Close(); err != nil {
			c.log.Warn("Failed to close consumer group", slog.Any("error", err))
		}
	}()

	c.log.Info("Kafka consumer started", slog.String("topic", c.topic))

	backoff := 1 * time.Second
	for {
		err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
		if err != nil {
			c.log.Error("Error consuming messages", slog.Any("error", err))

			if errors.Is(err, sarama.ErrClosedConsumerGroup) || ctx.Err() != nil {
				return err
			}

			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}

		if ctx.Err() != nil {
			c.log.Info("Context cancelled, stopping consumer")
			return ctx.Err()
		}
	}
}

// Setup is called once when a new consumer session starts.
func (c *Consumer) Setup(session sarama.ConsumerGroupSession) error {
	for topic, partitions := range session.Claims() {
		c.log.Info("Partition assignment",
			slog.String("topic", topic),
			slog.Any("partitions", partitions),
		)
	}
	return nil
}

// Cleanup is called once when the consumer session ends.
func (c *Consumer) Cleanup(_ sarama.ConsumerGroupSession) error {
	c.log.Info("Kafka session cleanup complete")
	return nil
}

// ConsumeClaim processes messages from one assigned partition.
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		c.log.Debug("Message received",
			slog.String("topic", message.Topic),
			slog.Int("partition", int(message.Partition)),
			slog.Int64("offset", message.Offset),
		)

		var event model.NotificationEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.log.Error("Failed to decode message", slog.Any("error", err))
			// skip the gibberish messages
			session.MarkMessage(message, "")
			continue
		}

		if err := c.svc.Ingest(session.Context(), event); err != nil {
			c.log.Error("Event handling failed", slog.Any("error", err))
			continue
		}

		session.MarkMessage(message, "")
	}
	return nil
}
