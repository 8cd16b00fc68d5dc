package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/havenhouse/hms/internal/feed"
	"github.com/havenhouse/hms/internal/model"
)

// FeedSubscription adapts a Kafka consumer group to the feed's Subscription
// interface. The notifier publishes a NotificationChange after every row it
// writes; this consumer turns those into feed events.
type FeedSubscription struct {
	topic         string
	consumerGroup sarama.ConsumerGroup
	log           *slog.Logger

	events chan feed.Event
	cancel context.CancelFunc
	done   chan struct{}
}

func NewFeedSubscription(topic string, consumerGroup sarama.ConsumerGroup, log *slog.Logger) *FeedSubscription {
	return &FeedSubscription{
		topic:         topic,
		consumerGroup: consumerGroup,
		log:           log,
		events:        make(chan feed.Event, 64),
		done:          make(chan struct{}),
	}
}

// Start begins consuming in the background. It blocks only until the
// consumer loop is launched.
func (s *FeedSubscription) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		defer close(s.done)
		defer close(s.events)

		s.log.Info("Feed subscription started", slog.String("topic", s.topic))

		backoff := 1 * time.Second
		for {
			err := s.consumerGroup.Consume(ctx, []string{s.topic}, s)
			if err != nil {
				s.log.Error("Error consuming changes", slog.Any("error", err))

				if errors.Is(err, sarama.ErrClosedConsumerGroup) || ctx.Err() != nil {
					return
				}

				time.Sleep(backoff)
				if backoff < 30*time.Second {
					backoff *= 2
				}
				continue
			}

			if ctx.Err() != nil {
				s.log.Info("Context cancelled, stopping feed subscription")
				return
			}
		}
	}()
}

// Events returns the stream of feed events. The channel closes when the
// subscription stops.
func (s *FeedSubscription) Events() <-chan feed.Event { return s.events }

// Close stops consumption and closes the underlying consumer group.
func (s *FeedSubscription) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
	return s.consumerGroup.Close()
}

// Setup is called once when a new consumer session starts.
func (s *FeedSubscription) Setup(session sarama.ConsumerGroupSession) error {
	for topic, partitions := range session.Claims() {
		s.log.Info("Partition assignment",
			slog.String("topic", topic),
			slog.Any("partitions", partitions),
		)
	}
	return nil
}

// Cleanup is called once when the consumer session ends.
func (s *FeedSubscription) Cleanup(_ sarama.ConsumerGroupSession) error {
	s.log.Info("Feed subscription session cleanup complete")
	return nil
}

// ConsumeClaim decodes change messages and forwards them as feed events.
func (s *FeedSubscription) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var change model.NotificationChange
		if err := json.Unmarshal(message.Value, &change); err != nil {
			s.log.Error("Failed to decode change message", slog.Any("error", err))
			// skip the gibberish messages
			session.MarkMessage(message, "")
			continue
		}

		ev := feed.Event{Notification: change.Notification}
		switch change.Kind {
		case model.ChangeInsert:
			ev.Kind = feed.EventInsert
		case model.ChangeUpdate:
			ev.Kind = feed.EventUpdate
		case model.ChangeDelete:
			ev.Kind = feed.EventDelete
		default:
			s.log.Warn("Unknown change kind", slog.String("kind", change.Kind))
			session.MarkMessage(message, "")
			continue
		}

		select {
		case s.events <- ev:
		case <-session.Context().Done():
			return nil
		}

		session.MarkMessage(message, "")
	}
	return nil
}
