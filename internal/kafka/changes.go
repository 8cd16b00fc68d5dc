package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/havenhouse/hms/internal/model"
)

// ChangeProducer publishes notification change records to the changes topic.
// The notifier announces inserts this way; the API server announces read
// flips so every dashboard session converges.
type ChangeProducer interface {
	Start(ctx context.Context)
	PublishChange(ctx context.Context, change model.NotificationChange) error
	Close(ctx context.Context)
}

type changeProducer struct {
	asyncProducer sarama.AsyncProducer
	topic         string
	log           *slog.Logger
	wg            *sync.WaitGroup
	closeOnce     sync.Once
}

func NewChangeProducer(asyncProducer sarama.AsyncProducer, topic string, log *slog.Logger, wg *sync.WaitGroup) ChangeProducer {
	if asyncProducer == nil || log == nil || wg == nil {
		panic("NewChangeProducer: nil dependencies provided")
	}
	if topic == "" {
		panic("NewChangeProducer: topic must not be empty")
	}
	return &changeProducer{
		asyncProducer: asyncProducer,
		topic:         topic,
		log:           log,
		wg:            wg,
	}
}

func (p *changeProducer) Start(ctx context.Context) {
	p.log.Info("Starting change producer handlers")
	p.wg.Add(2)
	go p.handleSuccess(ctx)
	go p.handleErrors(ctx)
}

func (p *changeProducer) handleSuccess(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case msg, ok := <-p.asyncProducer.Successes():
			if !ok {
				p.log.Info("Change successes channel closed")
				return
			}

			key, _ := msg.Key.Encode()
			p.log.Debug("Change delivered",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("key", string(key)))
		case <-ctx.Done():
			p.log.Info("Change success handler stopped by context")
			return
		}
	}
}

func (p *changeProducer) handleErrors(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case err, ok := <-p.asyncProducer.Errors():
			if !ok {
				p.log.Info("Change errors channel closed")
				return
			}
			p.log.Error("Change delivery failed",
				slog.String("topic", err.Msg.Topic),
				slog.Any("error", err.Err))
		case <-ctx.Done():
			p.log.Info("Change error handler stopped by context")
			return
		}
	}
}

// PublishChange queues a change record, keyed by notification id so changes
// to one notification stay ordered.
func (p *changeProducer) PublishChange(ctx context.Context, change model.NotificationChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		p.log.Error("Failed to marshal change", slog.Any("error", err))
		return fmt.Errorf("failed to marshal change: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(change.Notification.ID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
	}

	select {
	case p.asyncProducer.Input() <- msg:
		return nil
	case <-ctx.Done():
		p.log.Warn("PublishChange cancelled by context",
			slog.String("id", change.Notification.ID))
		return ctx.Err()
	}
}

func (p *changeProducer) Close(_ context.Context) {
	p.closeOnce.Do(func() {
		p.log.Info("Closing change producer...")
		p.asyncProducer.AsyncClose()
		p.wg.Wait()
		p.log.Info("Change producer closed")
	})
}
