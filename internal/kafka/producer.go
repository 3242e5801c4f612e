package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/gcolon75/Project-Valine-sub011/internal/events"
)

type Producer struct {
	writer *kafka.Writer
	log    *zap.SugaredLogger
}

func NewProducer(brokers []string, topic string, log *zap.SugaredLogger) *Producer {
	// synchronous writes: WriteMessages only returns once all replicas ack,
	// so the retry loop below sees real delivery errors
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
	return &Producer{writer: writer, log: log}
}

// Publish writes an event keyed by actor so a user's events stay ordered
// within a partition.
func (p *Producer) Publish(ctx context.Context, ev events.Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.ActorID),
		Value: data,
	}
	for i := 0; i < 3; i++ {
		if err = p.writer.WriteMessages(ctx, msg); err != nil {
			p.log.Warnw("kafka publish failed", "attempt", i+1, "kind", ev.Kind, "err", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		return nil
	}
	return fmt.Errorf("publish %s after retries: %w", ev.Kind, err)
}

func (p *Producer) Close() error { return p.writer.Close() }
