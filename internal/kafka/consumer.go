package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/gcolon75/Project-Valine-sub011/internal/events"
)

type Consumer struct {
	reader *kafka.Reader
	log    *zap.SugaredLogger
}

func NewConsumer(brokers []string, topic, groupID string, log *zap.SugaredLogger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, log: log}
}

// Run delivers decoded events to handle until ctx is cancelled. Undecodable
// messages are logged and skipped.
func (c *Consumer) Run(ctx context.Context, handle func(context.Context, events.Event)) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info("kafka consumer stopping")
				return
			}
			c.log.Errorw("kafka read error", "err", err)
			time.Sleep(time.Second)
			continue
		}
		var ev events.Event
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.log.Errorw("bad event payload", "err", err)
			continue
		}
		handle(ctx, ev)
	}
}

func (c *Consumer) Close() error { return c.reader.Close() }
