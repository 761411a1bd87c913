package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// KafkaPublisher mirrors audit events onto a topic for downstream consumers.
// Publishing is fire-and-forget; a broker outage costs the mirror, not the
// durable store.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	log    *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic, log: log}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		p.log.Error("marshal audit event", zap.String("event_id", e.ID), zap.Error(err))
		return
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(strconv.FormatInt(e.UserID, 10)),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.log.Warn("audit publish failed", zap.String("event_id", e.ID), zap.Error(err))
		}
	})
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
