// Package kafka publishes audit entries to a broker topic so off-site
// dashboards can follow moderation activity in near real time. Publishing
// is optional: the process runs without it when no brokers are configured.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Naminiges/USU-Peduli/internal/domain"
)

// Publisher produces audit events to a Kafka topic.
// It implements moderation.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the audit topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes one audit entry and writes it to the topic.
func (p *Publisher) Publish(ctx context.Context, entry domain.AuditEntry) error {
	msg, err := serializeEntry(entry)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	p.logger.Debug("audit event published", "action", entry.Action, "id", entry.ID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeEntry marshals an audit entry into a Kafka message.
func serializeEntry(entry domain.AuditEntry) (kafkago.Message, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize audit entry: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(entry.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "action", Value: []byte(entry.Action)},
			{Key: "recorded_at", Value: []byte(entry.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
