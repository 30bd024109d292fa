package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/restroom-finder/internal/config"
	"github.com/couchcryptid/restroom-finder/internal/domain"
)

// Writer produces lookup records to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured lookup topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one settled lookup, keyed by lookup ID.
func (w *Writer) Publish(ctx context.Context, result domain.QueryResult) error {
	msg, err := serializeToMessage(result)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write lookup %s: %w", result.LookupID, err)
	}
	w.logger.Debug("lookup published", "lookup_id", result.LookupID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a QueryResult into a Kafka message.
func serializeToMessage(result domain.QueryResult) (kafkago.Message, error) {
	data, err := json.Marshal(domain.NewLookupRecord(result))
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize lookup: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(result.LookupID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(result.Outcome())},
			{Key: "accessed_at", Value: []byte(result.AccessedAt.Format(time.RFC3339))},
		},
	}, nil
}
