package dbpublisher

import (
	"context"
	"encoding/json"

	commandv1 "github.com/loopspell2/exchange/internal/domain/command/v1"
	"github.com/loopspell2/exchange/pkg/config"
	"github.com/loopspell2/exchange/pkg/errors"
	"github.com/loopspell2/exchange/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher writes order updates and trades to the persistence queue consumed
// by the database processor.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a Kafka publisher for the persistence queue. It
// returns an implementation of the DbPublisher interface.
func NewPublisher(cfg config.KafkaConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// Publish writes one event to the persistence queue.
func (p *Publisher) Publish(ctx context.Context, msg commandv1.DbMessage) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if err := p.kafkaWriter.WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "type", Value: string(msg.Type)},
		)
		return errors.NewErrorDetails(err.Error(), string(errors.KafkaPublishError), "")
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
