// Package events implements alert fan-out to the downstream notification
// pipeline over Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/cscx/riskwatch/internal/application"
	"github.com/cscx/riskwatch/internal/config"
	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/pkg/logger"
)

// KafkaAlertPublisher writes raised alerts to the alert topic. Messages are
// keyed by customer id so one customer's alerts stay ordered within a
// partition.
type KafkaAlertPublisher struct {
	writer *kafka.Writer
	logger logger.Logger
}

// NewKafkaAlertPublisher creates a publisher for the configured topic.
func NewKafkaAlertPublisher(cfg *config.KafkaConfig, log logger.Logger) application.AlertPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.AlertTopic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: cfg.WriteTimeout,
		BatchTimeout: cfg.BatchTimeout,
		BatchSize:    cfg.BatchSize,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
	}
	return &KafkaAlertPublisher{
		writer: writer,
		logger: log.WithComponent("kafka_publisher"),
	}
}

func (p *KafkaAlertPublisher) PublishAlert(ctx context.Context, alert *models.RiskAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encode alert event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(alert.CustomerID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("write alert event: %w", err)
	}
	p.logger.Debug(ctx, "alert event published", logger.Fields{
		"alert_id": alert.ID.String(),
		"topic":    p.writer.Topic,
	})
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaAlertPublisher) Close() error {
	return p.writer.Close()
}
