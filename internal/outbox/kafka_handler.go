package outbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/pkg/circuitbreaker"
	"github.com/vaidashi/backoffice-api/pkg/logger"
	"github.com/vaidashi/backoffice-api/pkg/retry"
)

// Publisher sends a keyed payload to a topic
type Publisher interface {
	SendMessage(ctx context.Context, topic, key string, value []byte, headers map[string]string) error
}

// KafkaHandler publishes outbox messages to Kafka
type KafkaHandler struct {
	logger    logger.Logger
	publisher Publisher
	topic     string
	breaker   *circuitbreaker.CircuitBreaker
	retry     retry.RetryConfig
}

// NewKafkaHandler creates a new KafkaHandler. Sends are retried with backoff
// and guarded by breaker so a dead broker fails fast.
func NewKafkaHandler(publisher Publisher, topic string, breaker *circuitbreaker.CircuitBreaker, retryCfg retry.RetryConfig, logger logger.Logger) *KafkaHandler {
	if retryCfg.Logger == nil {
		retryCfg.Logger = logger
	}
	if retryCfg.ShouldRetry == nil {
		retryCfg.ShouldRetry = func(err error) bool { return !errors.Is(err, circuitbreaker.ErrOpen) }
	}
	return &KafkaHandler{
		publisher: publisher,
		topic:     topic,
		breaker:   breaker,
		retry:     retryCfg,
		logger:    logger,
	}
}

// HandleMessage publishes the message payload keyed by aggregate ID
func (h *KafkaHandler) HandleMessage(ctx context.Context, message *models.OutboxMessage) error {
	key := message.AggregateID
	headers := map[string]string{
		"event_type":     message.EventType,
		"aggregate_type": message.AggregateType,
	}

	h.logger.Info("Publishing message to Kafka",
		"topic", h.topic,
		"messageID", message.ID,
		"aggregateID", message.AggregateID,
		"eventType", message.EventType)

	err := retry.Retry(ctx, func(ctx context.Context) error {
		return h.breaker.Execute(func() error {
			return h.publisher.SendMessage(ctx, h.topic, key, message.Payload, headers)
		})
	}, h.retry)
	if err != nil {
		h.logger.Error("Failed to publish message to Kafka",
			"error", err,
			"messageID", message.ID,
			"aggregateID", message.AggregateID,
			"breaker", h.breaker.GetState().String())
		return fmt.Errorf("failed to publish message to Kafka: %w", err)
	}

	h.logger.Info("Successfully published message to Kafka",
		"messageID", message.ID,
		"aggregateID", message.AggregateID)

	return nil
}
