package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/pkg/logger"
)

// LoggingHandler is a message handler that logs the outbox message
type LoggingHandler struct {
	logger logger.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger logger.Logger) *LoggingHandler {
	return &LoggingHandler{
		logger: logger,
	}
}

// HandleMessage handles the outbox message by logging it
func (h *LoggingHandler) HandleMessage(ctx context.Context, message *models.OutboxMessage) error {
	var event models.OutboxMessageEvent

	if err := json.Unmarshal(message.Payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal outbox message: %w", err)
	}

	h.logger.Info("Domain event",
		"messageID", message.ID,
		"eventType", message.EventType,
		"aggregateType", message.AggregateType,
		"aggregateID", message.AggregateID,
		"eventID", event.EventID,
		"occurredAt", event.OccurredAt)

	return nil
}

// RegisterAll registers handler for every event type the services emit
func RegisterAll(p *Processor, handler MessageHandler) {
	for _, eventType := range models.EventTypes {
		p.RegisterHandler(eventType, handler)
	}
}
