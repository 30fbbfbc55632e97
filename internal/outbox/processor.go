package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/repository"
	"github.com/vaidashi/backoffice-api/pkg/logger"
	"github.com/vaidashi/backoffice-api/pkg/metrics"
)

// MessageHandler defines the interface for handling outbox messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, message *models.OutboxMessage) error
}

// Processor is responsible for processing outbox messages
type Processor struct {
	outboxRepo      repository.OutboxRepository
	handlers        map[string][]MessageHandler
	pollingInterval time.Duration
	batchSize       int
	maxRetries      int
	metrics         *metrics.Metrics
	logger          logger.Logger
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	running         bool
	mu              sync.Mutex
}

// ProcessorConfig holds the configuration for the Processor
type ProcessorConfig struct {
	PollingInterval time.Duration
	BatchSize       int
	MaxRetries      int
	// Metrics is optional
	Metrics *metrics.Metrics
}

// NewProcessor creates a new Processor
func NewProcessor(
	outboxRepo repository.OutboxRepository,
	config ProcessorConfig,
	logger logger.Logger,
) *Processor {
	ctx, cancel := context.WithCancel(context.Background())

	if config.PollingInterval <= 0 {
		config.PollingInterval = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 10
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}

	return &Processor{
		outboxRepo:      outboxRepo,
		handlers:        make(map[string][]MessageHandler),
		pollingInterval: config.PollingInterval,
		batchSize:       config.BatchSize,
		maxRetries:      config.MaxRetries,
		metrics:         config.Metrics,
		logger:          logger,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// RegisterHandler adds a handler for a specific event type. Every handler
// registered for a type must succeed for the message to complete.
func (p *Processor) RegisterHandler(eventType string, handler MessageHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[eventType] = append(p.handlers[eventType], handler)
}

// Start starts the outbox processor
func (p *Processor) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	p.running = true
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		p.processOutbox()
	}()

	p.logger.Info("Outbox processor started",
		"pollingInterval", p.pollingInterval,
		"batchSize", p.batchSize)
}

// Stop stops the outbox processor and waits for the current batch
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()

	p.logger.Info("Outbox processor stopped")
}

// processOutbox processes outbox messages in a loop
func (p *Processor) processOutbox() {
	ticker := time.NewTicker(p.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.ProcessBatch(p.ctx); err != nil {
				p.logger.Error("Failed to process outbox batch", "error", err)
			}
		}
	}
}

// ProcessBatch handles one batch of pending messages and reports how many completed
func (p *Processor) ProcessBatch(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.pollingInterval)
	defer cancel()

	messages, err := p.outboxRepo.GetPendingMessages(ctx, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to get pending messages: %w", err)
	}

	if len(messages) == 0 {
		p.logger.Debug("No pending messages to process")
		return 0, nil
	}

	p.logger.Info("Processing batch of outbox messages", "count", len(messages))

	completed := 0
	for _, msg := range messages {
		if err := p.processMessage(ctx, msg); err != nil {
			p.logger.Error("Failed to process message",
				"error", err,
				"messageID", msg.ID,
				"aggregateID", msg.AggregateID,
				"eventType", msg.EventType)
			continue
		}
		completed++
	}

	return completed, nil
}

// processMessage processes a single outbox message
func (p *Processor) processMessage(ctx context.Context, msg *models.OutboxMessage) error {
	if err := p.outboxRepo.MarkAsProcessing(ctx, msg.ID); err != nil {
		return fmt.Errorf("failed to mark message as processing: %w", err)
	}
	attempts := msg.ProcessingAttempts + 1

	p.mu.Lock()
	handlers := p.handlers[msg.EventType]
	p.mu.Unlock()

	if len(handlers) == 0 {
		errorMsg := fmt.Sprintf("no handler registered for event type: %s", msg.EventType)
		if err := p.outboxRepo.MarkAsFailed(ctx, msg.ID, errorMsg); err != nil {
			p.logger.Error("Failed to mark message as failed", "error", err, "messageID", msg.ID)
		}
		p.metrics.ObserveOutbox(msg.EventType, "failed")
		return fmt.Errorf("%s", errorMsg)
	}

	for _, handler := range handlers {
		if err := handler.HandleMessage(ctx, msg); err != nil {
			return p.handleFailure(ctx, msg, attempts, err)
		}
	}

	if err := p.outboxRepo.MarkAsCompleted(ctx, msg.ID); err != nil {
		p.logger.Error("Failed to mark message as completed", "error", err, "messageID", msg.ID)
		return fmt.Errorf("failed to mark message as completed: %w", err)
	}
	p.metrics.ObserveOutbox(msg.EventType, "completed")

	p.logger.Info("Successfully processed message",
		"messageID", msg.ID,
		"aggregateID", msg.AggregateID,
		"eventType", msg.EventType)

	return nil
}

// handleFailure returns the message to pending, or fails it for good after maxRetries attempts
func (p *Processor) handleFailure(ctx context.Context, msg *models.OutboxMessage, attempts int, cause error) error {
	if attempts >= p.maxRetries {
		errorMsg := fmt.Sprintf("max retries reached: %s", cause.Error())
		p.logger.Error(errorMsg, "messageID", msg.ID, "attempts", attempts)

		if err := p.outboxRepo.MarkAsFailed(ctx, msg.ID, errorMsg); err != nil {
			p.logger.Error("Failed to mark message as failed", "error", err, "messageID", msg.ID)
		}
		p.metrics.ObserveOutbox(msg.EventType, "failed")
		return fmt.Errorf("message failed after %d attempts: %w", attempts, cause)
	}

	p.logger.Warn("Message processing failed, will retry",
		"error", cause,
		"messageID", msg.ID,
		"attempt", attempts)

	if err := p.outboxRepo.MarkAsRetry(ctx, msg.ID, cause.Error()); err != nil {
		p.logger.Error("Failed to return message to pending", "error", err, "messageID", msg.ID)
	}
	p.metrics.ObserveOutbox(msg.EventType, "retry")
	return cause
}
