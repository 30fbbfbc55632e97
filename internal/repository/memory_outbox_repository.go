package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vaidashi/backoffice-api/internal/models"
)

// MemoryOutboxRepository keeps outbox messages in process memory.
// It is the default when no database is configured.
type MemoryOutboxRepository struct {
	mu       sync.Mutex
	nextID   int64
	messages map[int64]*models.OutboxMessage
}

func NewMemoryOutboxRepository() *MemoryOutboxRepository {
	return &MemoryOutboxRepository{messages: make(map[int64]*models.OutboxMessage)}
}

func (r *MemoryOutboxRepository) Create(_ context.Context, message *models.OutboxMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	message.ID = r.nextID
	if message.Status == "" {
		message.Status = models.OutboxStatusPending
	}
	stored := *message
	r.messages[stored.ID] = &stored
	return nil
}

// GetPendingMessages returns copies of up to limit pending messages, oldest first
func (r *MemoryOutboxRepository) GetPendingMessages(_ context.Context, limit int) ([]*models.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make([]*models.OutboxMessage, 0)
	for _, m := range r.messages {
		if m.Status == models.OutboxStatusPending {
			c := *m
			pending = append(pending, &c)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })

	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *MemoryOutboxRepository) MarkAsProcessing(_ context.Context, id int64) error {
	return r.update(id, func(m *models.OutboxMessage) {
		m.Status = models.OutboxStatusProcessing
		m.ProcessingAttempts++
	})
}

func (r *MemoryOutboxRepository) MarkAsCompleted(_ context.Context, id int64) error {
	return r.update(id, func(m *models.OutboxMessage) {
		now := time.Now().UTC()
		m.Status = models.OutboxStatusCompleted
		m.ProcessedAt = &now
	})
}

func (r *MemoryOutboxRepository) MarkAsFailed(_ context.Context, id int64, errorMessage string) error {
	return r.update(id, func(m *models.OutboxMessage) {
		m.Status = models.OutboxStatusFailed
		m.LastError = &errorMessage
	})
}

func (r *MemoryOutboxRepository) MarkAsRetry(_ context.Context, id int64, errorMessage string) error {
	return r.update(id, func(m *models.OutboxMessage) {
		m.Status = models.OutboxStatusPending
		m.LastError = &errorMessage
	})
}

func (r *MemoryOutboxRepository) GetMessage(_ context.Context, id int64) (*models.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *m
	return &c, nil
}

func (r *MemoryOutboxRepository) update(id int64, fn func(m *models.OutboxMessage)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.messages[id]
	if !ok {
		return ErrNotFound
	}
	fn(m)
	return nil
}
