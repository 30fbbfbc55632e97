package models

import (
	"encoding/json"
	"time"
)

// OutboxStatus represents the status of an outbox message
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusCompleted  OutboxStatus = "completed"
	OutboxStatusFailed     OutboxStatus = "failed"
)

// Aggregate types
const (
	AggregateOrder    = "order"
	AggregateProduct  = "product"
	AggregateUser     = "user"
	AggregateCustomer = "customer"
)

// Event types
const (
	EventOrderCreated        = "order_created"
	EventOrderStatusChanged  = "order_status_changed"
	EventOrderDeleted        = "order_deleted"
	EventProductStockChanged = "product_stock_changed"
	EventProductDeleted      = "product_deleted"
	EventUserApproved        = "user_approved"
	EventUserRejected        = "user_rejected"
	EventCustomerDeleted     = "customer_deleted"
)

// EventTypes lists every event type the services emit
var EventTypes = []string{
	EventOrderCreated, EventOrderStatusChanged, EventOrderDeleted,
	EventProductStockChanged, EventProductDeleted,
	EventUserApproved, EventUserRejected, EventCustomerDeleted,
}

// OutboxMessage represents a message to be published from the outbox
type OutboxMessage struct {
	ID                 int64        `db:"id" json:"id"`
	AggregateType      string       `db:"aggregate_type" json:"aggregate_type"`
	AggregateID        string       `db:"aggregate_id" json:"aggregate_id"`
	EventType          string       `db:"event_type" json:"event_type"`
	Payload            []byte       `db:"payload" json:"payload"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	ProcessedAt        *time.Time   `db:"processed_at" json:"processed_at,omitempty"`
	ProcessingAttempts int          `db:"processing_attempts" json:"processing_attempts"`
	LastError          *string      `db:"last_error" json:"last_error,omitempty"`
	Status             OutboxStatus `db:"status" json:"status"`
}

// OutboxMessageEvent represents the event data in the outbox message
type OutboxMessageEvent struct {
	EventType   string      `json:"event_type"`
	EventID     string      `json:"event_id"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Data        interface{} `json:"data"`
}

// NewEvent wraps data in an event envelope and returns the pending outbox message carrying it
func NewEvent(aggregateType, aggregateID, eventType string, data interface{}) (*OutboxMessage, error) {
	now := GetCurrentTime()
	event := OutboxMessageEvent{
		EventType:   eventType,
		EventID:     GenerateID("evt"),
		AggregateID: aggregateID,
		OccurredAt:  now,
		Data:        data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
		Status:        OutboxStatusPending,
	}, nil
}

// NewOrderStatusChangedEvent creates a new event for order status change
func NewOrderStatusChangedEvent(order *Order, oldStatus OrderStatus) (*OutboxMessage, error) {
	return NewEvent(AggregateOrder, order.ID, EventOrderStatusChanged, map[string]interface{}{
		"old_status":  oldStatus,
		"new_status":  order.Status,
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
	})
}

// NewStockChangedEvent records a stock movement of a product
func NewStockChangedEvent(product *Product, oldStock int) (*OutboxMessage, error) {
	return NewEvent(AggregateProduct, product.ID, EventProductStockChanged, map[string]interface{}{
		"product_id": product.ID,
		"old_stock":  oldStock,
		"new_stock":  product.Stock,
		"status":     product.Status,
	})
}
