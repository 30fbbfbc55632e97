package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusShipping  OrderStatus = "SHIPPING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPreparing, OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPreparing: {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:  {OrderStatusDelivered},
}

// CanTransition reports whether an order may move from s to next
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order represents an order in the system
type Order struct {
	ID                  string      `json:"id"`
	OrderNo             string      `json:"orderNo"`
	CustomerID          string      `json:"customerId"`
	Customer            string      `json:"customer"`
	CustomerEmail       string      `json:"customerEmail"`
	ProductID           string      `json:"productId"`
	Product             string      `json:"product"`
	Quantity            int         `json:"quantity"`
	Amount              string      `json:"amount"`
	Date                string      `json:"date"`
	Status              OrderStatus `json:"status"`
	CancellationReason  string      `json:"cancellationReason,omitempty"`
	CreatedByAdminID    string      `json:"createdByAdminId,omitempty"`
	CreatedByAdminName  string      `json:"createdByAdminName,omitempty"`
	CreatedByAdminEmail string      `json:"createdByAdminEmail,omitempty"`
	CreatedByAdminRole  Role        `json:"createdByAdminRole,omitempty"`
}

// Active reports whether the order counts toward revenue and customer totals
func (o Order) Active() bool {
	return o.Status != OrderStatusCancelled
}

func (o Order) Field(name string) (interface{}, bool) {
	switch name {
	case "id":
		return o.ID, true
	case "orderNo":
		return o.OrderNo, true
	case "customerId":
		return o.CustomerID, true
	case "customer":
		return o.Customer, true
	case "customerEmail":
		return o.CustomerEmail, true
	case "productId":
		return o.ProductID, true
	case "product":
		return o.Product, true
	case "quantity":
		return o.Quantity, true
	case "amount":
		return o.Amount, true
	case "date":
		return o.Date, true
	case "status":
		return string(o.Status), true
	case "createdByAdminId":
		return o.CreatedByAdminID, true
	}
	return nil, false
}

// OrderID renders the internal sequential order id, e.g. ORDER-0007
func OrderID(seq int) string {
	return fmt.Sprintf("ORDER-%04d", seq)
}

// ParseOrderID extracts the sequence from an internal order id
func ParseOrderID(id string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "ORDER-"))
	if err != nil || !strings.HasPrefix(id, "ORDER-") {
		return 0, false
	}
	return n, true
}

// OrderNo renders the customer facing order number: the order date followed by
// the order's sequence within that day, e.g. 20250314-002
func OrderNo(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%03d", date.Format("20060102"), seq)
}

// ParseOrderNo splits an order number into its day prefix and daily sequence
func ParseOrderNo(orderNo string) (string, int, bool) {
	day, seqStr, ok := strings.Cut(orderNo, "-")
	if !ok {
		return "", 0, false
	}
	seq, err := strconv.Atoi(seqStr)
	if err != nil {
		return "", 0, false
	}
	return day, seq, true
}
