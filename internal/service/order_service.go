package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/store"
	"github.com/vaidashi/backoffice-api/pkg/errors"
)

var OrderSearchFields = []string{"orderNo", "customer", "product"}

// CreateOrderInput references the customer and product by id, or by exact
// name when the id does not resolve. Quantity defaults to 1.
type CreateOrderInput struct {
	CustomerID string `json:"customerId"`
	Customer   string `json:"customer"`
	ProductID  string `json:"productId"`
	Product    string `json:"product"`
	Quantity   *int   `json:"quantity"`
}

type ChangeOrderStatusInput struct {
	Status             models.OrderStatus `json:"status"`
	CancellationReason string             `json:"cancellationReason"`
}

// OrderService handles order-related operations
type OrderService struct {
	Dependencies
}

// NewOrderService creates a new OrderService
func NewOrderService(deps Dependencies) *OrderService {
	return &OrderService{Dependencies: deps}
}

func (s *OrderService) List(ctx context.Context, opts query.Options) (query.Page[models.Order], error) {
	var orders []models.Order
	_ = s.Store.View(func(d *store.Dataset) error {
		orders = make([]models.Order, len(d.Orders))
		for i, o := range d.Orders {
			orders[i] = *o
		}
		return nil
	})
	return query.Apply(orders, opts), nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.Store.View(func(d *store.Dataset) error {
		o, err := findOrder(d, id)
		if err != nil {
			return err
		}
		order = *o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder places a PREPARING order on behalf of actor, taking the
// quantity out of stock
func (s *OrderService) CreateOrder(ctx context.Context, actor Actor, in CreateOrderInput) (*models.Order, error) {
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if quantity < 1 {
		return nil, errors.NewValidationError("quantity must be at least 1").WithField("quantity", "quantity must be at least 1")
	}

	var created models.Order
	err := s.Store.Update(func(d *store.Dataset) error {
		customer, err := d.FindCustomer(in.CustomerID)
		if err != nil && in.Customer != "" {
			customer, err = d.FindCustomerByName(in.Customer)
		}
		if err != nil {
			return errors.NewNotFoundError("customer not found").WithCode(errors.CodeCustomerNotFound)
		}

		product, err := d.FindProduct(in.ProductID)
		if err != nil && in.Product != "" {
			product, err = d.FindProductByName(in.Product)
		}
		if err != nil {
			return errors.NewNotFoundError("product not found").WithCode(errors.CodeProductNotFound)
		}

		switch {
		case product.Status == models.ProductStatusDiscontinued:
			return errors.NewBusinessError(errors.CodeProductDiscontinued, "discontinued products cannot be ordered")
		case product.Status == models.ProductStatusSoldOut:
			return errors.NewBusinessError(errors.CodeProductSoldOut, "sold out products cannot be ordered")
		case product.Stock < quantity:
			return errors.NewBusinessError(errors.CodeInsufficientStock,
				fmt.Sprintf("insufficient stock (current stock: %d, requested: %d)", product.Stock, quantity))
		}

		now := s.now()
		order := &models.Order{
			ID:                  models.OrderID(nextOrderSeq(d)),
			OrderNo:             models.OrderNo(now, nextDailySeq(d, now.Format("20060102"))),
			CustomerID:          customer.ID,
			Customer:            customer.Name,
			CustomerEmail:       customer.Email,
			ProductID:           product.ID,
			Product:             product.Name,
			Quantity:            quantity,
			Amount:              models.FormatAmount(models.LineAmount(product.Price, quantity)),
			Date:                models.FormatDate(now),
			Status:              models.OrderStatusPreparing,
			CreatedByAdminID:    actor.ID,
			CreatedByAdminName:  actor.Name,
			CreatedByAdminEmail: actor.Email,
			CreatedByAdminRole:  actor.Role,
		}

		product.SetStock(product.Stock - quantity)
		d.Orders = append([]*models.Order{order}, d.Orders...)
		d.RecalculateCustomer(customer.ID)

		created = *order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, models.AggregateOrder, created.ID, models.EventOrderCreated, created)
	s.Logger.Info("Order created", "order_id", created.ID, "order_no", created.OrderNo, "created_by", actor.ID)
	return &created, nil
}

func nextOrderSeq(d *store.Dataset) int {
	max := 0
	for _, o := range d.Orders {
		if n, ok := models.ParseOrderID(o.ID); ok && n > max {
			max = n
		}
	}
	return max + 1
}

func nextDailySeq(d *store.Dataset, day string) int {
	max := 0
	for _, o := range d.Orders {
		if prefix, n, ok := models.ParseOrderNo(o.OrderNo); ok && prefix == day && n > max {
			max = n
		}
	}
	return max + 1
}

// UpdateOrderStatus moves an order through its lifecycle. Cancelling puts the
// quantity back in stock.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, in ChangeOrderStatusInput) (*models.Order, error) {
	if !in.Status.Valid() {
		return nil, errors.NewValidationError("invalid status").WithField("status", "invalid status")
	}

	var (
		updated   models.Order
		oldStatus models.OrderStatus
	)
	err := s.Store.Update(func(d *store.Dataset) error {
		o, err := findOrder(d, id)
		if err != nil {
			return err
		}
		oldStatus = o.Status

		if in.Status == models.OrderStatusCancelled && o.Status != models.OrderStatusPreparing {
			return errors.NewBusinessError(errors.CodeInvalidStatusChange, "only preparing orders can be cancelled")
		}
		if o.Status == in.Status {
			updated = *o
			return nil
		}
		if !o.Status.CanTransition(in.Status) {
			return errors.NewBusinessError(errors.CodeInvalidStatusChange,
				fmt.Sprintf("cannot change order status from %s to %s", o.Status, in.Status))
		}

		o.Status = in.Status
		if in.Status == models.OrderStatusCancelled {
			o.CancellationReason = strings.TrimSpace(in.CancellationReason)
			restock(d, o)
			d.RecalculateCustomer(o.CustomerID)
		}
		updated = *o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if oldStatus == updated.Status {
		return &updated, nil
	}

	msg, err := models.NewOrderStatusChangedEvent(&updated, oldStatus)
	s.record(ctx, msg, err)
	s.Logger.Info("Order status changed", "order_id", id, "old_status", oldStatus, "new_status", updated.Status)
	return &updated, nil
}

// restock returns the order's quantity to its product, if the product still exists
func restock(d *store.Dataset, o *models.Order) {
	p, err := d.FindProduct(o.ProductID)
	if err != nil {
		return
	}
	p.SetStock(p.Stock + o.Quantity)
}

// DeleteOrder removes an order, restoring stock unless it was already cancelled
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	err := s.Store.Update(func(d *store.Dataset) error {
		o, err := findOrder(d, id)
		if err != nil {
			return err
		}
		if o.Status != models.OrderStatusCancelled {
			restock(d, o)
		}
		if err := d.RemoveOrder(id); err != nil {
			return notFound("order")
		}
		d.RecalculateCustomer(o.CustomerID)
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, models.AggregateOrder, id, models.EventOrderDeleted, map[string]interface{}{"order_id": id})
	s.Logger.Info("Order deleted", "order_id", id)
	return nil
}
