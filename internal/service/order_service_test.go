package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/service"
	"github.com/vaidashi/backoffice-api/internal/store"
	"github.com/vaidashi/backoffice-api/pkg/errors"
)

func (f *fixture) firstOrderWithStatus(t *testing.T, status models.OrderStatus) models.Order {
	t.Helper()
	var found *models.Order
	_ = f.store.View(func(d *store.Dataset) error {
		for _, o := range d.Orders {
			if o.Status == status {
				c := *o
				found = &c
				return nil
			}
		}
		return nil
	})
	require.NotNil(t, found, "no %s order in seed", status)
	return *found
}

func TestOrderService_CreateOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	p := f.newProduct(t, "Order Book", 3)
	c := f.newCustomer(t, "buyer@example.com")

	o, err := f.orders.CreateOrder(ctx, csAdmin, service.CreateOrderInput{CustomerID: c.ID, ProductID: p.ID, Quantity: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, "ORDER-0101", o.ID)
	assert.True(t, strings.HasPrefix(o.OrderNo, "20250615-"))
	assert.Equal(t, models.OrderStatusPreparing, o.Status)
	assert.Equal(t, "20,000원", o.Amount)
	assert.Equal(t, today, o.Date)
	assert.Equal(t, csAdmin.ID, o.CreatedByAdminID)
	assert.Equal(t, models.RoleCSAdmin, o.CreatedByAdminRole)

	list, _ := f.orders.List(ctx, query.Options{})
	assert.Equal(t, o.ID, list.Items[0].ID)

	product, _ := f.products.Get(ctx, p.ID)
	assert.Equal(t, 1, product.Stock)

	customer, _ := f.customers.Get(ctx, c.ID)
	assert.Equal(t, 1, customer.TotalOrders)
	assert.Equal(t, "20,000원", customer.TotalSpent)

	// daily sequence keeps counting within the same day
	next, err := f.orders.CreateOrder(ctx, csAdmin, service.CreateOrderInput{Customer: c.Name, Product: p.Name})
	require.NoError(t, err)
	_, seqA, _ := models.ParseOrderNo(o.OrderNo)
	_, seqB, _ := models.ParseOrderNo(next.OrderNo)
	assert.Equal(t, seqA+1, seqB)
	assert.Equal(t, 1, next.Quantity)

	product, _ = f.products.Get(ctx, p.ID)
	assert.Equal(t, 0, product.Stock)
	assert.Equal(t, models.ProductStatusSoldOut, product.Status)

	assert.Equal(t, []string{models.EventOrderCreated, models.EventOrderCreated}, f.eventTypes(t))
}

func TestOrderService_CreateOrderLargeQuantity(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	c := f.newCustomer(t, "bulk@example.com")
	p := f.newProduct(t, "Bulk", 1<<62)

	o, err := f.orders.CreateOrder(ctx, csAdmin, service.CreateOrderInput{
		CustomerID: c.ID, ProductID: p.ID, Quantity: intPtr(1 << 61),
	})
	require.NoError(t, err)
	assert.Equal(t, "23,058,430,092,136,939,520,000원", o.Amount)

	got, err := f.customers.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Amount, got.TotalSpent)
	assert.Equal(t, 1, got.TotalOrders)
}

func TestOrderService_CreateOrderRejections(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	c := f.newCustomer(t, "buyer@example.com")
	low := f.newProduct(t, "Low Stock", 3)
	gone := f.newProduct(t, "Gone", 4)
	_, err := f.products.ChangeStatus(ctx, gone.ID, models.ProductStatusDiscontinued)
	require.NoError(t, err)
	empty := f.newProduct(t, "Empty", 0)

	tests := []struct {
		name string
		in   service.CreateOrderInput
		code string
	}{
		{"insufficient stock", service.CreateOrderInput{CustomerID: c.ID, ProductID: low.ID, Quantity: intPtr(5)}, errors.CodeInsufficientStock},
		{"discontinued", service.CreateOrderInput{CustomerID: c.ID, ProductID: gone.ID}, errors.CodeProductDiscontinued},
		{"sold out", service.CreateOrderInput{CustomerID: c.ID, ProductID: empty.ID}, errors.CodeProductSoldOut},
		{"unknown customer", service.CreateOrderInput{CustomerID: "C999", ProductID: low.ID}, errors.CodeCustomerNotFound},
		{"unknown product", service.CreateOrderInput{CustomerID: c.ID, ProductID: "P999"}, errors.CodeProductNotFound},
		{"zero quantity", service.CreateOrderInput{CustomerID: c.ID, ProductID: low.ID, Quantity: intPtr(0)}, errors.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.CreateOrder(ctx, csAdmin, tt.in)
			assertCode(t, err, tt.code)
		})
	}

	_, err = f.orders.CreateOrder(ctx, csAdmin, service.CreateOrderInput{CustomerID: c.ID, ProductID: low.ID, Quantity: intPtr(5)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current stock: 3")
	assert.Contains(t, err.Error(), "requested: 5")

	product, _ := f.products.Get(ctx, low.ID)
	assert.Equal(t, 3, product.Stock)
	customer, _ := f.customers.Get(ctx, c.ID)
	assert.Equal(t, 0, customer.TotalOrders)
	assert.Empty(t, f.eventTypes(t))
}

func TestOrderService_Cancel(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	p := f.newProduct(t, "Cancel Me", 2)
	c := f.newCustomer(t, "buyer@example.com")
	o, err := f.orders.CreateOrder(ctx, csAdmin, service.CreateOrderInput{CustomerID: c.ID, ProductID: p.ID, Quantity: intPtr(2)})
	require.NoError(t, err)

	cancelled, err := f.orders.UpdateOrderStatus(ctx, o.ID, service.ChangeOrderStatusInput{
		Status:             models.OrderStatusCancelled,
		CancellationReason: "고객 요청",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, "고객 요청", cancelled.CancellationReason)

	product, _ := f.products.Get(ctx, p.ID)
	assert.Equal(t, 2, product.Stock)
	assert.Equal(t, models.ProductStatusAvailable, product.Status)

	customer, _ := f.customers.Get(ctx, c.ID)
	assert.Equal(t, 0, customer.TotalOrders)
	assert.Equal(t, "0원", customer.TotalSpent)

	// deleting a cancelled order does not restock twice
	require.NoError(t, f.orders.DeleteOrder(ctx, o.ID))
	product, _ = f.products.Get(ctx, p.ID)
	assert.Equal(t, 2, product.Stock)
}

func TestOrderService_StatusTransitions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	shipping := f.firstOrderWithStatus(t, models.OrderStatusShipping)
	_, err := f.orders.UpdateOrderStatus(ctx, shipping.ID, service.ChangeOrderStatusInput{Status: models.OrderStatusCancelled})
	assertCode(t, err, errors.CodeInvalidStatusChange)
	unchanged, _ := f.orders.Get(ctx, shipping.ID)
	assert.Equal(t, models.OrderStatusShipping, unchanged.Status)

	delivered := f.firstOrderWithStatus(t, models.OrderStatusDelivered)
	_, err = f.orders.UpdateOrderStatus(ctx, delivered.ID, service.ChangeOrderStatusInput{Status: models.OrderStatusShipping})
	assertCode(t, err, errors.CodeInvalidStatusChange)

	same, err := f.orders.UpdateOrderStatus(ctx, shipping.ID, service.ChangeOrderStatusInput{Status: models.OrderStatusShipping})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipping, same.Status)
	assert.Empty(t, f.eventTypes(t))

	_, err = f.orders.UpdateOrderStatus(ctx, shipping.ID, service.ChangeOrderStatusInput{Status: "LOST"})
	assertCode(t, err, errors.CodeValidation)

	done, err := f.orders.UpdateOrderStatus(ctx, shipping.ID, service.ChangeOrderStatusInput{Status: models.OrderStatusDelivered})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, done.Status)
	assert.Equal(t, []string{models.EventOrderStatusChanged}, f.eventTypes(t))

	preparing := f.firstOrderWithStatus(t, models.OrderStatusPreparing)
	_, err = f.orders.UpdateOrderStatus(ctx, preparing.ID, service.ChangeOrderStatusInput{Status: models.OrderStatusDelivered})
	assertCode(t, err, errors.CodeInvalidStatusChange)
}

func TestOrderService_DeleteRestoresStock(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	p := f.newProduct(t, "Delete Me", 1)
	c := f.newCustomer(t, "buyer@example.com")
	o, err := f.orders.CreateOrder(ctx, csAdmin, service.CreateOrderInput{CustomerID: c.ID, ProductID: p.ID})
	require.NoError(t, err)

	require.NoError(t, f.orders.DeleteOrder(ctx, o.ID))

	product, _ := f.products.Get(ctx, p.ID)
	assert.Equal(t, 1, product.Stock)
	assert.Equal(t, models.ProductStatusAvailable, product.Status)
	customer, _ := f.customers.Get(ctx, c.ID)
	assert.Equal(t, 0, customer.TotalOrders)

	assertCode(t, f.orders.DeleteOrder(ctx, o.ID), errors.CodeNotFound)
}
