package seed_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/seed"
	"github.com/vaidashi/backoffice-api/internal/store"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func generate(t *testing.T, s int64) *store.Dataset {
	t.Helper()
	d, err := seed.Generate(seed.Options{Seed: s, Now: now})
	require.NoError(t, err)
	return d
}

func TestGenerate_Counts(t *testing.T) {
	t.Parallel()
	d := generate(t, 1)

	assert.Len(t, d.Users, 11)
	assert.Len(t, d.Customers, 41)
	assert.Len(t, d.Products, 100)
	assert.Len(t, d.Orders, 100)

	delivered := 0
	for _, o := range d.Orders {
		if o.Status == models.OrderStatusDelivered {
			delivered++
		}
	}
	assert.Len(t, d.Reviews, delivered)
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	a := generate(t, 7)
	b := generate(t, 7)
	for i := range a.Orders {
		assert.Equal(t, *a.Orders[i], *b.Orders[i])
	}
	for i := range a.Reviews {
		assert.Equal(t, *a.Reviews[i], *b.Reviews[i])
	}
}

func TestGenerate_OrdersConsistent(t *testing.T) {
	t.Parallel()
	d := generate(t, 3)

	today := models.FormatDate(now)
	todayCount := 0
	seenNo := map[string]bool{}

	for i, o := range d.Orders {
		if i > 0 {
			assert.GreaterOrEqual(t, d.Orders[i-1].Date, o.Date, "orders sorted newest first")
		}
		assert.NotEqual(t, seed.NoOrderCustomerID, o.CustomerID)
		assert.True(t, strings.HasPrefix(o.OrderNo, strings.ReplaceAll(o.Date, "-", "")))
		assert.False(t, seenNo[o.OrderNo], "duplicate order number %s", o.OrderNo)
		seenNo[o.OrderNo] = true

		p, err := d.FindProduct(o.ProductID)
		require.NoError(t, err)
		assert.True(t, models.LineAmount(p.Price, o.Quantity).Equal(models.ParseAmount(o.Amount)), o.ID)

		if o.Date == today {
			todayCount++
		}
		if o.CreatedByAdminID != "" {
			assert.Equal(t, models.OrderStatusPreparing, o.Status)
			assert.Equal(t, models.RoleCSAdmin, o.CreatedByAdminRole)
		}
	}
	assert.Positive(t, todayCount)
}

func TestGenerate_DerivedData(t *testing.T) {
	t.Parallel()
	d := generate(t, 11)

	for _, p := range d.Products {
		if p.Stock == 0 {
			assert.Equal(t, models.ProductStatusSoldOut, p.Status, p.ID)
		}
	}

	for _, c := range d.Customers {
		count := 0
		spent := decimal.Zero
		for _, o := range d.OrdersOfCustomer(c.ID) {
			if o.Active() {
				count++
				spent = spent.Add(models.ParseAmount(o.Amount))
			}
		}
		assert.Equal(t, count, c.TotalOrders, c.ID)
		assert.Equal(t, models.FormatAmount(spent), c.TotalSpent, c.ID)
	}

	noOrders, err := d.FindCustomer(seed.NoOrderCustomerID)
	require.NoError(t, err)
	assert.Zero(t, noOrders.TotalOrders)

	for _, r := range d.Reviews {
		o, err := d.FindOrder(r.OrderID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusDelivered, o.Status)
		assert.LessOrEqual(t, r.Date, models.FormatDate(now))
		assert.GreaterOrEqual(t, r.Rating, models.MinRating)
		assert.LessOrEqual(t, r.Rating, models.MaxRating)
	}
}

func TestGenerate_UserDates(t *testing.T) {
	t.Parallel()
	d := generate(t, 5)

	for _, u := range d.Users {
		switch u.Status {
		case models.UserStatusPending:
			assert.Empty(t, u.ApprovedAt)
			assert.Empty(t, u.RejectedAt)
		case models.UserStatusRejected:
			assert.Empty(t, u.ApprovedAt)
			assert.NotEmpty(t, u.RejectionReason)
		default:
			assert.NotEmpty(t, u.ApprovedAt)
			assert.GreaterOrEqual(t, u.ApprovedAt, u.CreatedAt)
		}
	}
}

func TestGenerate_HashesPasswordsOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	d, err := seed.Generate(seed.Options{Seed: 1, Now: now, HashPassword: func(p string) (string, error) {
		calls++
		return "hashed:" + p, nil
	}})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	admin, err := d.FindUserByEmail("admin@sparta.com")
	require.NoError(t, err)
	assert.Equal(t, "hashed:sparta1234", admin.Password)
}
