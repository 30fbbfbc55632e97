package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/backoffice-api/internal/models"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := map[string]int64{
		"1,500,000원": 1500000,
		"0원":          0,
		"15000":       15000,
		"":            0,
		"abc":         0,
	}
	for in, want := range tests {
		assert.True(t, decimal.NewFromInt(want).Equal(models.ParseAmount(in)), in)
	}

	huge := models.ParseAmount("99,999,999,999,999,999,999원")
	assert.Equal(t, "99999999999999999999", huge.String())
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0원", models.FormatAmount(decimal.Zero))
	assert.Equal(t, "950원", models.FormatAmount(decimal.NewFromInt(950)))
	assert.Equal(t, "1,000원", models.FormatAmount(decimal.NewFromInt(1000)))
	assert.Equal(t, "1,500,000원", models.FormatAmount(decimal.NewFromInt(1500000)))
	assert.Equal(t, "-12,345원", models.FormatAmount(decimal.NewFromInt(-12345)))
	assert.Equal(t, "15,000원", models.NormalizeAmount("15000"))
}

func TestLineAmount_DoesNotOverflow(t *testing.T) {
	t.Parallel()

	amount := models.LineAmount("10,000원", 1<<61)
	want := decimal.NewFromInt(10000).Mul(decimal.NewFromInt(1 << 61))
	assert.True(t, want.Equal(amount))
	assert.True(t, amount.IsPositive())
	assert.Equal(t, "23,058,430,092,136,939,520,000원", models.FormatAmount(amount))
}

func TestProduct_SetStock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status models.ProductStatus
		from   int
		to     int
		want   models.ProductStatus
	}{
		{"drain to zero", models.ProductStatusAvailable, 3, 0, models.ProductStatusSoldOut},
		{"restock sold out", models.ProductStatusSoldOut, 0, 5, models.ProductStatusAvailable},
		{"discontinued stays at zero", models.ProductStatusDiscontinued, 3, 0, models.ProductStatusDiscontinued},
		{"discontinued stays on restock", models.ProductStatusDiscontinued, 0, 9, models.ProductStatusDiscontinued},
		{"available stays available", models.ProductStatusAvailable, 3, 7, models.ProductStatusAvailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &models.Product{Stock: tt.from, Status: tt.status}
			p.SetStock(tt.to)
			assert.Equal(t, tt.want, p.Status)
			assert.Equal(t, tt.to, p.Stock)
		})
	}
}

func TestOrderStatus_CanTransition(t *testing.T) {
	t.Parallel()

	assert.True(t, models.OrderStatusPreparing.CanTransition(models.OrderStatusShipping))
	assert.True(t, models.OrderStatusPreparing.CanTransition(models.OrderStatusCancelled))
	assert.True(t, models.OrderStatusShipping.CanTransition(models.OrderStatusDelivered))
	assert.False(t, models.OrderStatusShipping.CanTransition(models.OrderStatusCancelled))
	assert.False(t, models.OrderStatusDelivered.CanTransition(models.OrderStatusCancelled))
	assert.False(t, models.OrderStatusCancelled.CanTransition(models.OrderStatusPreparing))
}

func TestOrderNumbering(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ORDER-0042", models.OrderID(42))
	seq, ok := models.ParseOrderID("ORDER-0042")
	require.True(t, ok)
	assert.Equal(t, 42, seq)
	_, ok = models.ParseOrderID("P042")
	assert.False(t, ok)

	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "20250314-002", models.OrderNo(date, 2))
	day, n, ok := models.ParseOrderNo("20250314-002")
	require.True(t, ok)
	assert.Equal(t, "20250314", day)
	assert.Equal(t, 2, n)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	reviews := []models.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}, {Rating: 1}}
	s := models.Summarize(reviews)

	assert.Equal(t, 4, s.TotalReviews)
	assert.Equal(t, 3.5, s.AverageRating)
	assert.Equal(t, 1, s.FiveStarCount)
	assert.Equal(t, 2, s.FourStarCount)
	assert.Equal(t, 1, s.OneStarCount)
	assert.Equal(t, models.ReviewSummary{}, models.Summarize(nil))
}

func TestUser_PasswordNeverSerialized(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(models.User{ID: "1", Email: "a@b.c", Password: "secret-hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
	assert.NotContains(t, string(raw), "password")
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	order := &models.Order{ID: "ORDER-0001", CustomerID: "C001", Status: models.OrderStatusCancelled}
	msg, err := models.NewOrderStatusChangedEvent(order, models.OrderStatusPreparing)
	require.NoError(t, err)

	assert.Equal(t, models.AggregateOrder, msg.AggregateType)
	assert.Equal(t, models.EventOrderStatusChanged, msg.EventType)
	assert.Equal(t, models.OutboxStatusPending, msg.Status)

	var event models.OutboxMessageEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	assert.Equal(t, "ORDER-0001", event.AggregateID)
	data := event.Data.(map[string]interface{})
	assert.Equal(t, "PREPARING", data["old_status"])
	assert.Equal(t, "CANCELLED", data["new_status"])
}

func TestAverageRating(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.0", models.AverageRating(0, 0).StringFixed(1))
	assert.Equal(t, "4.5", models.AverageRating(9, 2).StringFixed(1))
	assert.Equal(t, "4.3", models.AverageRating(13, 3).StringFixed(1))
	assert.Equal(t, "3.7", models.AverageRating(11, 3).StringFixed(1))
}
