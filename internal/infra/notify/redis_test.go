package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ecommerce/internal/domain/model"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMessage(t *testing.T) {
	placed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := toMessage(model.Order{
		ID:            5,
		CustomerID:    2,
		PlacedAt:      placed,
		PaymentStatus: model.PaymentStatusPending,
		Items: []model.OrderItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		},
	})

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"order_id": 5,
		"customer_id": 2,
		"placed_at": "2024-01-02T03:04:05Z",
		"payment_status": "P",
		"items": [{"product_id": 1, "quantity": 2, "unit_price": "10"}]
	}`, string(b))
}

func TestRedisOrderListener_UnreachableReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewRedisOrderListener(client)
	assert.Equal(t, "redis", l.Name())
	assert.Error(t, l.OnOrderCreated(context.Background(), model.Order{ID: 1}))
}
