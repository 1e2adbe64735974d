package notify

import (
	"context"
	"encoding/json"
	"time"

	"ecommerce/internal/domain/model"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

const OrderCreatedChannel = "orders.created"

type orderCreatedItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderCreatedMessage struct {
	OrderID       int64              `json:"order_id"`
	CustomerID    int64              `json:"customer_id"`
	PlacedAt      time.Time          `json:"placed_at"`
	PaymentStatus string             `json:"payment_status"`
	Items         []orderCreatedItem `json:"items"`
}

// 注文作成をRedisのチャンネルへ流す
type RedisOrderListener struct {
	client  *redis.Client
	channel string
}

func NewRedisClient(addr string, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
	})
}

func NewRedisOrderListener(client *redis.Client) *RedisOrderListener {
	return &RedisOrderListener{client: client, channel: OrderCreatedChannel}
}

func (l *RedisOrderListener) Name() string { return "redis" }

func (l *RedisOrderListener) OnOrderCreated(ctx context.Context, order model.Order) error {
	data, err := json.Marshal(toMessage(order))
	if err != nil {
		return err
	}
	return l.client.Publish(ctx, l.channel, data).Err()
}

func toMessage(o model.Order) orderCreatedMessage {
	items := make([]orderCreatedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderCreatedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return orderCreatedMessage{
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		PlacedAt:      o.PlacedAt,
		PaymentStatus: string(o.PaymentStatus),
		Items:         items,
	}
}
