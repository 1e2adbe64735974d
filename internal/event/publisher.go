package event

import (
	"context"
	"fmt"
	"sync"

	"ecommerce/internal/domain/model"

	"go.uber.org/zap"
)

// 注文作成の通知を受け取る
type OrderCreatedListener interface {
	Name() string
	OnOrderCreated(ctx context.Context, order model.Order) error
}

// 関数をそのままリスナーにする
type ListenerFunc struct {
	ListenerName string
	Fn           func(ctx context.Context, order model.Order) error
}

func (f ListenerFunc) Name() string { return f.ListenerName }

func (f ListenerFunc) OnOrderCreated(ctx context.Context, order model.Order) error {
	return f.Fn(ctx, order)
}

// 登録済みリスナー全員に配る。失敗はログのみで呼び出し元へ返さない
type OrderCreatedPublisher struct {
	log *zap.Logger

	mu        sync.RWMutex
	listeners []OrderCreatedListener
}

func NewOrderCreatedPublisher(log *zap.Logger) *OrderCreatedPublisher {
	return &OrderCreatedPublisher{log: log}
}

func (p *OrderCreatedPublisher) Register(l OrderCreatedListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// 成功したリスナー数を返す
func (p *OrderCreatedPublisher) Publish(ctx context.Context, order model.Order) int {
	p.mu.RLock()
	ls := make([]OrderCreatedListener, len(p.listeners))
	copy(ls, p.listeners)
	p.mu.RUnlock()

	ok := 0
	for _, l := range ls {
		if err := p.call(ctx, l, order); err != nil {
			p.log.Warn("order created listener failed",
				zap.String("listener", l.Name()),
				zap.Int64("order_id", order.ID),
				zap.Error(err),
			)
			continue
		}
		ok++
	}
	return ok
}

func (p *OrderCreatedPublisher) call(ctx context.Context, l OrderCreatedListener, order model.Order) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return l.OnOrderCreated(ctx, order)
}

// ログに残すだけのリスナー
func NewLogListener(log *zap.Logger) OrderCreatedListener {
	return ListenerFunc{
		ListenerName: "log",
		Fn: func(ctx context.Context, order model.Order) error {
			log.Info("order created",
				zap.Int64("order_id", order.ID),
				zap.Int64("customer_id", order.CustomerID),
				zap.Int("items", len(order.Items)),
			)
			return nil
		},
	}
}
