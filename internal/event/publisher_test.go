package event_test

import (
	"context"
	"errors"
	"testing"

	"ecommerce/internal/domain/model"
	"ecommerce/internal/event"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublish_ListenerFailureIsIsolated(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := event.NewOrderCreatedPublisher(zap.New(core))

	var got []int64
	p.Register(event.ListenerFunc{ListenerName: "broken", Fn: func(ctx context.Context, o model.Order) error {
		return errors.New("sink down")
	}})
	p.Register(event.ListenerFunc{ListenerName: "panics", Fn: func(ctx context.Context, o model.Order) error {
		panic("boom")
	}})
	p.Register(event.ListenerFunc{ListenerName: "ok", Fn: func(ctx context.Context, o model.Order) error {
		got = append(got, o.ID)
		return nil
	}})

	n := p.Publish(context.Background(), model.Order{ID: 11})

	assert.Equal(t, 1, n)
	assert.Equal(t, []int64{11}, got)
	assert.Equal(t, 2, logs.FilterMessage("order created listener failed").Len())
}

func TestPublish_NoListeners(t *testing.T) {
	p := event.NewOrderCreatedPublisher(zap.NewNop())
	assert.Zero(t, p.Publish(context.Background(), model.Order{ID: 1}))
}

func TestLogListener(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := event.NewLogListener(zap.New(core))

	assert.NoError(t, l.OnOrderCreated(context.Background(), model.Order{ID: 3, CustomerID: 9}))
	assert.Equal(t, 1, logs.FilterMessage("order created").Len())
}
