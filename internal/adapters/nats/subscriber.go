package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopwindow/shopwindow/internal/core/domain"
)

// Subscriber consumes entity lifecycle events from JetStream. The
// geocoder worker uses it to pick up newly created centers that still
// lack coordinates.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeCenterCreated delivers each created center to handler with
// at-most-three redeliveries on failure.
func (s *Subscriber) SubscribeCenterCreated(ctx context.Context, handler func(ctx context.Context, c *domain.ShoppingCenter) error) error {
	sub, err := s.js.Subscribe(SubjectCenterCreated+".>", func(msg *nats.Msg) {
		var c domain.ShoppingCenter
		if err := json.Unmarshal(msg.Data, &c); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &c); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("geocode-worker"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// SubscribeImportCompleted delivers import batch outcomes to handler.
func (s *Subscriber) SubscribeImportCompleted(ctx context.Context, handler func(ctx context.Context, b *domain.ImportBatch) error) error {
	sub, err := s.js.Subscribe(SubjectImportCompleted, func(msg *nats.Msg) {
		var b domain.ImportBatch
		if err := json.Unmarshal(msg.Data, &b); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &b); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("import-observer"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
