package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopwindow/shopwindow/internal/core/domain"
)

// Subjects for entity lifecycle events. Center events carry the center
// id as the last token so consumers can subscribe per entity.
const (
	SubjectCenterCreated   = "shopwindow.centers.created"
	SubjectCenterGeocoded  = "shopwindow.centers.geocoded"
	SubjectImportCompleted = "shopwindow.imports.completed"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream, and ensures the
// event streams exist.
func NewPublisher(url string) (*Publisher, error) {
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

	streams := []nats.StreamConfig{
		{
			Name:      "CENTER_EVENTS",
			Subjects:  []string{"shopwindow.centers.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "IMPORT_EVENTS",
			Subjects:  []string{"shopwindow.imports.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) publishJSON(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data)
	return err
}

func (p *Publisher) PublishCenterCreated(ctx context.Context, c *domain.ShoppingCenter) error {
	return p.publishJSON(SubjectCenterCreated+"."+strconv.FormatInt(c.ID, 10), c)
}

func (p *Publisher) PublishCenterGeocoded(ctx context.Context, c *domain.ShoppingCenter) error {
	return p.publishJSON(SubjectCenterGeocoded+"."+strconv.FormatInt(c.ID, 10), c)
}

func (p *Publisher) PublishImportCompleted(ctx context.Context, b *domain.ImportBatch) error {
	return p.publishJSON(SubjectImportCompleted, b)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
